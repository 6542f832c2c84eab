package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/antonvb/authgate/internal/delivery/entity"
	"github.com/antonvb/authgate/internal/pkg/mail"
	"github.com/antonvb/authgate/internal/pkg/valueobject"
)

const otpEmailSubject = "Your verification code"

const otpEmailBody = `
<p>Hello,</p>
<p>Your verification code is:</p>
<h2 style="letter-spacing:4px">{{.code}}</h2>
<p>It expires in {{.expires_in_seconds}} seconds. If you did not request this code, you can ignore this email.</p>
<p>{{.company_name}} — {{.support_email}}</p>
`

type (
	ConsumeOtpIssuedInput struct {
		UserID           int64  `validate:"required,gt=0"`
		Email            string `validate:"required,email"`
		SessionID        string `validate:"required"`
		Code             string `validate:"required"`
		ExpiresAtUnixMs  int64  `validate:"required,gt=0"`
		ExpiresInSeconds int64
	}
)

// ConsumeOtpIssued dispatches a freshly issued one-time code: it emails the
// code to the user and, when the display channel is enabled, pushes it to the
// session's on-screen stream. The code itself is never written to the
// delivery record or to logs.
func (s *Usecase) ConsumeOtpIssued(ctx context.Context, in ConsumeOtpIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOtpIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	// A code that already expired in transit is not worth delivering.
	expiresAt := time.UnixMilli(in.ExpiresAtUnixMs)
	if s.clock.Now().After(expiresAt) {
		slog.WarnContext(ctx, "one-time code expired before dispatch", "user_id", in.UserID, "session_id", in.SessionID)
		return nil
	}

	data := s.baseEmailTemplateData()
	data["code"] = in.Code
	data["expires_in_seconds"] = in.ExpiresInSeconds

	body, err := s.renderTemplate("otp_email", otpEmailBody, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render otp email body", "user_id", in.UserID, "error", err)
		return nil
	}

	record := entity.DeliveryRecord{
		ID:         s.uid.Generate(),
		UserID:     in.UserID,
		TriggerKey: entity.TriggerKeyOtpCode,
		Channel:    entity.ChannelEmail,
		Recipient:  in.Email,
		Status:     entity.DeliveryStatusQueued,
		ProviderResponse: valueobject.JSONMap{
			"session_id": in.SessionID,
		},
	}
	if err := s.repoDB.CreateDeliveryRecord(ctx, record); err != nil {
		slog.ErrorContext(ctx, "failed to repo create delivery record", "user_id", in.UserID, "error", err)
		return err
	}

	mailErr := s.repoMail.Send(ctx, mail.Message{
		To:       []string{in.Email},
		Subject:  otpEmailSubject,
		HTMLBody: body,
	})
	status := entity.DeliveryStatusSent
	response := valueobject.JSONMap{}
	if mailErr != nil {
		status = entity.DeliveryStatusFailed
		response["error"] = mailErr.Error()
		slog.ErrorContext(ctx, "failed to send otp email", "user_id", in.UserID, "error", mailErr)
	}

	if err := s.repoDB.UpdateDeliveryRecordStatus(ctx, entity.UpdateDeliveryRecord{
		ID:               record.ID,
		Status:           status,
		ProviderResponse: response,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo update delivery record status", "record_id", record.ID, "error", err)
	}

	if s.DisplayEnabled() {
		s.publishDisplay(DisplayEvent{
			SessionID:        in.SessionID,
			Code:             in.Code,
			ExpiresAtUnixMs:  in.ExpiresAtUnixMs,
			ExpiresInSeconds: in.ExpiresInSeconds,
		})
		s.recordDisplayDispatch(ctx, in)
	}

	return nil
}

func (s *Usecase) recordDisplayDispatch(ctx context.Context, in ConsumeOtpIssuedInput) {
	record := entity.DeliveryRecord{
		ID:         s.uid.Generate(),
		UserID:     in.UserID,
		TriggerKey: entity.TriggerKeyOtpCode,
		Channel:    entity.ChannelDisplay,
		Recipient:  in.SessionID,
		Status:     entity.DeliveryStatusSent,
		ProviderResponse: valueobject.JSONMap{
			"session_id": in.SessionID,
		},
	}
	if err := s.repoDB.CreateDeliveryRecord(ctx, record); err != nil {
		slog.ErrorContext(ctx, "failed to repo create display delivery record", "user_id", in.UserID, "error", err)
	}
}
