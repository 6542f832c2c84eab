package usecase

import (
	"context"
	"log/slog"

	"github.com/antonvb/authgate/internal/delivery/entity"
	"github.com/antonvb/authgate/internal/pkg/mail"
	"github.com/antonvb/authgate/internal/pkg/valueobject"
)

const welcomeEmailSubject = "Welcome aboard"

const welcomeEmailBody = `
<p>Hi {{.full_name}},</p>
<p>An account has been created for you. You can now sign in with your email address.</p>
<p>{{.company_name}} — {{.support_email}}</p>
`

type (
	ConsumeUserCreatedInput struct {
		UserID   int64  `validate:"required,gt=0"`
		Email    string `validate:"required,email"`
		FullName string `validate:"required"`
	}
)

func (s *Usecase) ConsumeUserCreated(ctx context.Context, in ConsumeUserCreatedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeUserCreated")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	data := s.baseEmailTemplateData()
	data["full_name"] = in.FullName

	body, err := s.renderTemplate("welcome_email", welcomeEmailBody, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render welcome email body", "user_id", in.UserID, "error", err)
		return nil
	}

	record := entity.DeliveryRecord{
		ID:               s.uid.Generate(),
		UserID:           in.UserID,
		TriggerKey:       entity.TriggerKeyUserWelcome,
		Channel:          entity.ChannelEmail,
		Recipient:        in.Email,
		Status:           entity.DeliveryStatusQueued,
		ProviderResponse: valueobject.JSONMap{},
	}
	if err := s.repoDB.CreateDeliveryRecord(ctx, record); err != nil {
		slog.ErrorContext(ctx, "failed to repo create delivery record", "user_id", in.UserID, "error", err)
		return err
	}

	mailErr := s.repoMail.Send(ctx, mail.Message{
		To:       []string{in.Email},
		Subject:  welcomeEmailSubject,
		HTMLBody: body,
	})
	status := entity.DeliveryStatusSent
	response := valueobject.JSONMap{}
	if mailErr != nil {
		status = entity.DeliveryStatusFailed
		response["error"] = mailErr.Error()
		slog.ErrorContext(ctx, "failed to send welcome email", "user_id", in.UserID, "error", mailErr)
	}

	if err := s.repoDB.UpdateDeliveryRecordStatus(ctx, entity.UpdateDeliveryRecord{
		ID:               record.ID,
		Status:           status,
		ProviderResponse: response,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo update delivery record status", "record_id", record.ID, "error", err)
	}

	return nil
}
