package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/antonvb/authgate/internal/delivery/usecase"
	"github.com/antonvb/authgate/internal/pkg/instrument"
	"github.com/antonvb/authgate/internal/pkg/messaging"
	"github.com/antonvb/authgate/internal/pkg/uid"
	"github.com/antonvb/authgate/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// OtpIssuedDelivery handles freshly issued one-time codes. The message body
// carries the plaintext code, so it is never echoed into logs here.
func (h *MQHandler) OtpIssuedDelivery(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("delivery.inbound.mq").Start(ctx, "OtpIssuedDelivery")
	defer span.End()

	var payload event.OtpIssuedMessage
	if err := json.Unmarshal(msg.Body(), &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp issued delivery", "error", err)
		return nil
	}

	slog.InfoContext(ctx, "consume: otp issued delivery", "user_id", payload.UserID, "session_id", payload.SessionID)

	if err := h.uc.ConsumeOtpIssued(ctx, usecase.ConsumeOtpIssuedInput{
		UserID:           payload.UserID,
		Email:            payload.Email,
		SessionID:        payload.SessionID,
		Code:             payload.Code,
		ExpiresAtUnixMs:  payload.ExpiresAtUnixMs,
		ExpiresInSeconds: payload.ExpiresInSeconds,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp issued", "user_id", payload.UserID, "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) UserCreatedDelivery(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("delivery.inbound.mq").Start(ctx, "UserCreatedDelivery")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: user created delivery", "msg_body", string(body))

	var payload event.UserCreatedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of user created delivery", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeUserCreated(ctx, usecase.ConsumeUserCreatedInput{
		UserID:   payload.UserID,
		Email:    payload.Email,
		FullName: payload.FullName,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume user created", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
