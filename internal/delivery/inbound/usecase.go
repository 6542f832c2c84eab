package inbound

import (
	"context"

	"github.com/antonvb/authgate/internal/delivery/usecase"
)

type ucConsumer interface {
	ConsumeOtpIssued(ctx context.Context, in usecase.ConsumeOtpIssuedInput) error
	ConsumeUserCreated(ctx context.Context, in usecase.ConsumeUserCreatedInput) error
}

type ucStream interface {
	StreamOtpDisplay(ctx context.Context, sessionID string) <-chan usecase.DisplayEvent
	DisplayEnabled() bool
}

type uc interface {
	ucConsumer
	ucStream

	ListLogs(ctx context.Context, in usecase.ListLogsInput) (*usecase.ListLogsOutput, error)
}
