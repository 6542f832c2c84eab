package usecase

import (
	"context"
	"log/slog"

	"github.com/antonvb/authgate/internal/delivery/entity"
	"github.com/antonvb/authgate/internal/pkg/goerror"
	"github.com/antonvb/authgate/internal/shared/constant"
)

type ListLogsInput struct {
	UserID int64
	Size   int32
	Page   int32
}

type ListLogsOutput struct {
	Page    int32
	Size    int32
	Total   int64
	Records []entity.DeliveryRecord
}

// ListLogs returns the delivery audit trail for operators.
func (s *Usecase) ListLogs(ctx context.Context, in ListLogsInput) (*ListLogsOutput, error) {
	ctx, span := s.startSpan(ctx, "ListLogs")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, constant.PermDeliveryMgmtLogs, constant.PermActRead); err != nil {
		return nil, err
	}

	if in.Size <= 0 || in.Size > 100 {
		in.Size = 10 // default limit
	}

	filter := entity.DeliveryListFilter{
		Size: in.Size,
		Page: (max(in.Page, 1) - 1) * in.Size,
	}
	if in.UserID > 0 {
		filter.IsFilterByUser = true
		filter.UserID = in.UserID
	}

	records, count, err := s.repoDB.ListDeliveryRecords(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list delivery records", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ListLogsOutput{
		Page:    max(in.Page, 1),
		Size:    in.Size,
		Total:   count,
		Records: records,
	}, nil
}
