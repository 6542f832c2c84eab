package inbound

import (
	"github.com/antonvb/authgate/internal/delivery/usecase"
	"github.com/antonvb/authgate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the delivery audit trail.
type HTTPEndpoint struct {
	uc uc
}

// ListLogs returns delivery records with optional filters.
// @Summary List delivery logs
// @Description Returns a paginated delivery audit trail, optionally filtered by user.
// @Tags Delivery, Management Logs
// @Security BearerAuth
// @Produce json
// @Param user_id query int false "Filter by user id"
// @Param size query int false "Pagination size"
// @Param page query int false "Pagination page"
// @Success 200 {object} router.successResponse{data=DeliveryLogsResponse} "Delivery logs"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/delivery/logs [get]
func (h *HTTPEndpoint) ListLogs(r *router.Request) (any, error) {
	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	var userID int64
	if raw := r.GetQuery("user_id"); raw != "" {
		id, err := r.GetQueryInt32("user_id")
		if err != nil {
			return nil, err
		}
		userID = int64(id)
	}

	resp, err := h.uc.ListLogs(r.Context(), usecase.ListLogsInput{
		UserID: userID,
		Size:   size,
		Page:   page,
	})
	if err != nil {
		return nil, err
	}

	records := make([]DeliveryLogResponse, 0, len(resp.Records))
	for _, item := range resp.Records {
		records = append(records, DeliveryLogResponse{
			ID:         item.ID,
			UserID:     item.UserID,
			TriggerKey: item.TriggerKey.String(),
			Channel:    item.Channel.String(),
			Recipient:  item.Recipient,
			Status:     item.Status.String(),
			CreatedAt:  item.CreatedAt,
		})
	}

	return DeliveryLogsResponse{
		total:   resp.Total,
		size:    resp.Size,
		page:    resp.Page,
		Records: records,
	}, nil
}
