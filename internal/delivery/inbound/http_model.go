package inbound

import "time"

type DeliveryLogResponse struct {
	ID         int64     `json:"id,string"`
	UserID     int64     `json:"user_id,string"`
	TriggerKey string    `json:"trigger_key"`
	Channel    string    `json:"channel"`
	Recipient  string    `json:"recipient"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type DeliveryLogsResponse struct {
	Records []DeliveryLogResponse `json:"records"`
	// meta
	total int64
	size  int32
	page  int32
}

func (r DeliveryLogsResponse) Meta() map[string]any {
	return map[string]any{
		"total": r.total,
		"size":  r.size,
		"page":  r.page,
	}
}
