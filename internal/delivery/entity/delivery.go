package entity

import (
	"time"

	"github.com/antonvb/authgate/internal/pkg/valueobject"
)

// DeliveryRecord is one outbound message attempt. It records who was
// contacted and whether the send worked; message secrets (such as one-time
// codes) are never stored here.
type DeliveryRecord struct {
	ID               int64
	UserID           int64
	TriggerKey       TriggerKey
	Channel          Channel
	Recipient        string
	Status           DeliveryStatus
	ProviderResponse valueobject.JSONMap
	CreatedAt        time.Time
}

type UpdateDeliveryRecord struct {
	ID               int64
	Status           DeliveryStatus
	ProviderResponse valueobject.JSONMap
}

type DeliveryListFilter struct {
	IsFilterByUser bool
	UserID         int64
	Size           int32
	Page           int32
}
