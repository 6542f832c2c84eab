package event

const UserCreatedDestination string = "user_created"
const UserCreatedConsumerDelivery string = "user_created_delivery"

// UserCreatedMessage announces an account provisioned by an administrator.
type UserCreatedMessage struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}
