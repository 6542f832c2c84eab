package entity

import "strings"

// Channel is the medium a message went out on. Display is the on-screen
// simulation channel used during development and demos.
type Channel int16

const (
	ChannelUnknown Channel = 0
	ChannelEmail   Channel = 1
	ChannelDisplay Channel = 2
)

func ChannelFromString(raw string) Channel {
	switch strings.TrimSpace(raw) {
	case "email":
		return ChannelEmail
	case "display":
		return ChannelDisplay
	default:
		return ChannelUnknown
	}
}

func (c Channel) String() string {
	switch c {
	case ChannelEmail:
		return "email"
	case ChannelDisplay:
		return "display"
	default:
		return "unknown"
	}
}

type DeliveryStatus int16

const (
	DeliveryStatusUnknown DeliveryStatus = 0
	DeliveryStatusQueued  DeliveryStatus = 1
	DeliveryStatusSent    DeliveryStatus = 2
	DeliveryStatusFailed  DeliveryStatus = 3
)

func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryStatusQueued:
		return "queued"
	case DeliveryStatusSent:
		return "sent"
	case DeliveryStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type TriggerKey string

const (
	TriggerKeyOtpCode     TriggerKey = "otp_code"
	TriggerKeyUserWelcome TriggerKey = "user_welcome"
)

func (tk TriggerKey) String() string {
	return string(tk)
}
