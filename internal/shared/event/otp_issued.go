package event

const OtpIssuedDestination string = "otp_issued"
const OtpIssuedConsumerDelivery string = "otp_issued_delivery"

// OtpIssuedMessage carries a freshly issued one-time code to the delivery
// channel. This is the only place the plaintext code travels besides the
// issuer itself; it must never be echoed back over the issuing HTTP response.
type OtpIssuedMessage struct {
	UserID           int64  `json:"user_id"`
	Email            string `json:"email"`
	SessionID        string `json:"session_id"`
	Code             string `json:"code"`
	ExpiresAtUnixMs  int64  `json:"expires_at_unix_ms"`
	ExpiresInSeconds int64  `json:"expires_in_seconds"`
}
