package event

const OTPIssuedDestination string = "otp_issued"
const OTPIssuedConsumerNotification string = "otp_issued_notification"

// OTPIssuedMessage records that a code was issued. It never carries the code
// itself; the notification module uses it for the audit trail only.
type OTPIssuedMessage struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
}
