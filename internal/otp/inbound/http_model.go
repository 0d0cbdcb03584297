package inbound

type SendRequest struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

type SendResponse struct{}

func (SendResponse) Message() string {
	return "If the email address is valid, a verification code has been sent."
}

type VerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
	Type  string `json:"type"`
}

type VerifyResponse struct {
	Verified bool   `json:"verified"`
	Message  string `json:"message,omitempty"`
}
