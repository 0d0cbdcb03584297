package entity

// Purpose scopes a one-time code to the flow that requested it. A code issued
// for one purpose never verifies another.
type Purpose int16

const (
	// PurposeUnknown means the purpose is not known / not set.
	PurposeUnknown Purpose = 0

	// PurposeSignup covers email verification during account creation.
	PurposeSignup Purpose = 1

	// PurposePasswordReset covers the forgot-password flow.
	PurposePasswordReset Purpose = 2
)

func (p Purpose) String() string {
	switch p {
	case PurposeSignup:
		return "signup"
	case PurposePasswordReset:
		return "password_reset"
	default:
		return "unknown"
	}
}

func (p Purpose) IsUnknown() bool {
	switch p {
	case PurposeSignup, PurposePasswordReset:
		return false
	default:
		return true
	}
}

func PurposeFromString(s string) Purpose {
	switch s {
	case "signup":
		return PurposeSignup
	case "password_reset":
		return PurposePasswordReset
	default:
		return PurposeUnknown
	}
}

// DeliveryReason classifies why an email send failed.
type DeliveryReason string

const (
	DeliveryInvalidProviderCredentials DeliveryReason = "InvalidProviderCredentials"
	DeliveryAuthenticationFailed       DeliveryReason = "AuthenticationFailed"
	DeliveryRateLimited                DeliveryReason = "RateLimited"
	DeliveryUnknownError               DeliveryReason = "UnknownDeliveryError"
)
