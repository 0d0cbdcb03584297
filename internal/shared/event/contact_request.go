package event

const ContactRequestedDestination string = "contact_requested"
const ContactRequestedConsumerNotification string = "contact_requested_notification"

const ContactApprovedDestination string = "contact_approved"
const ContactApprovedConsumerNotification string = "contact_approved_notification"

type ContactRequestedMessage struct {
	RequestID  int64  `json:"request_id"`
	StudentID  int64  `json:"student_id"`
	EmployerID int64  `json:"employer_id"`
	Message    string `json:"message"`
}

// ContactApprovedMessage carries the employer's contact card so the
// notification can hand the student's approval straight back to them.
type ContactApprovedMessage struct {
	RequestID  int64  `json:"request_id"`
	StudentID  int64  `json:"student_id"`
	EmployerID int64  `json:"employer_id"`
	Company    string `json:"company"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}
