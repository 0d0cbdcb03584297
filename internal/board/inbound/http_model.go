package inbound

import "time"

type JobCreateRequest struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	City           string    `json:"city"`
	HourlyRateCent int64     `json:"hourly_rate_cent"`
	StartsAt       time.Time `json:"starts_at"`
}

type JobCreateResponse struct {
	JobID int64 `json:"job_id,string"`
}

func (JobCreateResponse) Message() string {
	return "Job posted successfully."
}

type JobResponse struct {
	ID             int64     `json:"id,string"`
	EmployerID     int64     `json:"employer_id,string"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	City           string    `json:"city"`
	HourlyRateCent int64     `json:"hourly_rate_cent"`
	StartsAt       time.Time `json:"starts_at"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type JobCloseResponse struct{}

func (JobCloseResponse) Message() string {
	return "Job closed."
}

type StudentUpsertRequest struct {
	Headline       string   `json:"headline"`
	Bio            string   `json:"bio"`
	City           string   `json:"city"`
	Skills         []string `json:"skills"`
	HourlyRateCent int64    `json:"hourly_rate_cent"`
	WhatsAppNumber string   `json:"whatsapp_number"`
	AlertsOptIn    bool     `json:"alerts_opt_in"`
	Published      bool     `json:"published"`
}

type StudentUpsertResponse struct{}

func (StudentUpsertResponse) Message() string {
	return "Profile saved."
}

type StudentResponse struct {
	UserID         int64    `json:"user_id,string"`
	Headline       string   `json:"headline"`
	Bio            string   `json:"bio"`
	City           string   `json:"city"`
	Skills         []string `json:"skills"`
	HourlyRateCent int64    `json:"hourly_rate_cent"`
	PhotoURL       string   `json:"photo_url,omitempty"`
}

type StudentPhotoResponse struct {
	PhotoURL string `json:"photo_url"`
}

func (StudentPhotoResponse) Message() string {
	return "Photo uploaded."
}

type EmployerContactRequest struct {
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

type ContactCreateRequest struct {
	StudentID int64                  `json:"student_id,string"`
	Message   string                 `json:"message"`
	Contact   EmployerContactRequest `json:"employer_contact"`
}

type ContactCreateResponse struct {
	RequestID int64 `json:"request_id,string"`
}

func (ContactCreateResponse) Message() string {
	return "Contact request sent."
}

type ContactResponse struct {
	ID         int64                  `json:"id,string"`
	StudentID  int64                  `json:"student_id,string"`
	EmployerID int64                  `json:"employer_id,string"`
	Message    string                 `json:"message"`
	Contact    EmployerContactRequest `json:"employer_contact"`
	Status     string                 `json:"status"`
	CreatedAt  time.Time              `json:"created_at"`
}

type ContactDecisionResponse struct{}

func (ContactDecisionResponse) Message() string {
	return "Contact request updated."
}
