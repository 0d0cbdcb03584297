package entity

import "time"

type Job struct {
	ID             int64
	EmployerID     int64
	Title          string
	Description    string
	Category       JobCategory
	City           string
	HourlyRateCent int64
	StartsAt       time.Time
	Status         JobStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// JobFilter narrows public job listings. Zero values mean no constraint.
type JobFilter struct {
	Category JobCategory
	City     string
	Query    string
}

type StudentProfile struct {
	UserID         int64
	Headline       string
	Bio            string
	City           string
	Skills         []string
	HourlyRateCent int64
	WhatsAppNumber string
	AlertsOptIn    bool
	PhotoURL       string
	Status         ProfileStatus
	UpdatedAt      time.Time
}

// StudentFilter narrows the public student directory.
type StudentFilter struct {
	Skill string
	City  string
}

// EmployerContact is the contact card an employer attaches to a request.
type EmployerContact struct {
	Company string
	Phone   string
	Email   string
}

type ContactRequest struct {
	ID         int64
	StudentID  int64
	EmployerID int64
	Message    string
	Contact    EmployerContact
	Status     ContactStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
