package event

const JobPostedDestination string = "job_posted"
const JobPostedConsumerNotification string = "job_posted_notification"

type JobPostedMessage struct {
	JobID          int64  `json:"job_id"`
	EmployerID     int64  `json:"employer_id"`
	Title          string `json:"title"`
	Category       string `json:"category"`
	City           string `json:"city"`
	HourlyRateCent int64  `json:"hourly_rate_cent"`
}
