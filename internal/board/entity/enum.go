package entity

// JobStatus is the lifecycle state of a job posting.
type JobStatus int16

const (
	JobStatusUnknown JobStatus = iota
	JobStatusActive
	JobStatusClosed
)

func (s JobStatus) String() string {
	switch s {
	case JobStatusActive:
		return "active"
	case JobStatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

func JobStatusFromString(s string) JobStatus {
	switch s {
	case "active":
		return JobStatusActive
	case "closed":
		return JobStatusClosed
	default:
		return JobStatusUnknown
	}
}

// JobCategory is the coarse job classification used by filters and alerts.
type JobCategory int16

const (
	JobCategoryUnknown JobCategory = iota
	JobCategoryHospitality
	JobCategoryRetail
	JobCategoryLogistics
	JobCategoryTutoring
	JobCategoryEvents
	JobCategoryOffice
)

func (c JobCategory) String() string {
	switch c {
	case JobCategoryHospitality:
		return "hospitality"
	case JobCategoryRetail:
		return "retail"
	case JobCategoryLogistics:
		return "logistics"
	case JobCategoryTutoring:
		return "tutoring"
	case JobCategoryEvents:
		return "events"
	case JobCategoryOffice:
		return "office"
	default:
		return "unknown"
	}
}

func (c JobCategory) IsUnknown() bool {
	return c != JobCategoryHospitality && c != JobCategoryRetail &&
		c != JobCategoryLogistics && c != JobCategoryTutoring &&
		c != JobCategoryEvents && c != JobCategoryOffice
}

func JobCategoryFromString(s string) JobCategory {
	switch s {
	case "hospitality":
		return JobCategoryHospitality
	case "retail":
		return JobCategoryRetail
	case "logistics":
		return JobCategoryLogistics
	case "tutoring":
		return JobCategoryTutoring
	case "events":
		return JobCategoryEvents
	case "office":
		return JobCategoryOffice
	default:
		return JobCategoryUnknown
	}
}

// ProfileStatus controls whether a student profile appears in the public
// directory.
type ProfileStatus int16

const (
	ProfileStatusUnknown ProfileStatus = iota
	ProfileStatusDraft
	ProfileStatusPublished
)

func (s ProfileStatus) String() string {
	switch s {
	case ProfileStatusDraft:
		return "draft"
	case ProfileStatusPublished:
		return "published"
	default:
		return "unknown"
	}
}

func ProfileStatusFromString(s string) ProfileStatus {
	switch s {
	case "draft":
		return ProfileStatusDraft
	case "published":
		return ProfileStatusPublished
	default:
		return ProfileStatusUnknown
	}
}

// ContactStatus is the decision state of a contact request.
type ContactStatus int16

const (
	ContactStatusUnknown ContactStatus = iota
	ContactStatusPending
	ContactStatusApproved
	ContactStatusDeclined
)

func (s ContactStatus) String() string {
	switch s {
	case ContactStatusPending:
		return "pending"
	case ContactStatusApproved:
		return "approved"
	case ContactStatusDeclined:
		return "declined"
	default:
		return "unknown"
	}
}

func ContactStatusFromString(s string) ContactStatus {
	switch s {
	case "pending":
		return ContactStatusPending
	case "approved":
		return ContactStatusApproved
	case "declined":
		return ContactStatusDeclined
	default:
		return ContactStatusUnknown
	}
}
