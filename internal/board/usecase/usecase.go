package usecase

import (
	"context"

	"github.com/shiftbuddy/shiftbuddy/internal/board/entity"
	identityentity "github.com/shiftbuddy/shiftbuddy/internal/identity/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/clock"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/config"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/jwt"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/storage"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/uid"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type JobPostedEvent struct {
	JobID          int64
	EmployerID     int64
	Title          string
	Category       entity.JobCategory
	City           string
	HourlyRateCent int64
}

type ContactRequestedEvent struct {
	RequestID  int64
	StudentID  int64
	EmployerID int64
	Message    string
}

type ContactApprovedEvent struct {
	RequestID  int64
	StudentID  int64
	EmployerID int64
	Contact    entity.EmployerContact
}

type repoMessaging interface {
	PublishJobPosted(ctx context.Context, msg JobPostedEvent) error
	PublishContactRequested(ctx context.Context, msg ContactRequestedEvent) error
	PublishContactApproved(ctx context.Context, msg ContactApprovedEvent) error
}

type repoDB interface {
	GetUserRole(ctx context.Context, userID int64) (identityentity.UserRole, error)

	CreateJob(ctx context.Context, job entity.Job) error
	GetJob(ctx context.Context, id int64) (*entity.Job, error)
	ListJobs(ctx context.Context, filter entity.JobFilter) ([]entity.Job, error)
	UpdateJobStatus(ctx context.Context, id int64, status entity.JobStatus) error

	UpsertStudentProfile(ctx context.Context, profile entity.StudentProfile) error
	GetStudentProfile(ctx context.Context, userID int64) (*entity.StudentProfile, error)
	ListStudents(ctx context.Context, filter entity.StudentFilter) ([]entity.StudentProfile, error)
	UpdateStudentPhoto(ctx context.Context, userID int64, photoURL string) error

	CreateContactRequest(ctx context.Context, req entity.ContactRequest) error
	GetContactRequest(ctx context.Context, id int64) (*entity.ContactRequest, error)
	ListContactRequestsByStudent(ctx context.Context, studentID int64) ([]entity.ContactRequest, error)
	ListContactRequestsByEmployer(ctx context.Context, employerID int64) ([]entity.ContactRequest, error)
	UpdateContactStatus(ctx context.Context, id int64, status entity.ContactStatus) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	storage       storage.Storage
	validator     validator.Validator
	cfg           config.Config
	uid           uid.NumberID
	uuid          uid.StringID
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Storage       storage.Storage
	Validator     validator.Validator
	Config        config.Config
	UID           uid.NumberID
	UUID          uid.StringID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		storage:       dep.Storage,
		validator:     dep.Validator,
		cfg:           dep.Config,
		uid:           dep.UID,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("board.usecase").Start(ctx, name)
}

// authUser returns the authenticated user id, or an Unauthorized error when
// the request carries no claims.
func (s *Usecase) authUser(ctx context.Context) (int64, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return 0, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	return clm.UserID, nil
}

// requireRole loads the caller's role and rejects callers that do not match.
func (s *Usecase) requireRole(ctx context.Context, userID int64, role identityentity.UserRole) error {
	actual, err := s.repoDB.GetUserRole(ctx, userID)
	if err != nil {
		return goerror.NewServer(err)
	}

	if actual != role {
		return goerror.NewBusiness("only "+role.String()+" accounts can perform this action", goerror.CodeForbidden)
	}

	return nil
}
