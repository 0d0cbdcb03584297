package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shiftbuddy/shiftbuddy/internal/board/entity"
	identityentity "github.com/shiftbuddy/shiftbuddy/internal/identity/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
)

type JobCreateInput struct {
	Title          string    `validate:"required,min=3,max=120"`
	Description    string    `validate:"required,min=10,max=5000"`
	Category       string    `validate:"required"`
	City           string    `validate:"required,max=100"`
	HourlyRateCent int64     `validate:"required,gt=0"`
	StartsAt       time.Time `validate:"required"`
}

type JobCreateOutput struct {
	JobID int64
}

func (s *Usecase) JobCreate(ctx context.Context, in JobCreateInput) (*JobCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "JobCreate")
	defer span.End()

	userID, err := s.authUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	category := entity.JobCategoryFromString(strings.ToLower(strings.TrimSpace(in.Category)))
	if category.IsUnknown() {
		return nil, goerror.NewInvalidInput(nil, "category", "category is not recognized")
	}

	if err := s.requireRole(ctx, userID, identityentity.UserRoleEmployer); err != nil {
		return nil, err
	}

	job := entity.Job{
		ID:             s.uid.Generate(),
		EmployerID:     userID,
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		Category:       category,
		City:           strings.TrimSpace(in.City),
		HourlyRateCent: in.HourlyRateCent,
		StartsAt:       in.StartsAt,
		Status:         entity.JobStatusActive,
	}
	if err := s.repoDB.CreateJob(ctx, job); err != nil {
		slog.ErrorContext(ctx, "failed to repo create job", "employer_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	// Alert fan-out is best effort, the posting itself already succeeded.
	if err := s.repoMessaging.PublishJobPosted(ctx, JobPostedEvent{
		JobID:          job.ID,
		EmployerID:     job.EmployerID,
		Title:          job.Title,
		Category:       job.Category,
		City:           job.City,
		HourlyRateCent: job.HourlyRateCent,
	}); err != nil {
		slog.WarnContext(ctx, "failed to publish job posted event", "job_id", job.ID, "error", err)
	}

	return &JobCreateOutput{JobID: job.ID}, nil
}

type JobListInput struct {
	Category string
	City     string
	Query    string
}

func (s *Usecase) JobList(ctx context.Context, in JobListInput) ([]entity.Job, error) {
	ctx, span := s.startSpan(ctx, "JobList")
	defer span.End()

	filter := entity.JobFilter{
		Category: entity.JobCategoryFromString(strings.ToLower(strings.TrimSpace(in.Category))),
		City:     strings.TrimSpace(in.City),
		Query:    strings.TrimSpace(in.Query),
	}

	jobs, err := s.repoDB.ListJobs(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list jobs", "error", err)
		return nil, goerror.NewServer(err)
	}

	return jobs, nil
}

func (s *Usecase) JobDetail(ctx context.Context, id int64) (*entity.Job, error) {
	ctx, span := s.startSpan(ctx, "JobDetail")
	defer span.End()

	job, err := s.repoDB.GetJob(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("job not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get job", "job_id", id, "error", err)
		return nil, goerror.NewServer(err)
	}

	return job, nil
}

// JobClose marks an active job as closed. Only the posting employer can do it.
func (s *Usecase) JobClose(ctx context.Context, id int64) error {
	ctx, span := s.startSpan(ctx, "JobClose")
	defer span.End()

	userID, err := s.authUser(ctx)
	if err != nil {
		return err
	}

	job, err := s.repoDB.GetJob(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("job not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get job", "job_id", id, "error", err)
		return goerror.NewServer(err)
	}

	if job.EmployerID != userID {
		return goerror.NewBusiness("only the posting employer can close this job", goerror.CodeForbidden)
	}

	if job.Status == entity.JobStatusClosed {
		return nil
	}

	if err := s.repoDB.UpdateJobStatus(ctx, id, entity.JobStatusClosed); err != nil {
		slog.ErrorContext(ctx, "failed to repo update job status", "job_id", id, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
