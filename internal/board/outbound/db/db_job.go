package db

import (
	"context"

	"github.com/shiftbuddy/shiftbuddy/internal/board/entity"
)

const queryCreateJob = `
INSERT INTO board_jobs (id, employer_id, title, description, category, city, hourly_rate_cent, starts_at, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (s *DB) CreateJob(ctx context.Context, job entity.Job) (err error) {
	ctx, span := s.startSpan(ctx, "CreateJob")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateJob,
		job.ID,
		job.EmployerID,
		job.Title,
		job.Description,
		job.Category.String(),
		job.City,
		job.HourlyRateCent,
		job.StartsAt,
		job.Status.String(),
	)
	if err != nil {
		err = s.mapError(err)
		return err
	}

	return nil
}

const queryGetJob = `
SELECT id, employer_id, title, description, category, city, hourly_rate_cent, starts_at, status, created_at, updated_at
FROM board_jobs
WHERE id = $1`

func (s *DB) GetJob(ctx context.Context, id int64) (_ *entity.Job, err error) {
	ctx, span := s.startSpan(ctx, "GetJob")
	defer func() { s.endSpan(span, err) }()

	var (
		rec         entity.Job
		categoryRaw string
		statusRaw   string
	)
	err = s.conn.QueryRow(ctx, queryGetJob, id).Scan(
		&rec.ID,
		&rec.EmployerID,
		&rec.Title,
		&rec.Description,
		&categoryRaw,
		&rec.City,
		&rec.HourlyRateCent,
		&rec.StartsAt,
		&statusRaw,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	rec.Category = entity.JobCategoryFromString(categoryRaw)
	rec.Status = entity.JobStatusFromString(statusRaw)
	return &rec, nil
}

// Listing is public and only ever shows active jobs, newest first. The
// optional filters are folded into the query via OR guards so one statement
// covers every combination.
const queryListJobs = `
SELECT id, employer_id, title, description, category, city, hourly_rate_cent, starts_at, status, created_at, updated_at
FROM board_jobs
WHERE status = 'active'
  AND ($1 = '' OR category = $1)
  AND ($2 = '' OR city ILIKE $2)
  AND ($3 = '' OR title ILIKE '%' || $3 || '%' OR description ILIKE '%' || $3 || '%')
ORDER BY created_at DESC
LIMIT 100`

func (s *DB) ListJobs(ctx context.Context, filter entity.JobFilter) (_ []entity.Job, err error) {
	ctx, span := s.startSpan(ctx, "ListJobs")
	defer func() { s.endSpan(span, err) }()

	category := ""
	if !filter.Category.IsUnknown() {
		category = filter.Category.String()
	}

	rows, err := s.conn.Query(ctx, queryListJobs, category, filter.City, filter.Query)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	defer rows.Close()

	var jobs []entity.Job
	for rows.Next() {
		var (
			rec         entity.Job
			categoryRaw string
			statusRaw   string
		)
		if err = rows.Scan(
			&rec.ID,
			&rec.EmployerID,
			&rec.Title,
			&rec.Description,
			&categoryRaw,
			&rec.City,
			&rec.HourlyRateCent,
			&rec.StartsAt,
			&statusRaw,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		); err != nil {
			return nil, err
		}

		rec.Category = entity.JobCategoryFromString(categoryRaw)
		rec.Status = entity.JobStatusFromString(statusRaw)
		jobs = append(jobs, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

const queryUpdateJobStatus = `
UPDATE board_jobs
SET status = $2, updated_at = NOW()
WHERE id = $1`

func (s *DB) UpdateJobStatus(ctx context.Context, id int64, status entity.JobStatus) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateJobStatus")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryUpdateJobStatus, id, status.String())
	if err != nil {
		err = s.mapError(err)
		return err
	}

	return nil
}
