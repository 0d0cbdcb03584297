package db

import (
	"context"

	"github.com/shiftbuddy/shiftbuddy/internal/board/entity"
)

const queryCreateContactRequest = `
INSERT INTO board_contact_requests
	(id, student_id, employer_id, message, company, phone, email, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func (s *DB) CreateContactRequest(ctx context.Context, req entity.ContactRequest) (err error) {
	ctx, span := s.startSpan(ctx, "CreateContactRequest")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateContactRequest,
		req.ID,
		req.StudentID,
		req.EmployerID,
		req.Message,
		req.Contact.Company,
		req.Contact.Phone,
		req.Contact.Email,
		req.Status.String(),
	)
	if err != nil {
		err = s.mapError(err)
		return err
	}

	return nil
}

const queryGetContactRequest = `
SELECT id, student_id, employer_id, message, company, phone, email, status, created_at, updated_at
FROM board_contact_requests
WHERE id = $1`

func (s *DB) GetContactRequest(ctx context.Context, id int64) (_ *entity.ContactRequest, err error) {
	ctx, span := s.startSpan(ctx, "GetContactRequest")
	defer func() { s.endSpan(span, err) }()

	var (
		rec       entity.ContactRequest
		statusRaw string
	)
	err = s.conn.QueryRow(ctx, queryGetContactRequest, id).Scan(
		&rec.ID,
		&rec.StudentID,
		&rec.EmployerID,
		&rec.Message,
		&rec.Contact.Company,
		&rec.Contact.Phone,
		&rec.Contact.Email,
		&statusRaw,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	rec.Status = entity.ContactStatusFromString(statusRaw)
	return &rec, nil
}

func (s *DB) ListContactRequestsByStudent(ctx context.Context, studentID int64) ([]entity.ContactRequest, error) {
	return s.listContactRequests(ctx, "ListContactRequestsByStudent", "student_id", studentID)
}

func (s *DB) ListContactRequestsByEmployer(ctx context.Context, employerID int64) ([]entity.ContactRequest, error) {
	return s.listContactRequests(ctx, "ListContactRequestsByEmployer", "employer_id", employerID)
}

func (s *DB) listContactRequests(ctx context.Context, spanName, column string, ownerID int64) (_ []entity.ContactRequest, err error) {
	ctx, span := s.startSpan(ctx, spanName)
	defer func() { s.endSpan(span, err) }()

	query := `
SELECT id, student_id, employer_id, message, company, phone, email, status, created_at, updated_at
FROM board_contact_requests
WHERE ` + column + ` = $1
ORDER BY created_at DESC`

	rows, err := s.conn.Query(ctx, query, ownerID)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}
	defer rows.Close()

	var reqs []entity.ContactRequest
	for rows.Next() {
		var (
			rec       entity.ContactRequest
			statusRaw string
		)
		if err = rows.Scan(
			&rec.ID,
			&rec.StudentID,
			&rec.EmployerID,
			&rec.Message,
			&rec.Contact.Company,
			&rec.Contact.Phone,
			&rec.Contact.Email,
			&statusRaw,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		); err != nil {
			return nil, err
		}

		rec.Status = entity.ContactStatusFromString(statusRaw)
		reqs = append(reqs, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return reqs, nil
}

const queryUpdateContactStatus = `
UPDATE board_contact_requests
SET status = $2, updated_at = NOW()
WHERE id = $1`

func (s *DB) UpdateContactStatus(ctx context.Context, id int64, status entity.ContactStatus) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateContactStatus")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryUpdateContactStatus, id, status.String())
	if err != nil {
		err = s.mapError(err)
		return err
	}

	return nil
}
