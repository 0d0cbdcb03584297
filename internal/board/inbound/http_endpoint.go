package inbound

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/samber/lo"
	"github.com/shiftbuddy/shiftbuddy/internal/board/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/board/usecase"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the job board.
type HTTPEndpoint struct {
	uc uc
}

// JobCreate posts a new job.
// @Summary Post a job
// @Description Creates an active job posting owned by the authenticated employer.
// @Tags Board
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body JobCreateRequest true "Job payload"
// @Success 200 {object} router.successResponse{data=JobCreateResponse} "Job posted"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 403 {object} router.errorResponse "Employer role required"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/board/jobs [post]
func (h *HTTPEndpoint) JobCreate(r *router.Request) (any, error) {
	var req JobCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.JobCreate(r.Context(), usecase.JobCreateInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		City:           req.City,
		HourlyRateCent: req.HourlyRateCent,
		StartsAt:       req.StartsAt,
	})
	if err != nil {
		return nil, err
	}

	return JobCreateResponse{JobID: resp.JobID}, nil
}

// JobList lists active jobs.
// @Summary List jobs
// @Description Lists active jobs newest first, optionally filtered by category, city and a free text query.
// @Tags Board
// @Produce json
// @Param category query string false "Job category"
// @Param city query string false "City"
// @Param q query string false "Free text query"
// @Success 200 {object} router.successResponse{data=[]JobResponse} "Jobs"
// @Router /api/v1/board/jobs [get]
func (h *HTTPEndpoint) JobList(r *router.Request) (any, error) {
	jobs, err := h.uc.JobList(r.Context(), usecase.JobListInput{
		Category: r.GetQuery("category"),
		City:     r.GetQuery("city"),
		Query:    r.GetQuery("q"),
	})
	if err != nil {
		return nil, err
	}

	return lo.Map(jobs, func(job entity.Job, _ int) JobResponse {
		return toJobResponse(job)
	}), nil
}

// JobDetail returns one job.
// @Summary Get a job
// @Tags Board
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} router.successResponse{data=JobResponse} "Job"
// @Failure 404 {object} router.errorResponse "Job not found"
// @Router /api/v1/board/jobs/{id} [get]
func (h *HTTPEndpoint) JobDetail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	job, err := h.uc.JobDetail(r.Context(), id)
	if err != nil {
		return nil, err
	}

	return toJobResponse(*job), nil
}

// JobClose closes a job owned by the caller.
// @Summary Close a job
// @Tags Board
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} router.successResponse "Job closed"
// @Failure 403 {object} router.errorResponse "Not the posting employer"
// @Failure 404 {object} router.errorResponse "Job not found"
// @Router /api/v1/board/jobs/{id} [delete]
func (h *HTTPEndpoint) JobClose(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.JobClose(r.Context(), id); err != nil {
		return nil, err
	}

	return JobCloseResponse{}, nil
}

// StudentUpsert creates or replaces the caller's student profile.
// @Summary Save student profile
// @Tags Board
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StudentUpsertRequest true "Profile payload"
// @Success 200 {object} router.successResponse "Profile saved"
// @Failure 403 {object} router.errorResponse "Student role required"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/board/students/me [put]
func (h *HTTPEndpoint) StudentUpsert(r *router.Request) (any, error) {
	var req StudentUpsertRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.StudentUpsert(r.Context(), usecase.StudentUpsertInput{
		Headline:       req.Headline,
		Bio:            req.Bio,
		City:           req.City,
		Skills:         req.Skills,
		HourlyRateCent: req.HourlyRateCent,
		WhatsAppNumber: req.WhatsAppNumber,
		AlertsOptIn:    req.AlertsOptIn,
		Published:      req.Published,
	}); err != nil {
		return nil, err
	}

	return StudentUpsertResponse{}, nil
}

// StudentList lists published student profiles.
// @Summary List students
// @Description Public directory of published student profiles, optionally filtered by skill and city.
// @Tags Board
// @Produce json
// @Param skill query string false "Skill"
// @Param city query string false "City"
// @Success 200 {object} router.successResponse{data=[]StudentResponse} "Students"
// @Router /api/v1/board/students [get]
func (h *HTTPEndpoint) StudentList(r *router.Request) (any, error) {
	profiles, err := h.uc.StudentList(r.Context(), usecase.StudentListInput{
		Skill: r.GetQuery("skill"),
		City:  r.GetQuery("city"),
	})
	if err != nil {
		return nil, err
	}

	return lo.Map(profiles, func(profile entity.StudentProfile, _ int) StudentResponse {
		return StudentResponse{
			UserID:         profile.UserID,
			Headline:       profile.Headline,
			Bio:            profile.Bio,
			City:           profile.City,
			Skills:         profile.Skills,
			HourlyRateCent: profile.HourlyRateCent,
			PhotoURL:       profile.PhotoURL,
		}
	}), nil
}

// StudentPhoto uploads the caller's profile photo.
// @Summary Upload profile photo
// @Tags Board
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param photo formData file true "Profile photo"
// @Success 200 {object} router.successResponse{data=StudentPhotoResponse} "Photo uploaded"
// @Failure 400 {object} router.errorResponse "Invalid upload"
// @Router /api/v1/board/students/me/photo [post]
func (h *HTTPEndpoint) StudentPhoto(r *router.Request) (any, error) {
	ctx := r.Context()

	file, err := r.StreamSingleFile("photo")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close file", "error", err)
		}
	}()

	// Sniff the real content type instead of trusting the form part.
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, goerror.NewInvalidFormat()
	}

	resp, err := h.uc.StudentPhoto(ctx, usecase.StudentPhotoInput{
		File:        io.MultiReader(bytes.NewReader(head[:n]), file),
		ContentType: http.DetectContentType(head[:n]),
	})
	if err != nil {
		return nil, err
	}

	return StudentPhotoResponse{PhotoURL: resp.PhotoURL}, nil
}

// ContactCreate sends a contact request to a student.
// @Summary Send a contact request
// @Description One request per employer and student; duplicates answer with a conflict.
// @Tags Board
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ContactCreateRequest true "Contact request payload"
// @Success 200 {object} router.successResponse{data=ContactCreateResponse} "Request sent"
// @Failure 403 {object} router.errorResponse "Employer role required"
// @Failure 404 {object} router.errorResponse "Student not found"
// @Failure 409 {object} router.errorResponse "Request already sent"
// @Router /api/v1/board/contact-requests [post]
func (h *HTTPEndpoint) ContactCreate(r *router.Request) (any, error) {
	var req ContactCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.ContactCreate(r.Context(), usecase.ContactCreateInput{
		StudentID: req.StudentID,
		Message:   req.Message,
		Contact: usecase.EmployerContactInput{
			Company: req.Contact.Company,
			Phone:   req.Contact.Phone,
			Email:   req.Contact.Email,
		},
	})
	if err != nil {
		return nil, err
	}

	return ContactCreateResponse{RequestID: resp.RequestID}, nil
}

// ContactList lists the caller's contact requests.
// @Summary List contact requests
// @Description Students see incoming requests, employers see the ones they sent.
// @Tags Board
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=[]ContactResponse} "Contact requests"
// @Router /api/v1/board/contact-requests [get]
func (h *HTTPEndpoint) ContactList(r *router.Request) (any, error) {
	reqs, err := h.uc.ContactList(r.Context())
	if err != nil {
		return nil, err
	}

	return lo.Map(reqs, func(req entity.ContactRequest, _ int) ContactResponse {
		return ContactResponse{
			ID:         req.ID,
			StudentID:  req.StudentID,
			EmployerID: req.EmployerID,
			Message:    req.Message,
			Contact: EmployerContactRequest{
				Company: req.Contact.Company,
				Phone:   req.Contact.Phone,
				Email:   req.Contact.Email,
			},
			Status:    req.Status.String(),
			CreatedAt: req.CreatedAt,
		}
	}), nil
}

// ContactApprove approves an incoming contact request.
// @Summary Approve a contact request
// @Tags Board
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact request ID"
// @Success 200 {object} router.successResponse "Request updated"
// @Failure 403 {object} router.errorResponse "Not the requested student"
// @Failure 409 {object} router.errorResponse "Already decided"
// @Router /api/v1/board/contact-requests/{id}/approve [post]
func (h *HTTPEndpoint) ContactApprove(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.ContactApprove(r.Context(), id); err != nil {
		return nil, err
	}

	return ContactDecisionResponse{}, nil
}

// ContactDecline declines an incoming contact request.
// @Summary Decline a contact request
// @Tags Board
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact request ID"
// @Success 200 {object} router.successResponse "Request updated"
// @Failure 403 {object} router.errorResponse "Not the requested student"
// @Failure 409 {object} router.errorResponse "Already decided"
// @Router /api/v1/board/contact-requests/{id}/decline [post]
func (h *HTTPEndpoint) ContactDecline(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.ContactDecline(r.Context(), id); err != nil {
		return nil, err
	}

	return ContactDecisionResponse{}, nil
}

func toJobResponse(job entity.Job) JobResponse {
	return JobResponse{
		ID:             job.ID,
		EmployerID:     job.EmployerID,
		Title:          job.Title,
		Description:    job.Description,
		Category:       job.Category.String(),
		City:           job.City,
		HourlyRateCent: job.HourlyRateCent,
		StartsAt:       job.StartsAt,
		Status:         job.Status.String(),
		CreatedAt:      job.CreatedAt,
	}
}
