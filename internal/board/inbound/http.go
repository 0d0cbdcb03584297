package inbound

import (
	"context"

	"github.com/shiftbuddy/shiftbuddy/internal/board/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/board/usecase"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/router"
)

type uc interface {
	JobCreate(ctx context.Context, in usecase.JobCreateInput) (*usecase.JobCreateOutput, error)
	JobList(ctx context.Context, in usecase.JobListInput) ([]entity.Job, error)
	JobDetail(ctx context.Context, id int64) (*entity.Job, error)
	JobClose(ctx context.Context, id int64) error

	StudentUpsert(ctx context.Context, in usecase.StudentUpsertInput) error
	StudentList(ctx context.Context, in usecase.StudentListInput) ([]entity.StudentProfile, error)
	StudentPhoto(ctx context.Context, in usecase.StudentPhotoInput) (*usecase.StudentPhotoOutput, error)

	ContactCreate(ctx context.Context, in usecase.ContactCreateInput) (*usecase.ContactCreateOutput, error)
	ContactList(ctx context.Context) ([]entity.ContactRequest, error)
	ContactApprove(ctx context.Context, id int64) error
	ContactDecline(ctx context.Context, id int64) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/board/jobs", end.JobCreate)
	r.GET("/api/v1/board/jobs", end.JobList)
	r.GET("/api/v1/board/jobs/:id", end.JobDetail)
	r.DELETE("/api/v1/board/jobs/:id", end.JobClose)

	r.PUT("/api/v1/board/students/me", end.StudentUpsert)
	r.GET("/api/v1/board/students", end.StudentList)
	r.POST("/api/v1/board/students/me/photo", end.StudentPhoto)

	r.POST("/api/v1/board/contact-requests", end.ContactCreate)
	r.GET("/api/v1/board/contact-requests", end.ContactList)
	r.POST("/api/v1/board/contact-requests/:id/approve", end.ContactApprove)
	r.POST("/api/v1/board/contact-requests/:id/decline", end.ContactDecline)
}
