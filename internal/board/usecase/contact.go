package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shiftbuddy/shiftbuddy/internal/board/entity"
	identityentity "github.com/shiftbuddy/shiftbuddy/internal/identity/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
)

type EmployerContactInput struct {
	Company string `validate:"required,min=2,max=120"`
	Phone   string `validate:"required,e164"`
	Email   string `validate:"required,email"`
}

type ContactCreateInput struct {
	StudentID int64                `validate:"required"`
	Message   string               `validate:"required,min=10,max=2000"`
	Contact   EmployerContactInput `validate:"required"`
}

type ContactCreateOutput struct {
	RequestID int64
}

// ContactCreate records an employer's request to reach a student. A student
// can only be asked once per employer, a second request answers
// "Request already sent".
func (s *Usecase) ContactCreate(ctx context.Context, in ContactCreateInput) (*ContactCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "ContactCreate")
	defer span.End()

	userID, err := s.authUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := s.requireRole(ctx, userID, identityentity.UserRoleEmployer); err != nil {
		return nil, err
	}

	profile, err := s.repoDB.GetStudentProfile(ctx, in.StudentID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("student not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get student profile", "student_id", in.StudentID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if profile.Status != entity.ProfileStatusPublished {
		return nil, goerror.NewBusiness("student not found", goerror.CodeNotFound)
	}

	req := entity.ContactRequest{
		ID:         s.uid.Generate(),
		StudentID:  in.StudentID,
		EmployerID: userID,
		Message:    strings.TrimSpace(in.Message),
		Contact: entity.EmployerContact{
			Company: strings.TrimSpace(in.Contact.Company),
			Phone:   strings.TrimSpace(in.Contact.Phone),
			Email:   strings.TrimSpace(strings.ToLower(in.Contact.Email)),
		},
		Status: entity.ContactStatusPending,
	}
	if err := s.repoDB.CreateContactRequest(ctx, req); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("Request already sent", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create contact request", "student_id", in.StudentID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishContactRequested(ctx, ContactRequestedEvent{
		RequestID:  req.ID,
		StudentID:  req.StudentID,
		EmployerID: req.EmployerID,
		Message:    req.Message,
	}); err != nil {
		slog.WarnContext(ctx, "failed to publish contact requested event", "request_id", req.ID, "error", err)
	}

	return &ContactCreateOutput{RequestID: req.ID}, nil
}

// ContactList returns incoming requests for students and outgoing ones for
// employers.
func (s *Usecase) ContactList(ctx context.Context) ([]entity.ContactRequest, error) {
	ctx, span := s.startSpan(ctx, "ContactList")
	defer span.End()

	userID, err := s.authUser(ctx)
	if err != nil {
		return nil, err
	}

	role, err := s.repoDB.GetUserRole(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user role", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	var reqs []entity.ContactRequest
	switch role {
	case identityentity.UserRoleStudent:
		reqs, err = s.repoDB.ListContactRequestsByStudent(ctx, userID)
	case identityentity.UserRoleEmployer:
		reqs, err = s.repoDB.ListContactRequestsByEmployer(ctx, userID)
	default:
		return nil, goerror.NewBusiness("account role is unrecognized", goerror.CodeForbidden)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list contact requests", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return reqs, nil
}

func (s *Usecase) ContactApprove(ctx context.Context, id int64) error {
	return s.decideContact(ctx, id, entity.ContactStatusApproved)
}

func (s *Usecase) ContactDecline(ctx context.Context, id int64) error {
	return s.decideContact(ctx, id, entity.ContactStatusDeclined)
}

func (s *Usecase) decideContact(ctx context.Context, id int64, decision entity.ContactStatus) error {
	ctx, span := s.startSpan(ctx, "decideContact")
	defer span.End()

	userID, err := s.authUser(ctx)
	if err != nil {
		return err
	}

	req, err := s.repoDB.GetContactRequest(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("contact request not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get contact request", "request_id", id, "error", err)
		return goerror.NewServer(err)
	}

	if req.StudentID != userID {
		return goerror.NewBusiness("only the requested student can decide this request", goerror.CodeForbidden)
	}

	if req.Status != entity.ContactStatusPending {
		return goerror.NewBusiness("contact request is already decided", goerror.CodeConflict)
	}

	if err := s.repoDB.UpdateContactStatus(ctx, id, decision); err != nil {
		slog.ErrorContext(ctx, "failed to repo update contact status", "request_id", id, "error", err)
		return goerror.NewServer(err)
	}

	if decision == entity.ContactStatusApproved {
		if err := s.repoMessaging.PublishContactApproved(ctx, ContactApprovedEvent{
			RequestID:  req.ID,
			StudentID:  req.StudentID,
			EmployerID: req.EmployerID,
			Contact:    req.Contact,
		}); err != nil {
			slog.WarnContext(ctx, "failed to publish contact approved event", "request_id", req.ID, "error", err)
		}
	}

	return nil
}
