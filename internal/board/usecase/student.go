package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/shiftbuddy/shiftbuddy/internal/board/entity"
	identityentity "github.com/shiftbuddy/shiftbuddy/internal/identity/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/storage"
)

//nolint:gochecknoglobals // global for fast reuse
var photoContentTypeExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var errPhotoTooLarge = errors.New("profile photo exceeds max size")

type StudentUpsertInput struct {
	Headline       string   `validate:"required,min=3,max=120"`
	Bio            string   `validate:"max=2000"`
	City           string   `validate:"required,max=100"`
	Skills         []string `validate:"required,min=1,max=20,dive,min=2,max=40"`
	HourlyRateCent int64    `validate:"required,gt=0"`
	WhatsAppNumber string   `validate:"omitempty,e164"`
	AlertsOptIn    bool
	Published      bool
}

func (s *Usecase) StudentUpsert(ctx context.Context, in StudentUpsertInput) error {
	ctx, span := s.startSpan(ctx, "StudentUpsert")
	defer span.End()

	userID, err := s.authUser(ctx)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if in.AlertsOptIn && in.WhatsAppNumber == "" {
		return goerror.NewInvalidInput(nil, "whatsapp_number", "whatsapp number is required to receive job alerts")
	}

	if err := s.requireRole(ctx, userID, identityentity.UserRoleStudent); err != nil {
		return err
	}

	status := entity.ProfileStatusDraft
	if in.Published {
		status = entity.ProfileStatusPublished
	}

	profile := entity.StudentProfile{
		UserID:         userID,
		Headline:       strings.TrimSpace(in.Headline),
		Bio:            strings.TrimSpace(in.Bio),
		City:           strings.TrimSpace(in.City),
		Skills:         lo.Map(in.Skills, func(skill string, _ int) string { return strings.ToLower(strings.TrimSpace(skill)) }),
		HourlyRateCent: in.HourlyRateCent,
		WhatsAppNumber: strings.TrimSpace(in.WhatsAppNumber),
		AlertsOptIn:    in.AlertsOptIn,
		Status:         status,
	}
	if err := s.repoDB.UpsertStudentProfile(ctx, profile); err != nil {
		slog.ErrorContext(ctx, "failed to repo upsert student profile", "user_id", userID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

type StudentListInput struct {
	Skill string
	City  string
}

func (s *Usecase) StudentList(ctx context.Context, in StudentListInput) ([]entity.StudentProfile, error) {
	ctx, span := s.startSpan(ctx, "StudentList")
	defer span.End()

	filter := entity.StudentFilter{
		Skill: strings.ToLower(strings.TrimSpace(in.Skill)),
		City:  strings.TrimSpace(in.City),
	}

	profiles, err := s.repoDB.ListStudents(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list students", "error", err)
		return nil, goerror.NewServer(err)
	}

	return profiles, nil
}

type StudentPhotoInput struct {
	File        io.Reader
	ContentType string
}

type StudentPhotoOutput struct {
	PhotoURL string
}

func (s *Usecase) StudentPhoto(ctx context.Context, in StudentPhotoInput) (*StudentPhotoOutput, error) {
	ctx, span := s.startSpan(ctx, "StudentPhoto")
	defer span.End()

	userID, err := s.authUser(ctx)
	if err != nil {
		return nil, err
	}

	if in.File == nil {
		return nil, goerror.NewInvalidInput(nil, "photo", "photo file is required")
	}

	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))
	ext, ok := photoContentTypeExt[contentType]
	if !ok {
		return nil, goerror.NewInvalidInput(nil, "photo", "unsupported photo content type")
	}

	// Uploading without a saved profile would orphan the object.
	if _, err := s.repoDB.GetStudentProfile(ctx, userID); errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("save your profile before uploading a photo", goerror.CodeNotFound)
	} else if err != nil {
		slog.ErrorContext(ctx, "failed to repo get student profile", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	bucket := strings.TrimSpace(s.cfg.GetString("modules.board.photo_bucket"))
	baseURL := strings.TrimSpace(s.cfg.GetString("modules.board.photo_base_url"))
	key := fmt.Sprintf("%d/%s%s", userID, s.uuid.Generate(), ext)
	maxSize := s.cfg.GetInt64("modules.board.photo_max_size_bytes")

	reader := &maxBytesReader{r: in.File, max: maxSize}
	_, err = s.storage.PutObject(ctx, bucket, key, reader, storage.PutOptions{
		Size:        -1,
		ContentType: contentType,
		Metadata:    map[string]string{"user_id": strconv.FormatInt(userID, 10)},
	})
	if err != nil {
		if errors.Is(err, errPhotoTooLarge) {
			return nil, goerror.NewInvalidInput(errPhotoTooLarge)
		}
		slog.ErrorContext(ctx, "failed to upload student photo", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	photoURL := baseURL + "/" + key
	if err := s.repoDB.UpdateStudentPhoto(ctx, userID, photoURL); err != nil {
		slog.ErrorContext(ctx, "failed to repo update student photo", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &StudentPhotoOutput{PhotoURL: photoURL}, nil
}

type maxBytesReader struct {
	r     io.Reader
	max   int64
	read  int64
	buf   [1]byte
	ended bool
}

func (m *maxBytesReader) Read(p []byte) (int, error) {
	if m.read >= m.max {
		if m.ended {
			return 0, errPhotoTooLarge
		}

		n, err := m.r.Read(m.buf[:])
		if n > 0 {
			m.ended = true
			return 0, errPhotoTooLarge
		}
		if err == nil {
			m.ended = true
			return 0, errPhotoTooLarge
		}
		return 0, err
	}

	remaining := m.max - m.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := m.r.Read(p)
	m.read += int64(n)
	return n, err
}
