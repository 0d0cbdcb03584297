package usecase

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"
	"sync"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/clock"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/config"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/jwt"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/mail"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/uid"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetTemplateByTriggerChannel(ctx context.Context, tk entity.TriggerKey, ch entity.Channel) (*entity.Template, error)
	CreateNotification(ctx context.Context, data entity.CreateNotification) error
	CreateNotificationWithLog(ctx context.Context, n entity.CreateNotification, l entity.CreateLog) (int64, error)
	CreateLog(ctx context.Context, l entity.CreateLog) (int64, error)
	UpdateLogStatus(ctx context.Context, u entity.UpdateLog) error

	GetUserContact(ctx context.Context, userID int64) (*entity.UserContact, error)
	ListJobAlertRecipients(ctx context.Context, category, city string) ([]entity.JobAlertRecipient, error)

	ListCategories(ctx context.Context) ([]entity.Category, error)
	ListUserSettings(ctx context.Context, userID int64) ([]entity.UserSetting, error)
	UpsertUserSettings(ctx context.Context, userID int64, settings []entity.UserSetting) error
	ListNotifications(ctx context.Context, userID int64, status entity.NotificationStatus, limit, offset int32) ([]entity.NotificationItem, error)
	CountUnreadNotifications(ctx context.Context, userID int64) (int64, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID int64) (bool, error)
	MarkNotificationsReadAll(ctx context.Context, userID int64) (int64, error)
	SoftDeleteNotification(ctx context.Context, userID, notificationID int64) (bool, error)
}

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type repoWhatsApp interface {
	Send(ctx context.Context, to, body string) error
}

type Usecase struct {
	repoDB       repoDB
	cfg          config.Config
	uid          uid.NumberID
	clock        clock.Clocker
	validator    validator.Validator
	jwt          jwt.JWT
	repoMail     repoMail
	repoWhatsApp repoWhatsApp
	ins          instrument.Instrumentation
	streamMu     sync.RWMutex
	streams      map[int64]map[*subscriber]struct{}
}

type Dependency struct {
	RepoDB       repoDB
	Config       config.Config
	UID          uid.NumberID
	Clock        clock.Clocker
	Validator    validator.Validator
	JWT          jwt.JWT
	RepoMail     repoMail
	RepoWhatsApp repoWhatsApp
	Instrument   instrument.Instrumentation
}

func NewNotification(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:       dep.RepoDB,
		cfg:          dep.Config,
		uid:          dep.UID,
		clock:        dep.Clock,
		validator:    dep.Validator,
		jwt:          dep.JWT,
		repoMail:     dep.RepoMail,
		repoWhatsApp: dep.RepoWhatsApp,
		ins:          dep.Instrument,
		streams:      make(map[int64]map[*subscriber]struct{}),
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

func (s *Usecase) renderTemplate(name, tpl string, data map[string]any) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *Usecase) baseEmailTemplateData() map[string]any {
	return map[string]any{
		"support_email":   "support@shiftbuddy.app",
		"company_name":    "ShiftBuddy",
		"company_address": "Hiriyur, Karnataka 577598",
		"year":            s.clock.Now().Format("2006"),
	}
}

func (s *Usecase) getTemplate(ctx context.Context, tk entity.TriggerKey, ch entity.Channel) *entity.Template {
	tpl, err := s.repoDB.GetTemplateByTriggerChannel(ctx, tk, ch)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "notification template not found", "trigger_key", tk, "channel", ch.String())
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get template by trigger channel", "trigger_key", tk, "channel", ch.String(), "error", err)
		return nil
	}

	return tpl
}

// channelEnabled reports whether a user left the category+channel pair
// enabled. Absent settings default to enabled.
func (s *Usecase) channelEnabled(ctx context.Context, userID, categoryID int64, ch entity.Channel) bool {
	settings, err := s.repoDB.ListUserSettings(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list notification settings", "user_id", userID, "error", err)
		return true
	}

	for _, setting := range settings {
		if setting.CategoryID == categoryID && setting.Channel == ch {
			return setting.IsEnabled
		}
	}

	return true
}

func (s *Usecase) getUserContact(ctx context.Context, userID int64) *entity.UserContact {
	contact, err := s.repoDB.GetUserContact(ctx, userID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "notification recipient not found", "user_id", userID)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user contact", "user_id", userID, "error", err)
		return nil
	}

	return contact
}
