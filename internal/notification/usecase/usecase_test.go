package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shiftbuddy/shiftbuddy/internal/notification/entity"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/config"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/goerror"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/instrument"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/mail"
	"github.com/shiftbuddy/shiftbuddy/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepoDB struct {
	templates map[string]*entity.Template
	settings  map[int64][]entity.UserSetting
	contacts  map[int64]*entity.UserContact

	alertRecipients   []entity.JobAlertRecipient
	alertRecipientErr error

	createWithLogErr error
	createLogErr     error

	notifications []entity.CreateNotification
	logs          []entity.CreateLog
	logUpdates    []entity.UpdateLog

	nextLogID int64
}

func newFakeRepoDB() *fakeRepoDB {
	return &fakeRepoDB{
		templates: map[string]*entity.Template{},
		settings:  map[int64][]entity.UserSetting{},
		contacts:  map[int64]*entity.UserContact{},
	}
}

func templateKey(tk entity.TriggerKey, ch entity.Channel) string {
	return tk.String() + ":" + ch.String()
}

func (f *fakeRepoDB) addTemplate(tk entity.TriggerKey, ch entity.Channel, categoryID int64, subject, body string) {
	f.templates[templateKey(tk, ch)] = &entity.Template{
		ID:         int64(len(f.templates) + 1),
		TriggerKey: tk,
		CategoryID: categoryID,
		Channel:    ch,
		Subject:    subject,
		Body:       body,
	}
}

func (f *fakeRepoDB) GetTemplateByTriggerChannel(_ context.Context, tk entity.TriggerKey, ch entity.Channel) (*entity.Template, error) {
	tpl, ok := f.templates[templateKey(tk, ch)]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return tpl, nil
}

func (f *fakeRepoDB) CreateNotification(_ context.Context, n entity.CreateNotification) error {
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeRepoDB) CreateNotificationWithLog(_ context.Context, n entity.CreateNotification, l entity.CreateLog) (int64, error) {
	if f.createWithLogErr != nil {
		return 0, f.createWithLogErr
	}
	f.notifications = append(f.notifications, n)
	f.logs = append(f.logs, l)
	f.nextLogID++
	return f.nextLogID, nil
}

func (f *fakeRepoDB) CreateLog(_ context.Context, l entity.CreateLog) (int64, error) {
	if f.createLogErr != nil {
		return 0, f.createLogErr
	}
	f.logs = append(f.logs, l)
	f.nextLogID++
	return f.nextLogID, nil
}

func (f *fakeRepoDB) UpdateLogStatus(_ context.Context, u entity.UpdateLog) error {
	f.logUpdates = append(f.logUpdates, u)
	return nil
}

func (f *fakeRepoDB) GetUserContact(_ context.Context, userID int64) (*entity.UserContact, error) {
	contact, ok := f.contacts[userID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return contact, nil
}

func (f *fakeRepoDB) ListJobAlertRecipients(_ context.Context, _, _ string) ([]entity.JobAlertRecipient, error) {
	return f.alertRecipients, f.alertRecipientErr
}

func (f *fakeRepoDB) ListCategories(_ context.Context) ([]entity.Category, error) {
	return nil, nil
}

func (f *fakeRepoDB) ListUserSettings(_ context.Context, userID int64) ([]entity.UserSetting, error) {
	return f.settings[userID], nil
}

func (f *fakeRepoDB) UpsertUserSettings(_ context.Context, userID int64, settings []entity.UserSetting) error {
	f.settings[userID] = settings
	return nil
}

func (f *fakeRepoDB) ListNotifications(_ context.Context, _ int64, _ entity.NotificationStatus, _, _ int32) ([]entity.NotificationItem, error) {
	return nil, nil
}

func (f *fakeRepoDB) CountUnreadNotifications(_ context.Context, _ int64) (int64, error) {
	return 0, nil
}

func (f *fakeRepoDB) MarkNotificationRead(_ context.Context, _, _ int64) (bool, error) {
	return false, nil
}

func (f *fakeRepoDB) MarkNotificationsReadAll(_ context.Context, _ int64) (int64, error) {
	return 0, nil
}

func (f *fakeRepoDB) SoftDeleteNotification(_ context.Context, _, _ int64) (bool, error) {
	return false, nil
}

type fakeMail struct {
	err  error
	sent []mail.Message
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeWhatsApp struct {
	err    error
	to     []string
	bodies []string
}

func (f *fakeWhatsApp) Send(_ context.Context, to, body string) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.bodies = append(f.bodies, body)
	return nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqNumberID struct{ next int64 }

func (s *seqNumberID) Generate() int64 {
	s.next++
	return s.next
}

type fixture struct {
	uc *Usecase
	db *fakeRepoDB
	ml *fakeMail
	wa *fakeWhatsApp
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  web: https://shiftbuddy.app\n"))
	require.NoError(t, err)

	v10, err := validator.NewV10Validator()
	require.NoError(t, err)

	f := &fixture{
		db: newFakeRepoDB(),
		ml: &fakeMail{},
		wa: &fakeWhatsApp{},
	}

	f.uc = NewNotification(Dependency{
		RepoDB:       f.db,
		Config:       cfg,
		UID:          &seqNumberID{next: 1000},
		Clock:        fixedClock{now: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)},
		Validator:    v10,
		RepoMail:     f.ml,
		RepoWhatsApp: f.wa,
		Instrument:   instrument.NewNoop(),
	})

	return f
}

func TestFormatWhatsAppBody(t *testing.T) {
	tests := []struct {
		name    string
		msgType entity.WhatsAppMessageType
		want    string
	}{
		{
			name:    "JobAlert",
			msgType: entity.WhatsAppTypeJobAlert,
			want:    "🚨 *New Job Alert!*\n\nhello\n\n💼 Apply now on ShiftBuddy!",
		},
		{
			name:    "ApplicationUpdate",
			msgType: entity.WhatsAppTypeApplicationUpdate,
			want:    "📋 *Application Update*\n\nhello\n\n✅ Check your dashboard for details.",
		},
		{
			name:    "InterviewReminder",
			msgType: entity.WhatsAppTypeInterviewReminder,
			want:    "⏰ *Interview Reminder*\n\nhello\n\n🤝 Good luck!",
		},
		{
			name:    "PaymentNotification",
			msgType: entity.WhatsAppTypePaymentNotification,
			want:    "💰 *Payment Notification*\n\nhello\n\n💳 Check your earnings dashboard.",
		},
		{
			name:    "WeeklyDigest",
			msgType: entity.WhatsAppTypeWeeklyDigest,
			want:    "📊 *Weekly Digest*\n\nhello\n\n📱 Open ShiftBuddy for more details.",
		},
		{
			name:    "UrgentAlert",
			msgType: entity.WhatsAppTypeUrgentAlert,
			want:    "🔴 *URGENT ALERT*\n\nhello\n\n⚡ Immediate action required!",
		},
		{
			name:    "UnknownFallsBack",
			msgType: entity.WhatsAppMessageType("other"),
			want:    "📢 *ShiftBuddy Notification*\n\nhello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatWhatsAppBody(tt.msgType, "hello"))
		})
	}
}

func TestFormatHourlyRate(t *testing.T) {
	assert.Equal(t, "₹450.00/hr", formatHourlyRate(45000))
	assert.Equal(t, "₹123.45/hr", formatHourlyRate(12345))
	assert.Equal(t, "₹0.05/hr", formatHourlyRate(5))
}

func TestConsumeUserRegistered(t *testing.T) {
	ctx := context.Background()

	t.Run("SendsWelcomeEmail", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.db.addTemplate(entity.TriggerKeyUserWelcome, entity.ChannelEmail, 1,
			"Welcome to ShiftBuddy", "<p>Hi {{.full_name}}, log in at {{.login_url}}</p>")

		// Act
		err := f.uc.ConsumeUserRegistered(ctx, ConsumeUserRegisteredInput{
			UserID:   7,
			Email:    "anna@example.com",
			FullName: "Anna Rao",
			Role:     "student",
		})

		// Assert
		require.NoError(t, err)
		require.Len(t, f.ml.sent, 1)
		assert.Equal(t, []string{"anna@example.com"}, f.ml.sent[0].To)
		assert.Equal(t, "Welcome to ShiftBuddy", f.ml.sent[0].Subject)
		assert.Contains(t, f.ml.sent[0].HTMLBody, "Hi Anna Rao")
		assert.Contains(t, f.ml.sent[0].HTMLBody, "https://shiftbuddy.app/login")

		require.Len(t, f.db.notifications, 1)
		assert.Equal(t, entity.TriggerKeyUserWelcome, f.db.notifications[0].TriggerKey)

		require.Len(t, f.db.logUpdates, 1)
		assert.Equal(t, entity.DeliveryStatusSent, f.db.logUpdates[0].Status)
	})

	t.Run("MalformedEventDropped", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.db.addTemplate(entity.TriggerKeyUserWelcome, entity.ChannelEmail, 1, "s", "b")

		// Act: a poison event must not requeue forever.
		err := f.uc.ConsumeUserRegistered(ctx, ConsumeUserRegisteredInput{
			UserID: 7,
			Email:  "not-an-email",
		})

		// Assert
		require.NoError(t, err)
		assert.Empty(t, f.ml.sent)
		assert.Empty(t, f.db.notifications)
	})

	t.Run("NoTemplateNoSend", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		err := f.uc.ConsumeUserRegistered(ctx, ConsumeUserRegisteredInput{
			UserID:   7,
			Email:    "anna@example.com",
			FullName: "Anna Rao",
			Role:     "student",
		})

		// Assert
		require.NoError(t, err)
		assert.Empty(t, f.ml.sent)
	})

	t.Run("DisabledChannelSkipped", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.db.addTemplate(entity.TriggerKeyUserWelcome, entity.ChannelEmail, 1, "s", "b")
		f.db.settings[7] = []entity.UserSetting{
			{CategoryID: 1, Channel: entity.ChannelEmail, IsEnabled: false},
		}

		// Act
		err := f.uc.ConsumeUserRegistered(ctx, ConsumeUserRegisteredInput{
			UserID:   7,
			Email:    "anna@example.com",
			FullName: "Anna Rao",
			Role:     "student",
		})

		// Assert
		require.NoError(t, err)
		assert.Empty(t, f.ml.sent)
		assert.Empty(t, f.db.notifications)
	})

	t.Run("MailFailureSettlesLogFailed", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.db.addTemplate(entity.TriggerKeyUserWelcome, entity.ChannelEmail, 1, "s", "b")
		f.ml.err = errors.New("smtp refused")

		// Act
		err := f.uc.ConsumeUserRegistered(ctx, ConsumeUserRegisteredInput{
			UserID:   7,
			Email:    "anna@example.com",
			FullName: "Anna Rao",
			Role:     "student",
		})

		// Assert
		require.NoError(t, err, "delivery failure is settled in the log, not requeued")
		require.Len(t, f.db.logUpdates, 1)
		assert.Equal(t, entity.DeliveryStatusFailed, f.db.logUpdates[0].Status)
		assert.Equal(t, "smtp refused", f.db.logUpdates[0].Error)
	})
}

func TestConsumeOTPIssued(t *testing.T) {
	ctx := context.Background()

	t.Run("RecordsAuditLog", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		err := f.uc.ConsumeOTPIssued(ctx, ConsumeOTPIssuedInput{
			Email:   "anna@example.com",
			Purpose: "signup",
		})

		// Assert
		require.NoError(t, err)
		require.Len(t, f.db.logs, 1)
		assert.Nil(t, f.db.logs[0].NotificationID, "audit rows have no in-app counterpart")
		assert.Equal(t, entity.ChannelEmail, f.db.logs[0].Channel)
		assert.Equal(t, entity.DeliveryStatusSent, f.db.logs[0].Status)
		assert.Empty(t, f.db.notifications)
	})

	t.Run("RepoFailureSurfacesForRetry", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.db.createLogErr = errors.New("db down")

		// Act
		err := f.uc.ConsumeOTPIssued(ctx, ConsumeOTPIssuedInput{
			Email:   "anna@example.com",
			Purpose: "signup",
		})

		// Assert
		assert.Error(t, err)
	})
}

func TestConsumeJobPosted(t *testing.T) {
	ctx := context.Background()

	input := ConsumeJobPostedInput{
		JobID:          31,
		EmployerID:     9,
		Title:          "Barista, weekend shift",
		Category:       "hospitality",
		City:           "Mysuru",
		HourlyRateCent: 25050,
	}

	t.Run("FansOutToMatchingStudents", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.db.addTemplate(entity.TriggerKeyJobAlert, entity.ChannelWhatsApp, 2, "", "")
		f.db.alertRecipients = []entity.JobAlertRecipient{
			{UserID: 21, WhatsAppNumber: "+919800000001"},
			{UserID: 22, WhatsAppNumber: "+919800000002"},
		}

		// Act
		err := f.uc.ConsumeJobPosted(ctx, input)

		// Assert
		require.NoError(t, err)
		require.Len(t, f.wa.to, 2)
		assert.Equal(t, []string{"+919800000001", "+919800000002"}, f.wa.to)
		assert.Contains(t, f.wa.bodies[0], "🚨 *New Job Alert!*")
		assert.Contains(t, f.wa.bodies[0], "*Barista, weekend shift*")
		assert.Contains(t, f.wa.bodies[0], "Location: Mysuru")
		assert.Contains(t, f.wa.bodies[0], "Rate: ₹250.50/hr")
		assert.Len(t, f.db.notifications, 2, "each recipient gets an in-app row")
	})

	t.Run("NoRecipientsNoSend", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.db.addTemplate(entity.TriggerKeyJobAlert, entity.ChannelWhatsApp, 2, "", "")

		// Act
		err := f.uc.ConsumeJobPosted(ctx, input)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, f.wa.to)
	})

	t.Run("RecipientLookupFailureSurfaces", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.db.alertRecipientErr = errors.New("db down")

		// Act
		err := f.uc.ConsumeJobPosted(ctx, input)

		// Assert
		assert.Error(t, err)
	})
}

func TestConsumeContactRequested(t *testing.T) {
	ctx := context.Background()

	input := ConsumeContactRequestedInput{
		RequestID:  41,
		StudentID:  21,
		EmployerID: 9,
		Message:    "We liked your profile",
	}

	t.Run("EmailAndWhatsAppShareOneNotification", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.db.addTemplate(entity.TriggerKeyContactRequested, entity.ChannelEmail, 3, "New contact request", "{{.message}}")
		f.db.addTemplate(entity.TriggerKeyContactRequested, entity.ChannelWhatsApp, 3, "", "")
		f.db.contacts[21] = &entity.UserContact{
			ID:             21,
			Email:          "anna@example.com",
			FullName:       "Anna Rao",
			WhatsAppNumber: "+919800000001",
		}

		// Act
		err := f.uc.ConsumeContactRequested(ctx, input)

		// Assert
		require.NoError(t, err)
		require.Len(t, f.ml.sent, 1)
		require.Len(t, f.wa.to, 1)
		assert.Contains(t, f.wa.bodies[0], "📋 *Application Update*")

		require.Len(t, f.db.notifications, 1, "the two channels share one in-app row")
		require.Len(t, f.db.logs, 2)
		require.NotNil(t, f.db.logs[1].NotificationID)
		assert.Equal(t, f.db.notifications[0].ID, *f.db.logs[1].NotificationID)
	})

	t.Run("NoWhatsAppNumberEmailOnly", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.db.addTemplate(entity.TriggerKeyContactRequested, entity.ChannelEmail, 3, "New contact request", "{{.message}}")
		f.db.addTemplate(entity.TriggerKeyContactRequested, entity.ChannelWhatsApp, 3, "", "")
		f.db.contacts[21] = &entity.UserContact{
			ID:       21,
			Email:    "anna@example.com",
			FullName: "Anna Rao",
		}

		// Act
		err := f.uc.ConsumeContactRequested(ctx, input)

		// Assert
		require.NoError(t, err)
		assert.Len(t, f.ml.sent, 1)
		assert.Empty(t, f.wa.to)
	})

	t.Run("UnknownStudentDropped", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		err := f.uc.ConsumeContactRequested(ctx, input)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, f.ml.sent)
	})
}
