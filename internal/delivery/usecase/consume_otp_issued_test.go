package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/antonvb/authgate/internal/delivery/entity"
	"github.com/antonvb/authgate/internal/pkg/config"
	"github.com/antonvb/authgate/internal/pkg/instrument"
	"github.com/antonvb/authgate/internal/pkg/mail"
	"github.com/antonvb/authgate/internal/pkg/validator"
)

const testConfigYAML = `
modules:
  delivery:
    display_enabled: true
    support_email: support@example.com
    company_name: Example Inc
`

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type seqNumberID struct {
	n int64
}

func (s *seqNumberID) Generate() int64 {
	s.n++
	return s.n
}

type fakeDeliveryDB struct {
	created []entity.DeliveryRecord
	updated []entity.UpdateDeliveryRecord
}

func (d *fakeDeliveryDB) CreateDeliveryRecord(_ context.Context, in entity.DeliveryRecord) error {
	d.created = append(d.created, in)
	return nil
}

func (d *fakeDeliveryDB) UpdateDeliveryRecordStatus(_ context.Context, in entity.UpdateDeliveryRecord) error {
	d.updated = append(d.updated, in)
	return nil
}

func (d *fakeDeliveryDB) ListDeliveryRecords(context.Context, entity.DeliveryListFilter) ([]entity.DeliveryRecord, int64, error) {
	return nil, 0, nil
}

type fakeMailer struct {
	sent    []mail.Message
	sendErr error
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

type deliveryEnv struct {
	uc     *Usecase
	db     *fakeDeliveryDB
	mailer *fakeMailer
	clock  *fakeClock
}

func newDeliveryEnv(t *testing.T) *deliveryEnv {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	env := &deliveryEnv{
		db:     &fakeDeliveryDB{},
		mailer: &fakeMailer{},
		clock:  &fakeClock{now: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)},
	}

	env.uc = NewDelivery(Dependency{
		RepoDB:     env.db,
		Config:     cfg,
		UID:        &seqNumberID{},
		Clock:      env.clock,
		Validator:  v10,
		RepoMail:   env.mailer,
		Instrument: instrument.NewNoop(),
	})

	return env
}

func sampleOtpInput(clk *fakeClock) ConsumeOtpIssuedInput {
	return ConsumeOtpIssuedInput{
		UserID:           42,
		Email:            "user@example.com",
		SessionID:        "sess-1",
		Code:             "428517",
		ExpiresAtUnixMs:  clk.now.Add(2 * time.Minute).UnixMilli(),
		ExpiresInSeconds: 120,
	}
}

func TestConsumeOtpIssued(t *testing.T) {
	t.Run("EmailsCodeAndRecordsDispatch", func(t *testing.T) {
		// Arrange
		env := newDeliveryEnv(t)
		in := sampleOtpInput(env.clock)

		// Act
		if err := env.uc.ConsumeOtpIssued(context.Background(), in); err != nil {
			t.Fatalf("consume failed: %v", err)
		}

		// Assert
		if len(env.mailer.sent) != 1 {
			t.Fatalf("expected one email, got %d", len(env.mailer.sent))
		}
		msg := env.mailer.sent[0]
		if msg.To[0] != "user@example.com" {
			t.Fatalf("unexpected recipient: %v", msg.To)
		}
		if !strings.Contains(msg.HTMLBody, "428517") {
			t.Fatalf("the code must reach the user through the email body")
		}

		// Email record plus display record, since the display channel is on.
		if len(env.db.created) != 2 {
			t.Fatalf("expected two delivery records, got %d", len(env.db.created))
		}
		for _, rec := range env.db.created {
			for _, v := range rec.ProviderResponse {
				if s, ok := v.(string); ok && strings.Contains(s, "428517") {
					t.Fatalf("the code must never be written to a delivery record")
				}
			}
		}
		if env.db.created[0].Channel != entity.ChannelEmail || env.db.created[1].Channel != entity.ChannelDisplay {
			t.Fatalf("unexpected channels: %+v", env.db.created)
		}
		if len(env.db.updated) != 1 || env.db.updated[0].Status != entity.DeliveryStatusSent {
			t.Fatalf("expected the email record marked sent, got %+v", env.db.updated)
		}
	})

	t.Run("MailFailureIsRecorded", func(t *testing.T) {
		// Arrange
		env := newDeliveryEnv(t)
		env.mailer.sendErr = errors.New("smtp connect refused")
		in := sampleOtpInput(env.clock)

		// Act
		if err := env.uc.ConsumeOtpIssued(context.Background(), in); err != nil {
			t.Fatalf("consume failed: %v", err)
		}

		// Assert
		if len(env.db.updated) != 1 || env.db.updated[0].Status != entity.DeliveryStatusFailed {
			t.Fatalf("expected the record marked failed, got %+v", env.db.updated)
		}
	})

	t.Run("ExpiredInTransitIsDropped", func(t *testing.T) {
		// Arrange
		env := newDeliveryEnv(t)
		in := sampleOtpInput(env.clock)
		in.ExpiresAtUnixMs = env.clock.now.Add(-time.Second).UnixMilli()

		// Act
		if err := env.uc.ConsumeOtpIssued(context.Background(), in); err != nil {
			t.Fatalf("consume failed: %v", err)
		}

		// Assert
		if len(env.mailer.sent) != 0 || len(env.db.created) != 0 {
			t.Fatalf("an expired code must not be dispatched")
		}
	})

	t.Run("StreamReceivesDisplayEvent", func(t *testing.T) {
		// Arrange
		env := newDeliveryEnv(t)
		in := sampleOtpInput(env.clock)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ch := env.uc.StreamOtpDisplay(ctx, in.SessionID)

		// Act
		if err := env.uc.ConsumeOtpIssued(context.Background(), in); err != nil {
			t.Fatalf("consume failed: %v", err)
		}

		// Assert
		select {
		case ev := <-ch:
			if ev.Code != "428517" || ev.SessionID != "sess-1" {
				t.Fatalf("unexpected display event: %+v", ev)
			}
		case <-time.After(time.Second):
			t.Fatalf("expected a display event for the subscribed session")
		}
	})

	t.Run("OtherSessionsSeeNothing", func(t *testing.T) {
		// Arrange
		env := newDeliveryEnv(t)
		in := sampleOtpInput(env.clock)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ch := env.uc.StreamOtpDisplay(ctx, "some-other-session")

		// Act
		if err := env.uc.ConsumeOtpIssued(context.Background(), in); err != nil {
			t.Fatalf("consume failed: %v", err)
		}

		// Assert
		select {
		case ev := <-ch:
			t.Fatalf("a foreign session must not observe the code: %+v", ev)
		case <-time.After(50 * time.Millisecond):
		}
	})
}
