package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/iamadmin/iamadmin/internal/config"
)

func TestNew_SelectsDriver(t *testing.T) {
	t.Parallel()

	base := config.Delivery{
		SMTPHost:      "smtp.example.com",
		SMTPPort:      587,
		SMTPUsername:  "mailer@example.com",
		SMTPPassword:  "pw",
		WebhookURL:    "https://relay.example.com/send",
		WebhookSecret: "s",
		InviteBaseURL: "https://id.example.com/register",
	}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	tests := []struct {
		driver string
		check  func(Notifier) bool
	}{
		{config.MailDriverSMTP, func(n Notifier) bool { _, ok := n.(*SMTPNotifier); return ok }},
		{config.MailDriverWebhook, func(n Notifier) bool { _, ok := n.(*WebhookNotifier); return ok }},
		{config.MailDriverLog, func(n Notifier) bool { _, ok := n.(*LogNotifier); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			cfg := base
			cfg.Driver = tt.driver

			n, err := New(cfg, logger)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if !tt.check(n) {
				t.Errorf("New() returned %T", n)
			}
		})
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := New(config.Delivery{Driver: "pigeon", InviteBaseURL: "https://id.example.com"}, slog.Default())
	if !errors.Is(err, config.ErrMissingDeliveryConfig) {
		t.Errorf("error = %v, want ErrMissingDeliveryConfig", err)
	}
}

func TestNew_SMTPSenderFallsBackToUsername(t *testing.T) {
	t.Parallel()

	n, err := New(config.Delivery{
		Driver:        config.MailDriverSMTP,
		SMTPHost:      "smtp.example.com",
		SMTPUsername:  "mailer@example.com",
		InviteBaseURL: "https://id.example.com/register",
	}, slog.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if from := n.(*SMTPNotifier).cfg.From; from != "mailer@example.com" {
		t.Errorf("From = %q, want username", from)
	}
}

func TestLogNotifier(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	renderer, _ := NewRenderer("https://id.example.com/register")
	n := NewLogNotifier(logger, renderer)

	err := n.SendInvitation(context.Background(), Invitation{
		Email:     "ada@example.com",
		Token:     "abc",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("SendInvitation() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "invitation_logged") || !strings.Contains(out, "token=abc") {
		t.Errorf("log output = %s", out)
	}
}
