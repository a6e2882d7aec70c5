// Package notify delivers invitation messages to prospective users.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iamadmin/iamadmin/internal/config"
)

// ErrDeliveryFailed is returned when the message could not be handed
// to the delivery backend.
var ErrDeliveryFailed = errors.New("invitation delivery failed")

// Invitation is everything a notifier needs to tell a recipient about
// a pending invitation.
type Invitation struct {
	Email     string
	FirstName string
	Token     string
	ExpiresAt time.Time
}

// Notifier sends invitation messages.
type Notifier interface {
	SendInvitation(ctx context.Context, inv Invitation) error
}

// New builds the notifier selected by cfg.Driver.
// cfg must already have passed Validate.
func New(cfg config.Delivery, logger *slog.Logger) (Notifier, error) {
	renderer, err := NewRenderer(cfg.InviteBaseURL)
	if err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case config.MailDriverSMTP:
		return NewSMTPNotifier(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SenderAddress(),
		}, renderer), nil
	case config.MailDriverWebhook:
		return NewWebhookNotifier(cfg.WebhookURL, cfg.WebhookSecret, renderer, NewHTTPClient()), nil
	case config.MailDriverLog:
		return NewLogNotifier(logger, renderer), nil
	default:
		return nil, fmt.Errorf("%w: unknown mail driver %q", config.ErrMissingDeliveryConfig, cfg.Driver)
	}
}
