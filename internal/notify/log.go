package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes invitations to the log instead of delivering them.
// Intended for local development, where the link can be copied from output.
type LogNotifier struct {
	logger   *slog.Logger
	renderer *Renderer
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger, renderer *Renderer) *LogNotifier {
	return &LogNotifier{logger: logger, renderer: renderer}
}

// SendInvitation logs the recipient and deep link.
func (n *LogNotifier) SendInvitation(ctx context.Context, inv Invitation) error {
	n.logger.InfoContext(ctx, "invitation_logged",
		slog.String("email", inv.Email),
		slog.String("link", n.renderer.Link(inv.Token)),
		slog.Time("expires_at", inv.ExpiresAt),
	)
	return nil
}
