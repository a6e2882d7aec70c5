package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
)

// relayPayload is the JSON body posted to the mail relay.
type relayPayload struct {
	DeliveryID string    `json:"delivery_id"`
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	Text       string    `json:"text"`
	HTML       string    `json:"html"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// WebhookNotifier hands rendered invitations to an HTTP mail relay.
// Each request is signed with HMAC-SHA256 over "{timestamp}.{body}".
type WebhookNotifier struct {
	url      string
	secret   string
	renderer *Renderer
	client   *http.Client
	now      func() time.Time
}

// NewWebhookNotifier creates a WebhookNotifier.
func NewWebhookNotifier(url, secret string, renderer *Renderer, client *http.Client) *WebhookNotifier {
	return &WebhookNotifier{
		url:      url,
		secret:   secret,
		renderer: renderer,
		client:   client,
		now:      time.Now,
	}
}

// SendInvitation posts the rendered invitation to the relay.
// Any non-2xx response counts as a failed delivery.
func (n *WebhookNotifier) SendInvitation(ctx context.Context, inv Invitation) error {
	msg, err := n.renderer.Render(inv)
	if err != nil {
		return err
	}

	payload := relayPayload{
		DeliveryID: ulid.Make().String(),
		To:         inv.Email,
		Subject:    msg.Subject,
		Text:       msg.Text,
		HTML:       msg.HTML,
		ExpiresAt:  inv.ExpiresAt.UTC(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal relay payload: %w", err)
	}

	timestamp := n.now().Unix()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "iamadmin-notifier/1.0")
	req.Header.Set(HeaderSignature, GenerateSignature(n.secret, timestamp, body))
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(timestamp, 10))
	req.Header.Set(HeaderDeliveryID, payload.DeliveryID)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: relay responded %d", ErrDeliveryFailed, resp.StatusCode)
	}

	return nil
}
