package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestGenerateSignature(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"to":"ada@example.com"}`)
	sig := GenerateSignature("secret", 1736600000, payload)

	if len(sig) != 64 {
		t.Errorf("signature length = %d, want 64", len(sig))
	}
	if sig != GenerateSignature("secret", 1736600000, payload) {
		t.Error("signature is not deterministic")
	}
	if sig == GenerateSignature("secret", 1736600001, payload) {
		t.Error("different timestamp should produce different signature")
	}
	if sig == GenerateSignature("secretx", 1736600000, payload) {
		t.Error("different secret should produce different signature")
	}
}

func TestWebhookNotifier_SendInvitation(t *testing.T) {
	t.Parallel()

	type captured struct {
		header http.Header
		body   []byte
	}
	got := make(chan captured, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got <- captured{header: r.Header.Clone(), body: body}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	renderer, _ := NewRenderer("https://id.example.com/register")
	n := NewWebhookNotifier(srv.URL, "relay-secret", renderer, srv.Client())
	fixed := time.Unix(1736600000, 0)
	n.now = func() time.Time { return fixed }

	inv := Invitation{
		Email:     "ada@example.com",
		FirstName: "Ada",
		Token:     "abc",
		ExpiresAt: fixed.Add(time.Hour),
	}
	if err := n.SendInvitation(context.Background(), inv); err != nil {
		t.Fatalf("SendInvitation() error = %v", err)
	}

	req := <-got

	if ts := req.header.Get(HeaderTimestamp); ts != strconv.FormatInt(fixed.Unix(), 10) {
		t.Errorf("timestamp header = %q", ts)
	}
	want := GenerateSignature("relay-secret", fixed.Unix(), req.body)
	if sig := req.header.Get(HeaderSignature); sig != want {
		t.Errorf("signature header = %q, want %q", sig, want)
	}

	var payload relayPayload
	if err := json.Unmarshal(req.body, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.To != inv.Email {
		t.Errorf("to = %q, want %q", payload.To, inv.Email)
	}
	if _, err := ulid.Parse(payload.DeliveryID); err != nil {
		t.Errorf("delivery_id %q is not a ULID: %v", payload.DeliveryID, err)
	}
	if req.header.Get(HeaderDeliveryID) != payload.DeliveryID {
		t.Errorf("delivery header = %q, body = %q", req.header.Get(HeaderDeliveryID), payload.DeliveryID)
	}
	if !payload.ExpiresAt.Equal(inv.ExpiresAt) {
		t.Errorf("expires_at = %v, want %v", payload.ExpiresAt, inv.ExpiresAt)
	}
}

func TestWebhookNotifier_Non2xxFails(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusFound} {
		t.Run(strconv.Itoa(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if status == http.StatusFound {
					w.Header().Set("Location", "http://example.invalid/")
				}
				w.WriteHeader(status)
			}))
			defer srv.Close()

			renderer, _ := NewRenderer("https://id.example.com/register")
			client := NewHTTPClient()
			n := NewWebhookNotifier(srv.URL, "s", renderer, client)

			err := n.SendInvitation(context.Background(), Invitation{Email: "a@example.com", Token: "t"})
			if !errors.Is(err, ErrDeliveryFailed) {
				t.Errorf("error = %v, want ErrDeliveryFailed", err)
			}
		})
	}
}

func TestWebhookNotifier_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	renderer, _ := NewRenderer("https://id.example.com/register")
	n := NewWebhookNotifier(url, "s", renderer, NewHTTPClient())

	err := n.SendInvitation(context.Background(), Invitation{Email: "a@example.com", Token: "t"})
	if !errors.Is(err, ErrDeliveryFailed) {
		t.Errorf("error = %v, want ErrDeliveryFailed", err)
	}
}
