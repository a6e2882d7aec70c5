//go:build integration

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iamadmin/iamadmin/internal/model"
	"github.com/iamadmin/iamadmin/internal/testutil"
)

func newInvitationTestCache(t *testing.T) (context.Context, *Cache) {
	t.Helper()

	ctx := context.Background()
	redisURL := testutil.RequireEnv(t, "REDIS_URL")

	c, err := New(ctx, redisURL, DefaultOptions())
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	return ctx, c
}

func TestIntegrationInvitation_PutAndGet(t *testing.T) {
	ctx, c := newInvitationTestCache(t)

	invite := model.Invite{Email: "a@x.com", FirstName: "Jo", LastName: "Doe", IsRoot: true}
	token := "tokentokentokentokentokentoken"

	if err := c.PutInvitation(ctx, token, invite, model.InvitationTTL); err != nil {
		t.Fatalf("PutInvitation failed: %v", err)
	}

	got, ttl, err := c.GetInvitation(ctx, token)
	if err != nil {
		t.Fatalf("GetInvitation failed: %v", err)
	}
	if *got != invite {
		t.Errorf("payload mismatch: got %+v, want %+v", *got, invite)
	}
	if ttl <= 0 || ttl > model.InvitationTTL {
		t.Errorf("unexpected ttl %s", ttl)
	}
}

func TestIntegrationInvitation_NoOverwrite(t *testing.T) {
	ctx, c := newInvitationTestCache(t)

	token := "sametokensametokensametokensam"
	first := model.Invite{Email: "first@x.com", FirstName: "A", LastName: "B"}
	second := model.Invite{Email: "second@x.com", FirstName: "C", LastName: "D"}

	if err := c.PutInvitation(ctx, token, first, model.InvitationTTL); err != nil {
		t.Fatalf("PutInvitation failed: %v", err)
	}
	if err := c.PutInvitation(ctx, token, second, model.InvitationTTL); !errors.Is(err, ErrTokenTaken) {
		t.Fatalf("expected ErrTokenTaken, got %v", err)
	}

	got, _, err := c.GetInvitation(ctx, token)
	if err != nil {
		t.Fatalf("GetInvitation failed: %v", err)
	}
	if got.Email != first.Email {
		t.Errorf("payload was overwritten: got %s", got.Email)
	}
}

func TestIntegrationInvitation_Expires(t *testing.T) {
	ctx, c := newInvitationTestCache(t)

	token := "shortlivedshortlivedshortlived"
	if err := c.PutInvitation(ctx, token, model.Invite{Email: "a@x.com"}, 50*time.Millisecond); err != nil {
		t.Fatalf("PutInvitation failed: %v", err)
	}

	time.Sleep(150 * time.Millisecond)

	if _, _, err := c.GetInvitation(ctx, token); !errors.Is(err, ErrInvitationNotFound) {
		t.Fatalf("expected ErrInvitationNotFound after expiry, got %v", err)
	}
}
