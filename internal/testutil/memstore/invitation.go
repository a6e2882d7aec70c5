package memstore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/iamadmin/iamadmin/internal/cache"
	"github.com/iamadmin/iamadmin/internal/model"
	"github.com/iamadmin/iamadmin/internal/notify"
)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// Invitations is an in-memory invitation store with SET NX semantics and
// expiry driven by Now.
type Invitations struct {
	mu      sync.Mutex
	entries map[string]entry

	// Now is the store's clock.
	Now func() time.Time
	// Err, when set, is returned by every method.
	Err error
}

// NewInvitations creates an empty store using the wall clock.
func NewInvitations() *Invitations {
	return &Invitations{entries: make(map[string]entry), Now: time.Now}
}

// PutInvitation stores invite under token unless a live entry exists.
func (s *Invitations) PutInvitation(ctx context.Context, token string, invite model.Invite, ttl time.Duration) error {
	if s.Err != nil {
		return s.Err
	}
	payload, err := json.Marshal(invite)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.Now()
	if e, ok := s.entries[token]; ok && now.Before(e.expiresAt) {
		return cache.ErrTokenTaken
	}
	s.entries[token] = entry{payload: payload, expiresAt: now.Add(ttl)}
	return nil
}

// GetInvitation returns a live invite and its remaining TTL.
func (s *Invitations) GetInvitation(ctx context.Context, token string) (*model.Invite, time.Duration, error) {
	if s.Err != nil {
		return nil, 0, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	now := s.Now()
	if !ok || !now.Before(e.expiresAt) {
		return nil, 0, cache.ErrInvitationNotFound
	}

	var invite model.Invite
	if err := json.Unmarshal(e.payload, &invite); err != nil {
		return nil, 0, err
	}
	return &invite, e.expiresAt.Sub(now), nil
}

// Len returns the number of live entries.
func (s *Invitations) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	now := s.Now()
	for _, e := range s.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

// TTL returns the remaining lifetime of token, or zero when absent.
func (s *Invitations) TTL(token string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	if !ok {
		return 0
	}
	return e.expiresAt.Sub(s.Now())
}

// Outbox is a notify.Notifier that records what it was asked to send.
type Outbox struct {
	mu   sync.Mutex
	sent []notify.Invitation

	// Err, when set, is returned instead of recording.
	Err error
}

// SendInvitation records inv.
func (o *Outbox) SendInvitation(ctx context.Context, inv notify.Invitation) error {
	if o.Err != nil {
		return o.Err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, inv)
	return nil
}

// Sent returns a copy of the recorded invitations.
func (o *Outbox) Sent() []notify.Invitation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]notify.Invitation(nil), o.sent...)
}
