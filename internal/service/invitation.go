package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/iamadmin/iamadmin/internal/cache"
	"github.com/iamadmin/iamadmin/internal/metrics"
	"github.com/iamadmin/iamadmin/internal/model"
	"github.com/iamadmin/iamadmin/internal/notify"
)

// InvitationStore holds pending invitations until they expire.
// *cache.Cache implements it.
type InvitationStore interface {
	PutInvitation(ctx context.Context, token string, invite model.Invite, ttl time.Duration) error
	GetInvitation(ctx context.Context, token string) (*model.Invite, time.Duration, error)
}

// InviteInput defines input for creating an invitation.
type InviteInput struct {
	Email      string
	FirstName  string
	MiddleName *string
	LastName   string
	IsRoot     bool
}

// InvitationService issues time-limited registration tokens and hands
// them to a notifier.
type InvitationService struct {
	store    InvitationStore
	notifier notify.Notifier
	logger   *slog.Logger
	metrics  metrics.Recorder
	now      func() time.Time
	newToken func() (string, error)
}

// NewInvitationService creates a new InvitationService.
// A nil notifier is accepted; CreateInvitation then fails with ErrConfiguration.
func NewInvitationService(store InvitationStore, notifier notify.Notifier, logger *slog.Logger, recorder metrics.Recorder) *InvitationService {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &InvitationService{
		store:    store,
		notifier: notifier,
		logger:   logger,
		metrics:  recorder,
		now:      time.Now,
		newToken: generateToken,
	}
}

func (in InviteInput) normalize() (model.Invite, error) {
	email := strings.TrimSpace(in.Email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return model.Invite{}, ErrInvalidEmail
	}

	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if first == "" || last == "" {
		return model.Invite{}, ErrMissingName
	}

	var middle *string
	if in.MiddleName != nil {
		if m := strings.TrimSpace(*in.MiddleName); m != "" {
			middle = &m
		}
	}

	return model.Invite{
		Email:      email,
		FirstName:  first,
		MiddleName: middle,
		LastName:   last,
		IsRoot:     in.IsRoot,
	}, nil
}

// CreateInvitation stores a fresh token for the invitee and sends it.
//
// Each call yields an independent token, even for the same email.
// If delivery fails the stored token is left to expire on its own.
func (s *InvitationService) CreateInvitation(ctx context.Context, caller *model.Caller, input InviteInput) (*model.PendingInvitation, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	invite, err := input.normalize()
	if err != nil {
		return nil, err
	}

	if s.notifier == nil {
		return nil, fmt.Errorf("%w: no invitation notifier configured", ErrConfiguration)
	}

	token, err := s.storeInvitation(ctx, invite)
	if err != nil {
		s.metrics.IncInvitationFailed(metrics.StageStore)
		return nil, err
	}
	expiresAt := s.now().Add(model.InvitationTTL).UTC()

	err = s.notifier.SendInvitation(ctx, notify.Invitation{
		Email:     invite.Email,
		FirstName: invite.FirstName,
		Token:     token,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		s.metrics.IncInvitationFailed(metrics.StageDeliver)
		return nil, unavailable("send invitation", err)
	}

	s.metrics.IncInvitationIssued()
	s.logger.InfoContext(ctx, "invitation_issued",
		slog.String("email", invite.Email),
		slog.String("actor", caller.Subject),
		slog.Bool("is_root", invite.IsRoot),
		slog.Time("expires_at", expiresAt),
	)

	return &model.PendingInvitation{
		Token:     token,
		Invite:    invite,
		ExpiresAt: expiresAt,
	}, nil
}

// storeInvitation writes the invite under a new token. A token already
// present in the store is never overwritten; a new one is drawn instead.
func (s *InvitationService) storeInvitation(ctx context.Context, invite model.Invite) (string, error) {
	for attempt := 0; attempt < maxTokenRetries; attempt++ {
		token, err := s.newToken()
		if err != nil {
			return "", fmt.Errorf("generate invitation token: %w", err)
		}

		err = s.store.PutInvitation(ctx, token, invite, model.InvitationTTL)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, cache.ErrTokenTaken) {
			return "", unavailable("store invitation", err)
		}
		s.metrics.IncInvitationTokenCollision()
	}
	return "", unavailable("store invitation", errors.New("could not find a free token"))
}

// LookupInvitation returns a pending invitation and when it expires.
func (s *InvitationService) LookupInvitation(ctx context.Context, caller *model.Caller, token string) (*model.PendingInvitation, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if !validToken(token) {
		return nil, ErrInvalidToken
	}

	invite, ttl, err := s.store.GetInvitation(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrInvitationNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, unavailable("load invitation", err)
	}

	return &model.PendingInvitation{
		Token:     token,
		Invite:    *invite,
		ExpiresAt: s.now().Add(ttl).UTC(),
	}, nil
}
