package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iamadmin/iamadmin/internal/model"
)

const (
	// invitationPrefix is the Redis key prefix for pending invitations.
	invitationPrefix = "invite:"
)

// Errors for invitation cache operations.
var (
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrTokenTaken         = errors.New("invitation token already in use")
)

// invitationKey returns the Redis key holding the payload for token.
func invitationKey(token string) string {
	return invitationPrefix + token
}

// PutInvitation stores the invite under token for ttl.
// An existing entry is never overwritten; ErrTokenTaken is returned instead.
func (c *Cache) PutInvitation(ctx context.Context, token string, invite model.Invite, ttl time.Duration) error {
	data, err := json.Marshal(invite)
	if err != nil {
		return fmt.Errorf("marshal invitation: %w", err)
	}

	ok, err := c.client.SetNX(ctx, invitationKey(token), data, ttl).Result()
	if err != nil {
		return fmt.Errorf("store invitation: %w", err)
	}
	if !ok {
		return ErrTokenTaken
	}

	return nil
}

// GetInvitation returns the invite stored under token and its remaining lifetime.
// Expired and unknown tokens yield ErrInvitationNotFound.
func (c *Cache) GetInvitation(ctx context.Context, token string) (*model.Invite, time.Duration, error) {
	key := invitationKey(token)

	pipe := c.client.Pipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, fmt.Errorf("load invitation: %w", err)
	}

	data, err := getCmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, 0, ErrInvitationNotFound
		}
		return nil, 0, fmt.Errorf("load invitation: %w", err)
	}

	var invite model.Invite
	if err := json.Unmarshal(data, &invite); err != nil {
		return nil, 0, fmt.Errorf("decode invitation: %w", err)
	}

	ttl := ttlCmd.Val()
	if ttl < 0 {
		// Key vanished between the two commands or carries no expiry.
		ttl = 0
	}

	return &invite, ttl, nil
}
