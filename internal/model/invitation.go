package model

import "time"

const (
	// InvitationTokenLength is the number of characters in an invitation token.
	InvitationTokenLength = 30
	// InvitationTTL is how long a pending invitation stays redeemable.
	InvitationTTL = 3600 * time.Second
)

// Invite is the registration payload unlocked by an invitation token.
// Its JSON form is what gets stored in the cache.
type Invite struct {
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	MiddleName *string `json:"middle_name"`
	LastName   string  `json:"last_name"`
	IsRoot     bool    `json:"is_root"`
}

// PendingInvitation is an issued, not yet consumed or expired, invitation.
type PendingInvitation struct {
	Token     string
	Invite    Invite
	ExpiresAt time.Time
}
