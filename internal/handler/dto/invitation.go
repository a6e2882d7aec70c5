package dto

import (
	"time"

	"github.com/iamadmin/iamadmin/internal/model"
)

// CreateInvitationRequest is the body of POST /invite.
type CreateInvitationRequest struct {
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	MiddleName *string `json:"middle_name,omitempty"`
	LastName   string  `json:"last_name"`
	IsRoot     bool    `json:"is_root"`
}

// InvitationResponse acknowledges an issued invitation.
// The token itself only travels to the invitee.
type InvitationResponse struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PendingInvitationResponse describes a pending invitation.
type PendingInvitationResponse struct {
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	MiddleName *string   `json:"middle_name,omitempty"`
	LastName   string    `json:"last_name"`
	IsRoot     bool      `json:"is_root"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ToPendingInvitationResponse converts a pending invitation to its response.
func ToPendingInvitationResponse(p *model.PendingInvitation) PendingInvitationResponse {
	return PendingInvitationResponse{
		Email:      p.Invite.Email,
		FirstName:  p.Invite.FirstName,
		MiddleName: p.Invite.MiddleName,
		LastName:   p.Invite.LastName,
		IsRoot:     p.Invite.IsRoot,
		ExpiresAt:  p.ExpiresAt,
	}
}
