// Package model defines domain entities for the application.
package model

import "time"

// User is a directory account record.
type User struct {
	ID         int64
	Email      string
	FirstName  *string
	MiddleName *string
	LastName   *string
	IsRoot     bool
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UserUpdate is a full replacement of the mutable user fields.
// Nil name fields are written as NULL.
type UserUpdate struct {
	FirstName  *string
	MiddleName *string
	LastName   *string
	IsActive   bool
	IsRoot     bool
}

// UserView is the externally visible shape of a user.
// It never carries internal identifiers or credentials.
type UserView struct {
	FirstName  *string `json:"first_name"`
	MiddleName *string `json:"middle_name"`
	LastName   *string `json:"last_name"`
	Email      string  `json:"email"`
	IsRoot     bool    `json:"is_root"`
	IsActive   bool    `json:"is_active"`
}

// ToView converts a User to its response shape.
func (u *User) ToView() UserView {
	return UserView{
		FirstName:  u.FirstName,
		MiddleName: u.MiddleName,
		LastName:   u.LastName,
		Email:      u.Email,
		IsRoot:     u.IsRoot,
		IsActive:   u.IsActive,
	}
}
