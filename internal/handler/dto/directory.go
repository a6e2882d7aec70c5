package dto

import "github.com/iamadmin/iamadmin/internal/model"

// UpdateUserRequest replaces every editable attribute of a user.
// is_active and is_root must be present; absent names are cleared.
type UpdateUserRequest struct {
	FirstName  *string `json:"first_name"`
	MiddleName *string `json:"middle_name"`
	LastName   *string `json:"last_name"`
	IsActive   *bool   `json:"is_active"`
	IsRoot     *bool   `json:"is_root"`
}

// Complete reports whether both flags were supplied.
func (r UpdateUserRequest) Complete() bool {
	return r.IsActive != nil && r.IsRoot != nil
}

// ToModel converts the request to a model.UserUpdate. Call Complete first.
func (r UpdateUserRequest) ToModel() model.UserUpdate {
	return model.UserUpdate{
		FirstName:  r.FirstName,
		MiddleName: r.MiddleName,
		LastName:   r.LastName,
		IsActive:   *r.IsActive,
		IsRoot:     *r.IsRoot,
	}
}

// ToUserPage converts a page of users to their public view.
func ToUserPage(p model.Page[*model.User]) model.Page[model.UserView] {
	return model.MapPage(p, (*model.User).ToView)
}

// ToAppPage converts a page of applications to their public view.
func ToAppPage(p model.Page[*model.Application]) model.Page[model.AppView] {
	return model.MapPage(p, (*model.Application).ToView)
}
