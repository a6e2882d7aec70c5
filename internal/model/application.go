package model

// Application is a registered client application.
type Application struct {
	ID                int64
	ClientID          string
	Name              string
	LogoURL           *string
	Disabled          bool
	GroupID           *int64
	TNCLink           *string
	AllowRegistration bool
}

// AppView is the externally visible shape of an application.
type AppView struct {
	ClientID          string  `json:"client_id"`
	Name              string  `json:"name"`
	LogoURL           *string `json:"logo_url"`
	Disabled          bool    `json:"disabled"`
	GroupID           *int64  `json:"group_id"`
	TNCLink           *string `json:"tnc_link"`
	AllowRegistration bool    `json:"allow_registration"`
	ID                int64   `json:"id"`
}

// ToView converts an Application to its response shape.
func (a *Application) ToView() AppView {
	return AppView{
		ClientID:          a.ClientID,
		Name:              a.Name,
		LogoURL:           a.LogoURL,
		Disabled:          a.Disabled,
		GroupID:           a.GroupID,
		TNCLink:           a.TNCLink,
		AllowRegistration: a.AllowRegistration,
		ID:                a.ID,
	}
}
