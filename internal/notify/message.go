package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	"text/template"
	"time"
)

// Message is a rendered invitation ready for delivery.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

const invitationSubject = "You have been invited"

var invitationText = template.Must(template.New("text").Parse(
	`Hi {{.FirstName}},

You have been invited to create an account.
Complete your registration here:

{{.Link}}

This link expires at {{.Expires}}. If you were not expecting this
invitation you can ignore this message.
`))

var invitationHTML = htmltemplate.Must(htmltemplate.New("html").Parse(
	`<p>Hi {{.FirstName}},</p>
<p>You have been invited to create an account.</p>
<p><a href="{{.Link}}">Complete your registration</a></p>
<p>This link expires at {{.Expires}}. If you were not expecting this invitation you can ignore this message.</p>
`))

// Renderer turns an Invitation into a Message with a registration deep link.
type Renderer struct {
	base *url.URL
}

// NewRenderer parses baseURL, the registration page the token is appended to.
func NewRenderer(baseURL string) (*Renderer, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse invite base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invite base URL %q is not absolute", baseURL)
	}
	return &Renderer{base: u}, nil
}

// Link returns the deep link carrying token.
// Existing query parameters on the base URL are kept.
func (r *Renderer) Link(token string) string {
	u := *r.base
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// Render builds the invitation message.
func (r *Renderer) Render(inv Invitation) (Message, error) {
	data := struct {
		FirstName string
		Link      string
		Expires   string
	}{
		FirstName: inv.FirstName,
		Link:      r.Link(inv.Token),
		Expires:   inv.ExpiresAt.UTC().Format(time.RFC1123),
	}

	var text, html bytes.Buffer
	if err := invitationText.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render text body: %w", err)
	}
	if err := invitationHTML.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render html body: %w", err)
	}

	return Message{
		Subject: invitationSubject,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
