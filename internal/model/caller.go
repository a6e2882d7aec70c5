package model

// Caller is the verified identity of the operator making a request.
// It is established by the authentication layer before any directory
// or invitation operation runs.
type Caller struct {
	Subject string
	Email   string
	IsRoot  bool
	Scopes  []string
}
