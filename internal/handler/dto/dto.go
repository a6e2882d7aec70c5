// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ExistsResponse answers an existence check.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}
