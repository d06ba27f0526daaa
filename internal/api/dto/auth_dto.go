package dto

import "time"

// LoginRequest payload for POST /login.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// LoginResponse body returned on successful login.
type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ErrorResponse is the flat error body of POST /login.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SecretResponse describes the authenticated subject. Timestamps are
// omitted when the token does not carry them.
type SecretResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
