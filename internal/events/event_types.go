package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginFailed    EventType = "login_failed"
	EventTokenIssued    EventType = "token_issued"
	EventTokenRejected  EventType = "token_rejected"
)

// Event represents an authentication outcome. Passwords and raw tokens are
// never carried.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id,omitempty"`
	RemoteIP  string      `json:"remote_ip,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// LoginFailedPayload payload.
type LoginFailedPayload struct {
	Username string `json:"username"`
	Reason   string `json:"reason"`
}

// TokenIssuedPayload payload.
type TokenIssuedPayload struct {
	TokenID   string    `json:"token_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// TokenRejectedPayload payload.
type TokenRejectedPayload struct {
	Reason string `json:"reason"`
	Path   string `json:"path"`
}
