package domain

import "time"

// Identity is a known principal that may log in with a username and password.
type Identity struct {
	SubjectID    string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
