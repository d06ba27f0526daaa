package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/spec-kit/jwt-demo/internal/repository"
)

// CredentialVerifier checks a username/password pair against an identity store.
type CredentialVerifier struct {
	identities repository.IdentityRepository
	// compared against for unknown usernames so a miss costs a full bcrypt run
	dummyHash string
}

// NewCredentialVerifier builds a verifier. bcryptCost should match the cost
// stored identities were hashed with.
func NewCredentialVerifier(identities repository.IdentityRepository, bcryptCost int) (*CredentialVerifier, error) {
	if identities == nil {
		return nil, errors.New("credential verifier: identity repository is required")
	}
	dummy, err := HashPassword("timing-equaliser", bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("credential verifier: %w", err)
	}
	return &CredentialVerifier{identities: identities, dummyHash: dummy}, nil
}

// Verify returns the subject ID of the identity matching username and
// password. Unknown users, wrong passwords and empty input all yield
// ErrInvalidCredentials. Store failures are returned as-is.
func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	identity, err := v.identities.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrIdentityNotFound) {
			_ = ComparePassword(v.dummyHash, password)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup identity: %w", err)
	}

	if err := ComparePassword(identity.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}
	return identity.SubjectID, nil
}
