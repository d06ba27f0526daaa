package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/jwt-demo/internal/auth"
	"github.com/spec-kit/jwt-demo/internal/events"
)

// LoginResult is returned to the caller after a successful login.
type LoginResult struct {
	SubjectID string
	Username  string
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates the login flow: credential check, then token issue.
type AuthService struct {
	credentials *auth.CredentialVerifier
	tokens      *auth.TokenService
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Credentials *auth.CredentialVerifier
	Tokens      *auth.TokenService
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		credentials: deps.Credentials,
		tokens:      deps.Tokens,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
	}
}

// Login verifies credentials and issues a token for the matching subject.
// Any credential failure is reported as auth.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password, remoteIP string) (*LoginResult, error) {
	subjectID, err := s.credentials.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.publish(ctx, events.Event{
				Type:     events.EventLoginFailed,
				RemoteIP: remoteIP,
				Payload:  events.LoginFailedPayload{Username: username, Reason: string(auth.ReasonOf(err))},
			})
		}
		return nil, err
	}

	token, claims, err := s.tokens.IssueClaims(subjectID, username)
	if err != nil {
		return nil, err
	}
	var expiresAt time.Time
	var expiry *time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
		expiry = &expiresAt
	}

	s.publish(ctx, events.Event{Type: events.EventLoginSucceeded, SubjectID: subjectID, RemoteIP: remoteIP})
	s.publish(ctx, events.Event{
		Type:      events.EventTokenIssued,
		SubjectID: subjectID,
		Payload:   events.TokenIssuedPayload{TokenID: claims.ID, ExpiresAt: expiry},
	})

	return &LoginResult{SubjectID: subjectID, Username: username, Token: token, ExpiresAt: expiresAt}, nil
}

// TokenService exposes the token service for middleware construction.
func (s *AuthService) TokenService() *auth.TokenService {
	return s.tokens
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
