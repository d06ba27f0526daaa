package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/jwt-demo/internal/auth"
	"github.com/spec-kit/jwt-demo/internal/config"
	"github.com/spec-kit/jwt-demo/internal/events"
	"github.com/spec-kit/jwt-demo/internal/observability"
	"github.com/spec-kit/jwt-demo/internal/repository"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newAuthService(t *testing.T) (*AuthService, *recorder, *observability.Metrics) {
	t.Helper()
	ctx := context.Background()

	repo := repository.NewMemoryIdentityRepository()
	require.NoError(t, SeedIdentity(ctx, repo, config.IdentityConfig{
		SeedUsername: "foobar",
		SeedPassword: "password",
		SeedSubject:  "1",
	}, bcrypt.MinCost, zap.NewNop()))

	credentials, err := auth.NewCredentialVerifier(repo, bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret:   []byte("service-test-secret"),
		Issuer:   "localhost:3000",
		Audience: "localhost:3001",
		TTL:      time.Hour,
	})
	require.NoError(t, err)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	NewAuditService(dispatcher, zap.NewNop(), metrics).RegisterHandlers()

	rec := &recorder{}
	for _, et := range []events.EventType{events.EventLoginSucceeded, events.EventLoginFailed, events.EventTokenIssued} {
		dispatcher.Subscribe(et, rec.handle)
	}

	svc := NewAuthService(AuthDependencies{
		Credentials: credentials,
		Tokens:      tokens,
		Dispatcher:  dispatcher,
	})
	return svc, rec, metrics
}

func TestLogin(t *testing.T) {
	svc, rec, metrics := newAuthService(t)

	result, err := svc.Login(context.Background(), "foobar", "password", "127.0.0.1")
	require.NoError(t, err)
	require.Equal(t, "1", result.SubjectID)

	subject, err := svc.TokenService().Verify(result.Token)
	require.NoError(t, err)
	require.Equal(t, "1", subject)

	require.Equal(t, []events.EventType{events.EventLoginSucceeded, events.EventTokenIssued}, rec.types())
	require.Equal(t, int64(1), metrics.Snapshot().Auth[string(events.EventLoginSucceeded)])

	claims, err := svc.TokenService().ParseClaims(result.Token)
	require.NoError(t, err)
	require.Equal(t, "foobar", result.Username)
	require.Equal(t, "foobar", claims.Username)

	issued, ok := rec.events[1].Payload.(events.TokenIssuedPayload)
	require.True(t, ok)
	require.Equal(t, claims.ID, issued.TokenID)
	require.NotNil(t, issued.ExpiresAt)
	require.True(t, result.ExpiresAt.Equal(*issued.ExpiresAt))
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, rec, _ := newAuthService(t)

	result, err := svc.Login(context.Background(), "foobar", "wrong", "127.0.0.1")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	require.Nil(t, result)

	require.Equal(t, []events.EventType{events.EventLoginFailed}, rec.types())
	payload, ok := rec.events[0].Payload.(events.LoginFailedPayload)
	require.True(t, ok)
	require.Equal(t, "foobar", payload.Username)
	require.Equal(t, string(auth.ReasonInvalidCredentials), payload.Reason)
}

func TestSeedIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		repo := repository.NewMemoryIdentityRepository()
		require.NoError(t, SeedIdentity(ctx, repo, config.IdentityConfig{}, bcrypt.MinCost, zap.NewNop()))
		_, err := repo.FindByUsername(ctx, "foobar")
		require.ErrorIs(t, err, repository.ErrIdentityNotFound)
	})

	t.Run("incomplete", func(t *testing.T) {
		repo := repository.NewMemoryIdentityRepository()
		err := SeedIdentity(ctx, repo, config.IdentityConfig{SeedUsername: "foobar"}, bcrypt.MinCost, zap.NewNop())
		require.ErrorContains(t, err, "password and subject are required")
	})

	t.Run("stores hash", func(t *testing.T) {
		repo := repository.NewMemoryIdentityRepository()
		require.NoError(t, SeedIdentity(ctx, repo, config.IdentityConfig{
			SeedUsername: "foobar",
			SeedPassword: "password",
			SeedSubject:  "1",
		}, bcrypt.MinCost, zap.NewNop()))

		identity, err := repo.FindByUsername(ctx, "foobar")
		require.NoError(t, err)
		require.NotEqual(t, "password", identity.PasswordHash)
		require.NoError(t, auth.ComparePassword(identity.PasswordHash, "password"))
	})
}
