package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jwt-demo/internal/events"
	apperrors "github.com/spec-kit/jwt-demo/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	SubjectID string
	Claims    *Claims
}

// AuthMiddleware validates bearer tokens and stores the principal on the request.
type AuthMiddleware struct {
	tokens     *TokenService
	dispatcher events.Dispatcher
}

// NewAuthMiddleware constructs middleware. dispatcher may be nil.
func NewAuthMiddleware(tokens *TokenService, dispatcher events.Dispatcher) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, dispatcher: dispatcher}
}

// Handle enforces authentication for protected routes. Rejections carry the
// reason code in the error details.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return m.reject(c, ReasonMissingToken, ErrMissingToken)
	}

	claims, err := m.tokens.ParseClaims(token)
	if err != nil {
		return m.reject(c, ReasonOf(err), err)
	}

	c.Locals(principalKey, &Principal{SubjectID: claims.Subject, Claims: claims})
	return c.Next()
}

func (m *AuthMiddleware) reject(c *fiber.Ctx, reason Reason, err error) error {
	if m.dispatcher != nil {
		_ = m.dispatcher.Publish(context.WithoutCancel(c.UserContext()), events.Event{
			Type:     events.EventTokenRejected,
			RemoteIP: c.IP(),
			Payload:  events.TokenRejectedPayload{Reason: string(reason), Path: c.Path()},
		})
	}
	c.Set(fiber.HeaderWWWAuthenticate, `Bearer error="invalid_token"`)
	return apperrors.NewUnauthorizedReason("Unauthorized", string(reason), err)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// RequireAuthenticated rejects requests that reached it without a principal.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("Unauthorized")
		}
		return c.Next()
	}
}
