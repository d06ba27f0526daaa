package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jwt-demo/internal/api/dto"
	"github.com/spec-kit/jwt-demo/internal/auth"
	apperrors "github.com/spec-kit/jwt-demo/pkg/util/errorutil"
)

// SecretHandler serves the protected resource.
type SecretHandler struct{}

// NewSecretHandler constructs handler.
func NewSecretHandler() *SecretHandler {
	return &SecretHandler{}
}

// Get handles GET /secret and answers with the subject embedded in the token.
func (h *SecretHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Unauthorized")
	}

	claims := principal.Claims
	resp := dto.SecretResponse{ID: principal.SubjectID, Username: claims.Username}
	if claims.IssuedAt != nil {
		issuedAt := claims.IssuedAt.Time.UTC()
		resp.IssuedAt = &issuedAt
	}
	if claims.ExpiresAt != nil {
		expiresAt := claims.ExpiresAt.Time.UTC()
		resp.ExpiresAt = &expiresAt
	}
	return c.JSON(resp)
}
