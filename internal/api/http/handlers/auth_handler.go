package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jwt-demo/internal/api/dto"
	"github.com/spec-kit/jwt-demo/internal/auth"
	"github.com/spec-kit/jwt-demo/internal/service"
	apperrors "github.com/spec-kit/jwt-demo/pkg/util/errorutil"
)

// AuthHandler exposes the login endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"body": err.Error()})
	}

	result, err := h.auth.Login(c.UserContext(), req.Username, req.Password, c.IP())
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.Status(http.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
		}
		return err
	}

	resp := dto.LoginResponse{Token: result.Token}
	if !result.ExpiresAt.IsZero() {
		resp.ExpiresAt = &result.ExpiresAt
	}
	return c.JSON(resp)
}
