package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repair-tracker/internal/api/dto"
	"github.com/spec-kit/repair-tracker/internal/auth"
	"github.com/spec-kit/repair-tracker/internal/service"
	apperrors "github.com/spec-kit/repair-tracker/pkg/util"
)

// SessionHandler exposes login, logout and identity lookup.
type SessionHandler struct {
	authService *service.AuthService
	gate        *auth.SessionGate
}

// NewSessionHandler constructs handler.
func NewSessionHandler(authService *service.AuthService, gate *auth.SessionGate) *SessionHandler {
	return &SessionHandler{authService: authService, gate: gate}
}

// Login handles POST /auth/login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Secret == "" {
		return apperrors.NewValidationError("username and secret required", nil)
	}

	identity, token, exp, err := h.authService.Authenticate(c.Context(), req.Username, req.Secret)
	if err != nil {
		return err
	}

	c.Cookie(h.gate.SessionCookie(token, exp))
	return c.JSON(fiber.Map{"success": true, "data": dto.IdentityResponse{
		ID:          identity.ID,
		Username:    identity.Username,
		DisplayName: identity.DisplayName,
	}})
}

// Logout handles POST /auth/logout. The replacement cookie is already
// expired; the token itself stays valid until its natural expiry.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(h.gate.ExpiredCookie())
	return c.JSON(fiber.Map{"success": true})
}

// Me handles GET /auth/me.
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.IdentityResponse{
		ID:          principal.IdentityID,
		Username:    principal.Username,
		DisplayName: principal.DisplayName,
	}})
}
