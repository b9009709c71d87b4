package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/repair-tracker/pkg/util"
)

const principalKey = "auth_principal"

// Principal is the authenticated caller resolved from a session token.
// Verification is stateless: the claims carry everything the handlers need,
// so the gate never reads the credential store.
type Principal struct {
	IdentityID  string
	Username    string
	DisplayName string
}

// SessionGate validates session tokens on protected routes. The token is
// carried in an HTTP-only cookie; a bearer header is accepted as a fallback
// for non-browser clients.
type SessionGate struct {
	tokens     *TokenManager
	cookieName string
}

// NewSessionGate constructs the gate middleware.
func NewSessionGate(tokens *TokenManager, cookieName string) *SessionGate {
	return &SessionGate{tokens: tokens, cookieName: cookieName}
}

// Handle enforces authentication for protected routes.
func (g *SessionGate) Handle(c *fiber.Ctx) error {
	token := g.tokenFromRequest(c)
	if token == "" {
		return apperrors.NewUnauthenticated("missing session token")
	}

	claims, err := g.tokens.ParseToken(token)
	if err != nil {
		return apperrors.NewUnauthenticated("invalid or expired session")
	}

	c.Locals(principalKey, &Principal{
		IdentityID:  claims.IdentityID,
		Username:    claims.Username,
		DisplayName: claims.DisplayName,
	})
	return c.Next()
}

func (g *SessionGate) tokenFromRequest(c *fiber.Ctx) string {
	if cookie := c.Cookies(g.cookieName); cookie != "" {
		return cookie
	}
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// SessionCookie builds the HTTP-only cookie carrying the session token.
func (g *SessionGate) SessionCookie(token string, expiresAt time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     g.cookieName,
		Value:    token,
		Expires:  expiresAt,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}

// ExpiredCookie returns an already-expired replacement cookie. Logout is
// client-side only: previously issued tokens stay cryptographically valid
// until their natural expiry.
func (g *SessionGate) ExpiredCookie() *fiber.Cookie {
	cookie := g.SessionCookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	return cookie
}

// PrincipalFromContext retrieves the authenticated identity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
