package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateApp(t *testing.T, gate *SessionGate) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/protected", gate.Handle, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		require.True(t, ok)
		return c.SendString(principal.Username)
	})
	return app
}

func TestSessionGateAcceptsCookie(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	gate := NewSessionGate(tm, "auth_token")
	app := newGateApp(t, gate)

	token, exp, err := tm.GenerateToken(testIdentity)
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token, Expires: exp})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionGateAcceptsBearerFallback(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	gate := NewSessionGate(tm, "auth_token")
	app := newGateApp(t, gate)

	token, _, err := tm.GenerateToken(testIdentity)
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionGateRejectsBadTokens(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	gate := NewSessionGate(tm, "auth_token")
	app := newGateApp(t, gate)

	otherToken, _, err := NewTokenManager("other-secret", time.Hour).GenerateToken(testIdentity)
	require.NoError(t, err)

	tests := []struct {
		name  string
		setup func(*http.Request)
	}{
		{"missing token", func(*http.Request) {}},
		{"garbage cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "auth_token", Value: "garbage"})
		}},
		{"wrong signing key", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "auth_token", Value: otherToken})
		}},
		{"malformed header", func(r *http.Request) {
			r.Header.Set("Authorization", "Basic abc")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
			tt.setup(req)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			// the gate returns a DomainError; without the error middleware
			// fiber surfaces it as a 500, so assert on the failure itself
			assert.NotEqual(t, http.StatusOK, resp.StatusCode)
		})
	}
}

func TestExpiredCookieClearsSession(t *testing.T) {
	gate := NewSessionGate(NewTokenManager("test-secret", time.Hour), "auth_token")
	cookie := gate.ExpiredCookie()
	assert.Equal(t, "auth_token", cookie.Name)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.Expires.Before(time.Now()))
}
