package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-portal/internal/domain"
)

func TestGenerateAndParse(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	token, err := tm.GenerateToken("alice", "alice@example.com", domain.RoleEndUser)
	require.NoError(t, err)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, domain.RoleEndUser, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestNegativeTTLOmitsExpiry(t *testing.T) {
	tm := NewTokenManager("secret", -1)
	token, err := tm.GenerateToken("bob", "", domain.RoleSupport)
	require.NoError(t, err)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	issuer := NewTokenManager("other-secret", 30)
	foreign, err := issuer.GenerateToken("mallory", "", domain.RoleAdmin)
	require.NoError(t, err)

	tm := NewTokenManager("secret", 1)
	_, err = tm.ParseToken(foreign)
	assert.Error(t, err)

	token, err := tm.GenerateToken("alice", "", domain.RoleEndUser)
	require.NoError(t, err)
	tm.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestMiddlewareAndRoles(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	app := fiber.New()
	app.Get("/support", NewAuthMiddleware(tm).Handle, RequireRole(domain.RoleSupport, domain.RoleAdmin), func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.Username)
	})

	call := func(header string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, "/support", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, http.StatusUnauthorized, call("").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, call("Token abc").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer abc").StatusCode)

	endUser, err := tm.GenerateToken("alice", "", domain.RoleEndUser)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, call("Bearer "+endUser).StatusCode)

	support, err := tm.GenerateToken("sam", "", domain.RoleSupport)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, call("bearer "+support).StatusCode)
}
