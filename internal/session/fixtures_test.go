package session

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fixtureToken builds an unsigned three-segment token around payload.
func fixtureToken(t *testing.T, payload map[string]any) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(body) + ".c2lnbmF0dXJl"
}

func encodeClaims(t *testing.T, c Claims) string {
	t.Helper()
	payload := map[string]any{"sub": c.Subject}
	if c.Email != "" {
		payload["email"] = c.Email
	}
	if c.Role != "" {
		payload["role"] = string(c.Role)
	}
	if c.Expiry != 0 {
		payload["exp"] = c.Expiry
	}
	return fixtureToken(t, payload)
}

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
