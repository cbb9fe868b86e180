package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/ticket-portal/internal/domain"
)

// Claims is the display projection of a token payload. It is derived on demand
// and never persisted.
type Claims struct {
	Subject string      `json:"username"`
	Email   string      `json:"email,omitempty"`
	Role    domain.Role `json:"role,omitempty"`
	// Expiry is epoch seconds; zero means the token carries no exp claim.
	Expiry int64 `json:"exp,omitempty"`
}

// ExpiredAt reports whether the claims carry an expiry that lies before now.
func (c Claims) ExpiredAt(now time.Time) bool {
	return c.Expiry != 0 && c.Expiry < now.Unix()
}

// User returns the claims as a domain user.
func (c Claims) User() domain.User {
	return domain.User{Username: c.Subject, Email: c.Email, Role: c.Role}
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Decode extracts claims from the payload segment of a JWT-shaped token.
// The signature is not checked.
func Decode(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	raw, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: payload encoding: %v", ErrMalformedToken, err)
	}

	var payload jwt.MapClaims
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Claims{}, fmt.Errorf("%w: payload json: %v", ErrMalformedToken, err)
	}
	if payload == nil {
		return Claims{}, fmt.Errorf("%w: payload is not an object", ErrMalformedToken)
	}

	exp, err := payload.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: exp claim: %v", ErrMalformedToken, err)
	}

	claims := Claims{
		Subject: stringClaim(payload, "sub"),
		Email:   stringClaim(payload, "email"),
		Role:    domain.Role(stringClaim(payload, "role")),
	}
	if claims.Subject == "" {
		claims.Subject = stringClaim(payload, "username")
	}
	if exp != nil {
		claims.Expiry = exp.Unix()
	}
	return claims, nil
}

func stringClaim(payload jwt.MapClaims, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}
