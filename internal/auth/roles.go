package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-portal/internal/domain"
)

// RequireRole ensures the principal holds one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return unauthorized(c, "authentication required")
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "insufficient role"})
		}
		return c.Next()
	}
}
