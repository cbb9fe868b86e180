package stubapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-portal/internal/api/dto"
	"github.com/spec-kit/ticket-portal/internal/auth"
	"github.com/spec-kit/ticket-portal/internal/domain"
)

func (s *Server) register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return message(c, fiber.StatusBadRequest, "invalid payload")
	}
	errs := map[string]string{}
	if strings.TrimSpace(req.Username) == "" {
		errs["username"] = "Username is required"
	}
	if !strings.Contains(req.Email, "@") {
		errs["email"] = "Email must be valid"
	}
	if len(req.Password) < minPasswordLength {
		errs["password"] = "Password must be at least 8 characters"
	}
	if len(errs) > 0 {
		return validationFailed(c, errs)
	}

	if err := s.AddUser(req.Username, req.Email, req.Password, domain.RoleEndUser); err != nil {
		if err == ErrUserExists {
			return message(c, fiber.StatusConflict, "Username or email already taken")
		}
		return message(c, fiber.StatusInternalServerError, "registration failed")
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "User registered successfully"})
}

func (s *Server) login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return message(c, fiber.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	acct := s.findLocked(req.Login)
	s.mu.Unlock()
	if acct == nil || auth.ComparePassword(acct.passwordHash, req.Password) != nil {
		return message(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := s.tokens.GenerateToken(acct.username, acct.email, acct.role)
	if err != nil {
		return message(c, fiber.StatusInternalServerError, "token generation failed")
	}
	return c.JSON(dto.TokenResponse{Token: token})
}

func (s *Server) changePassword(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return message(c, fiber.StatusBadRequest, "invalid payload")
	}
	if req.NewPassword != req.ConfirmPassword {
		return validationFailed(c, map[string]string{"confirmPassword": "Passwords do not match"})
	}
	if len(req.NewPassword) < minPasswordLength {
		return validationFailed(c, map[string]string{"newPassword": "Password must be at least 8 characters"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct := s.accounts[principal.Username]
	if acct == nil {
		return message(c, fiber.StatusUnauthorized, "authentication failed")
	}
	if auth.ComparePassword(acct.passwordHash, req.CurrentPassword) != nil {
		return message(c, fiber.StatusUnauthorized, "Invalid current password")
	}
	hash, err := auth.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return message(c, fiber.StatusInternalServerError, "password change failed")
	}
	acct.passwordHash = hash
	return c.JSON(dto.MessageResponse{Message: "Password changed successfully"})
}
