package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-portal/internal/api/dto"
	"github.com/spec-kit/ticket-portal/internal/service"
	"github.com/spec-kit/ticket-portal/internal/views"
	apperrors "github.com/spec-kit/ticket-portal/pkg/util/errorutil"
)

// SessionHandler exposes login state and the account forms.
type SessionHandler struct {
	auth   *service.AuthService
	navbar *views.Navbar
}

// NewSessionHandler constructs handler.
func NewSessionHandler(authService *service.AuthService, navbar *views.Navbar) *SessionHandler {
	return &SessionHandler{auth: authService, navbar: navbar}
}

// State GET /session.
func (h *SessionHandler) State(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.navbar.State()})
}

// Login POST /session/login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if _, err := h.auth.Login(c.UserContext(), req.Login, req.Password); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.navbar.State(), "redirect": "/"})
}

// Register POST /session/register.
func (h *SessionHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.auth.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg, "redirect": "/login"})
}

// ChangePassword POST /session/password.
func (h *SessionHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.auth.ChangePassword(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": msg})
}

// Logout DELETE /session.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	redirect := ""
	if err := h.auth.Logout(func() { redirect = "/" }); err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"message": "Logged out", "redirect": redirect})
}
