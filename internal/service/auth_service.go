package service

import (
	"context"
	"strings"

	"github.com/spec-kit/ticket-portal/internal/api/dto"
	"github.com/spec-kit/ticket-portal/internal/session"
	apperrors "github.com/spec-kit/ticket-portal/pkg/util/errorutil"
)

// MinPasswordLength is the shortest password the forms accept.
const MinPasswordLength = 8

// AuthService coordinates registration, login and password flows.
type AuthService struct {
	api     AuthAPI
	session SessionState
}

// NewAuthService builds the service.
func NewAuthService(api AuthAPI, sessionState SessionState) *AuthService {
	return &AuthService{api: api, session: sessionState}
}

// Login authenticates with a username or email and returns the new session's claims.
func (s *AuthService) Login(ctx context.Context, login, password string) (session.Claims, error) {
	errs := map[string]any{}
	if strings.TrimSpace(login) == "" {
		errs["login"] = "Username or email is required"
	}
	if password == "" {
		errs["password"] = "Password is required"
	}
	if len(errs) > 0 {
		return session.Claims{}, apperrors.NewValidationError("Please fix the validation errors", errs)
	}

	if _, err := s.api.Login(ctx, strings.TrimSpace(login), password); err != nil {
		return session.Claims{}, err
	}
	claims, ok := s.session.CurrentUser()
	if !ok {
		return session.Claims{}, apperrors.NewUnauthorized("login returned an unreadable token")
	}
	return claims, nil
}

// Register creates an end-user account and returns the server's acknowledgement.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (string, error) {
	errs := map[string]any{}
	if strings.TrimSpace(req.Username) == "" {
		errs["username"] = "Username is required"
	}
	if !strings.Contains(req.Email, "@") {
		errs["email"] = "A valid email is required"
	}
	if len(req.Password) < MinPasswordLength {
		errs["password"] = "Password must be at least 8 characters"
	}
	if len(errs) > 0 {
		return "", apperrors.NewValidationError("Please fix the validation errors", errs)
	}
	req.Username = strings.TrimSpace(req.Username)
	return s.api.Register(ctx, req)
}

// ChangePassword updates the signed-in user's password.
func (s *AuthService) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (string, error) {
	if !s.session.IsLoggedIn() {
		return "", apperrors.NewUnauthorized("login required")
	}
	errs := map[string]any{}
	if req.CurrentPassword == "" {
		errs["currentPassword"] = "Current password is required"
	}
	switch {
	case req.NewPassword == "":
		errs["newPassword"] = "New password is required"
	case len(req.NewPassword) < MinPasswordLength:
		errs["newPassword"] = "Password must be at least 8 characters"
	}
	switch {
	case req.ConfirmPassword == "":
		errs["confirmPassword"] = "Please confirm your new password"
	case req.ConfirmPassword != req.NewPassword:
		errs["confirmPassword"] = "Passwords do not match"
	}
	if len(errs) > 0 {
		return "", apperrors.NewValidationError("Please fix the validation errors", errs)
	}
	return s.api.ChangePassword(ctx, req)
}

// Logout clears the session and runs afterLogout.
func (s *AuthService) Logout(afterLogout func()) error {
	return s.session.Logout(afterLogout)
}
