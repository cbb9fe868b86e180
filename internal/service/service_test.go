package service

import (
	"context"
	"encoding/base64"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/ticket-portal/internal/api/dto"
	"github.com/spec-kit/ticket-portal/internal/apiclient"
	"github.com/spec-kit/ticket-portal/internal/auth"
	"github.com/spec-kit/ticket-portal/internal/domain"
	"github.com/spec-kit/ticket-portal/internal/session"
	"github.com/spec-kit/ticket-portal/internal/stubapi"
	apperrors "github.com/spec-kit/ticket-portal/pkg/util/errorutil"
)

type fixture struct {
	store   *session.Store
	stub    *stubapi.Server
	auth    *AuthService
	tickets *TicketService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stub := stubapi.New(auth.NewTokenManager("service-secret", 30), bcrypt.MinCost)
	require.NoError(t, stub.AddUser("alice", "alice@example.com", "alice-password", domain.RoleEndUser))
	require.NoError(t, stub.AddUser("sam", "sam@example.com", "sam-password", domain.RoleSupport))
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)

	store := session.NewStore(session.NewMemorySlot(), nil, nil)
	client := apiclient.New(store, apiclient.Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	return &fixture{
		store:   store,
		stub:    stub,
		auth:    NewAuthService(client, store),
		tickets: NewTicketService(client, store),
	}
}

func (f *fixture) login(t *testing.T, user string) {
	t.Helper()
	_, err := f.auth.Login(context.Background(), user, user+"-password")
	require.NoError(t, err)
}

func expiredToken() string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"HS256"}`)) + "." +
		enc.EncodeToString([]byte(`{"sub":"alice","role":"ENDUSER","exp":1}`)) + ".c2ln"
}

func TestLoginValidatesInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Login(context.Background(), "  ", "")
	require.Error(t, err)
	var derr *apperrors.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "VALIDATION_FAILED", derr.Code)
	assert.Contains(t, derr.Details, "login")
	assert.Contains(t, derr.Details, "password")
	assert.False(t, f.store.IsLoggedIn())
}

func TestLoginReturnsClaims(t *testing.T) {
	f := newFixture(t)

	claims, err := f.auth.Login(context.Background(), "alice@example.com", "alice-password")
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, domain.RoleEndUser, claims.Role)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Register(context.Background(), dto.RegisterRequest{Username: "carol", Email: "nope", Password: "short"})
	var derr *apperrors.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Details, "email")
	assert.Contains(t, derr.Details, "password")

	msg, err := f.auth.Register(context.Background(), dto.RegisterRequest{Username: " carol ", Email: "carol@example.com", Password: "carol-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg)

	_, err = f.auth.Login(context.Background(), "carol", "carol-password")
	assert.NoError(t, err)
}

func TestChangePasswordRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.ChangePassword(ctx, dto.ChangePasswordRequest{CurrentPassword: "x", NewPassword: "new-password", ConfirmPassword: "new-password"})
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	f.login(t, "alice")
	_, err = f.auth.ChangePassword(ctx, dto.ChangePasswordRequest{CurrentPassword: "alice-password", NewPassword: "new-password", ConfirmPassword: "other-password"})
	var derr *apperrors.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "Passwords do not match", derr.Details["confirmPassword"])

	_, err = f.auth.ChangePassword(ctx, dto.ChangePasswordRequest{CurrentPassword: "alice-password", NewPassword: "short", ConfirmPassword: "short"})
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Details, "newPassword")

	_, err = f.auth.ChangePassword(ctx, dto.ChangePasswordRequest{CurrentPassword: "alice-password", NewPassword: "new-password", ConfirmPassword: "new-password"})
	require.NoError(t, err)
	assert.True(t, f.store.IsLoggedIn())
}

func TestLogoutRunsCallback(t *testing.T) {
	f := newFixture(t)
	f.login(t, "alice")

	called := false
	require.NoError(t, f.auth.Logout(func() { called = true }))
	assert.True(t, called)
	assert.False(t, f.store.IsLoggedIn())
}

func TestTicketCallsRequireSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tickets.MyTickets(ctx, "")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	require.NoError(t, f.store.SetToken(expiredToken()))
	_, err = f.tickets.MyTickets(ctx, "")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
	_, stored := f.store.Token()
	assert.False(t, stored, "expired token is cleared by the session check")
}

func TestCreateTicketRoleAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tickets.CreateTicket(ctx, dto.CreateTicketRequest{Title: " ", TicketCategory: "BOGUS"})
	var derr *apperrors.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Len(t, derr.Details, 3)

	valid := dto.CreateTicketRequest{Title: "Screen flicker", Description: "Since the update", TicketCategory: domain.CategoryHardware}
	f.login(t, "sam")
	_, err = f.tickets.CreateTicket(ctx, valid)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	f.login(t, "alice")
	ticket, err := f.tickets.CreateTicket(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, "Screen flicker", ticket.Title)
	assert.Equal(t, domain.TicketStateUnassigned, ticket.State)
}

func TestMyTicketsFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "alice")
	for _, title := range []string{"One", "Two", "Three"} {
		_, err := f.tickets.CreateTicket(ctx, dto.CreateTicketRequest{Title: title, Description: "d", TicketCategory: domain.CategoryOther})
		require.NoError(t, err)
	}
	require.True(t, f.stub.AssignTicket(2, "sam", domain.TicketStateInProgress))

	all, err := f.tickets.MyTickets(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	progress, err := f.tickets.MyTickets(ctx, "in_progress")
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, "Two", progress[0].Title)
	assert.Equal(t, "sam", progress[0].AssignedSupport)

	one, err := f.tickets.MyTicket(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "One", one.Title)
}

func TestOverviewIsStaffOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "alice")
	_, err := f.tickets.CreateTicket(ctx, dto.CreateTicketRequest{Title: "Mail bounce", Description: "d", TicketCategory: domain.CategoryNetwork})
	require.NoError(t, err)

	_, err = f.tickets.Overview(ctx, TicketQuery{})
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	f.login(t, "sam")
	list, err := f.tickets.Overview(ctx, TicketQuery{State: "All", Category: "NETWORK"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].CreatorUsername)

	_, err = f.tickets.Overview(ctx, TicketQuery{Sort: "title"})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestTicketThreadAndComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "alice")
	_, err := f.tickets.CreateTicket(ctx, dto.CreateTicketRequest{Title: "Password reset", Description: "d", TicketCategory: domain.CategoryAccountManagement})
	require.NoError(t, err)

	_, err = f.tickets.AddComment(ctx, 1, "   ")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	added, err := f.tickets.AddComment(ctx, 1, "  still waiting  ")
	require.NoError(t, err)
	assert.Equal(t, "alice", added.Author)
	assert.Equal(t, "still waiting", added.Text)

	f.login(t, "sam")
	_, err = f.tickets.AddComment(ctx, 1, "on it")
	require.NoError(t, err)

	ticket, err := f.tickets.Ticket(ctx, 1)
	require.NoError(t, err)
	require.Len(t, ticket.Comments, 2)
	assert.Equal(t, "alice", ticket.Comments[0].Author)
	assert.Equal(t, "sam", ticket.Comments[1].Author)
}
