package stubapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/ticket-portal/internal/api/dto"
	"github.com/spec-kit/ticket-portal/internal/auth"
	"github.com/spec-kit/ticket-portal/internal/domain"
)

type stubFixture struct {
	server *Server
	app    *fiber.App
	tokens *auth.TokenManager
	clock  time.Time
}

func newStubFixture(t *testing.T) *stubFixture {
	t.Helper()
	tokens := auth.NewTokenManager("stub-secret", 30)
	f := &stubFixture{tokens: tokens, clock: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	f.server = New(tokens, bcrypt.MinCost)
	f.server.now = func() time.Time {
		f.clock = f.clock.Add(time.Minute)
		return f.clock
	}
	require.NoError(t, f.server.AddUser("alice", "alice@example.com", "alice-password", domain.RoleEndUser))
	require.NoError(t, f.server.AddUser("bob", "bob@example.com", "bob-password", domain.RoleEndUser))
	require.NoError(t, f.server.AddUser("sam", "sam@example.com", "sam-password", domain.RoleSupport))
	f.app = f.server.App()
	return f
}

func (f *stubFixture) token(t *testing.T, username string) string {
	t.Helper()
	a := f.server.accounts[username]
	require.NotNil(t, a)
	token, err := f.tokens.GenerateToken(a.username, a.email, a.role)
	require.NoError(t, err)
	return token
}

func (f *stubFixture) call(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (f *stubFixture) createTicket(t *testing.T, token, title string, category domain.TicketCategory) dto.TicketResponse {
	t.Helper()
	var created dto.TicketResponse
	status := f.call(t, http.MethodPost, "/api/tickets", token, dto.CreateTicketRequest{
		Title: title, Description: title + " details", TicketCategory: category,
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	return created
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	f := newStubFixture(t)

	var resp dto.MessageResponse
	status := f.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Username: "carol", Email: "carol@example.com", Password: "carol-password",
	}, &resp)
	assert.Equal(t, http.StatusCreated, status)

	status = f.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Username: "carol2", Email: "carol@example.com", Password: "carol-password",
	}, &resp)
	assert.Equal(t, http.StatusConflict, status)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	f := newStubFixture(t)

	var resp dto.TokenResponse
	status := f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Login: "sam@example.com", Password: "sam-password"}, &resp)
	require.Equal(t, http.StatusOK, status)

	claims, err := f.tokens.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "sam", claims.Subject)
	assert.Equal(t, domain.RoleSupport, claims.Role)
}

func TestCreateTicketRequiresEndUser(t *testing.T) {
	f := newStubFixture(t)

	status := f.call(t, http.MethodPost, "/api/tickets", f.token(t, "sam"), dto.CreateTicketRequest{
		Title: "x", Description: "y", TicketCategory: domain.CategoryHardware,
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	created := f.createTicket(t, f.token(t, "alice"), "Printer jam", domain.CategoryHardware)
	assert.Equal(t, domain.TicketStateUnassigned, created.TicketState)
	assert.EqualValues(t, 1, created.TicketID)
}

func TestOwnTicketAccess(t *testing.T) {
	f := newStubFixture(t)
	f.createTicket(t, f.token(t, "alice"), "VPN down", domain.CategoryNetwork)

	path := "/api/tickets/my/1"
	assert.Equal(t, http.StatusOK, f.call(t, http.MethodGet, path, f.token(t, "alice"), nil, nil))
	assert.Equal(t, http.StatusForbidden, f.call(t, http.MethodGet, path, f.token(t, "bob"), nil, nil))
	assert.Equal(t, http.StatusNotFound, f.call(t, http.MethodGet, "/api/tickets/my/99", f.token(t, "alice"), nil, nil))

	var mine []dto.TicketResponse
	f.call(t, http.MethodGet, "/api/tickets/my", f.token(t, "bob"), nil, &mine)
	assert.Empty(t, mine)
}

func TestListTicketsFiltersAndSorts(t *testing.T) {
	f := newStubFixture(t)
	alice := f.token(t, "alice")
	f.createTicket(t, alice, "Laptop broken", domain.CategoryHardware)
	f.createTicket(t, alice, "Wifi drops", domain.CategoryNetwork)
	f.createTicket(t, alice, "Laptop charger", domain.CategoryHardware)
	require.True(t, f.server.AssignTicket(1, "sam", domain.TicketStateInProgress))

	sam := f.token(t, "sam")
	assert.Equal(t, http.StatusForbidden, f.call(t, http.MethodGet, "/api/tickets", alice, nil, nil))

	var all []dto.TicketListItemResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/tickets", sam, nil, &all))
	require.Len(t, all, 3)
	assert.EqualValues(t, 1, all[0].TicketID, "assignment bumped the update date")
	assert.Equal(t, "sam", all[0].AssignedSupportUsername)
	assert.Equal(t, "alice@example.com", all[0].CreatorEmail)

	var laptops []dto.TicketListItemResponse
	f.call(t, http.MethodGet, "/api/tickets?search=laptop&sort=createDate&direction=asc", sam, nil, &laptops)
	require.Len(t, laptops, 2)
	assert.EqualValues(t, 1, laptops[0].TicketID)
	assert.EqualValues(t, 3, laptops[1].TicketID)

	var network []dto.TicketListItemResponse
	f.call(t, http.MethodGet, "/api/tickets?category=NETWORK", sam, nil, &network)
	require.Len(t, network, 1)
	assert.Equal(t, "Wifi drops", network[0].Title)

	var inProgress []dto.TicketListItemResponse
	f.call(t, http.MethodGet, "/api/tickets?state=IN_PROGRESS", sam, nil, &inProgress)
	assert.Len(t, inProgress, 1)

	assert.Equal(t, http.StatusBadRequest, f.call(t, http.MethodGet, "/api/tickets?sort=title", sam, nil, nil))
	assert.Equal(t, http.StatusBadRequest, f.call(t, http.MethodGet, "/api/tickets?direction=sideways", sam, nil, nil))
}

func TestCommentShapes(t *testing.T) {
	f := newStubFixture(t)
	alice := f.token(t, "alice")
	f.createTicket(t, alice, "Outlook crash", domain.CategoryProgramsTools)

	status := f.call(t, http.MethodPost, "/api/tickets/1/comments", f.token(t, "sam"), dto.CreateCommentRequest{Comment: "Looking into it"}, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, http.StatusBadRequest, f.call(t, http.MethodPost, "/api/tickets/1/comments", alice, dto.CreateCommentRequest{Comment: "  "}, nil))
	assert.Equal(t, http.StatusForbidden, f.call(t, http.MethodPost, "/api/tickets/1/comments", f.token(t, "bob"), dto.CreateCommentRequest{Comment: "hi"}, nil))

	var thread []dto.CommentResponse
	f.call(t, http.MethodGet, "/api/tickets/1/comments", alice, nil, &thread)
	require.Len(t, thread, 1)
	assert.Equal(t, "sam", thread[0].AuthorUsername)
	assert.Empty(t, thread[0].CommentUserName)

	var detail dto.TicketResponse
	f.call(t, http.MethodGet, "/api/tickets/1", alice, nil, &detail)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "sam", detail.Comments[0].CommentUserName)
	assert.Equal(t, "sam@example.com", detail.Comments[0].CommentUserMail)
	assert.Empty(t, detail.Comments[0].AuthorUsername)
}

func TestAssignTicketClosesWithTimestamp(t *testing.T) {
	f := newStubFixture(t)
	f.createTicket(t, f.token(t, "alice"), "Account locked", domain.CategoryAccountManagement)

	assert.False(t, f.server.AssignTicket(42, "sam", domain.TicketStateClosed))
	require.True(t, f.server.AssignTicket(1, "sam", domain.TicketStateClosed))

	var all []dto.TicketListItemResponse
	f.call(t, http.MethodGet, "/api/tickets", f.token(t, "sam"), nil, &all)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].ClosedDate)
	assert.Equal(t, all[0].UpdateDate, *all[0].ClosedDate)
}

func TestAddUserRejectsDuplicateEmail(t *testing.T) {
	f := newStubFixture(t)
	err := f.server.AddUser("alice2", "ALICE@example.com", "pw-pw-pw-pw", domain.RoleEndUser)
	assert.ErrorIs(t, err, ErrUserExists)
}
