package stubapi

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/ticket-portal/internal/api/dto"
	"github.com/spec-kit/ticket-portal/internal/auth"
	"github.com/spec-kit/ticket-portal/internal/domain"
)

const minPasswordLength = 8

// ErrUserExists is returned when seeding a duplicate username or email.
var ErrUserExists = errors.New("user already exists")

// Server holds the in-memory state behind the stub routes.
type Server struct {
	mu         sync.Mutex
	tokens     *auth.TokenManager
	bcryptCost int
	accounts   map[string]*account
	tickets    []*ticket
	nextID     int64
	now        func() time.Time
}

// New builds an empty stub server.
func New(tokens *auth.TokenManager, bcryptCost int) *Server {
	return &Server{
		tokens:     tokens,
		bcryptCost: bcryptCost,
		accounts:   make(map[string]*account),
		now:        time.Now,
	}
}

// AddUser seeds an account with the given role.
func (s *Server) AddUser(username, email, password string, role domain.Role) error {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findLocked(username) != nil || s.findLocked(email) != nil {
		return ErrUserExists
	}
	s.accounts[username] = &account{username: username, email: email, passwordHash: hash, role: role}
	return nil
}

// AssignTicket marks a ticket as taken by a support user.
func (s *Server) AssignTicket(id int64, supportUser string, state domain.TicketState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.ticketLocked(id)
	if t == nil {
		return false
	}
	t.assignee = supportUser
	t.state = state
	t.updatedAt = s.now()
	if state == domain.TicketStateClosed {
		closed := t.updatedAt
		t.closedAt = &closed
	}
	return true
}

// App returns a fiber app serving the upstream routes under /api, with
// middleware installed ahead of them.
func (s *Server) App(middleware ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	for _, m := range middleware {
		app.Use(m)
	}
	authn := auth.NewAuthMiddleware(s.tokens)
	staff := auth.RequireRole(domain.RoleSupport, domain.RoleAdmin)
	anyRole := auth.RequireRole(domain.RoleEndUser, domain.RoleSupport, domain.RoleAdmin)

	api := app.Group("/api")
	api.Post("/auth/register", s.register)
	api.Post("/auth/login", s.login)
	api.Post("/auth/change-password", authn.Handle, s.changePassword)

	tickets := api.Group("/tickets", authn.Handle)
	tickets.Post("", auth.RequireRole(domain.RoleEndUser), s.createTicket)
	tickets.Get("/my", s.myTickets)
	tickets.Get("/my/:id", s.myTicket)
	tickets.Get("", staff, s.listTickets)
	tickets.Get("/:id", anyRole, s.ticketDetail)
	tickets.Get("/:id/comments", anyRole, s.listComments)
	tickets.Post("/:id/comments", anyRole, s.addComment)
	return app
}

func (s *Server) findLocked(login string) *account {
	if a, ok := s.accounts[login]; ok {
		return a
	}
	for _, a := range s.accounts {
		if strings.EqualFold(a.email, login) {
			return a
		}
	}
	return nil
}

func (s *Server) ticketLocked(id int64) *ticket {
	for _, t := range s.tickets {
		if t.id == id {
			return t
		}
	}
	return nil
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.MessageResponse{Message: msg})
}

func validationFailed(c *fiber.Ctx, errs map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.MessageResponse{Message: "Validation failed", Errors: errs})
}

// Handler exposes the stub as a net/http handler, for httptest servers.
func (s *Server) Handler() http.Handler {
	return adaptor.FiberApp(s.App())
}
