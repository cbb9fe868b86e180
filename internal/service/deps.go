package service

import (
	"context"
	"net/url"

	"github.com/spec-kit/ticket-portal/internal/api/dto"
	"github.com/spec-kit/ticket-portal/internal/session"
)

// SessionState is the read side of the session store views rely on.
type SessionState interface {
	IsLoggedIn() bool
	CurrentUser() (session.Claims, bool)
	Logout(afterLogout func()) error
}

// AuthAPI covers the account endpoints of the ticket API.
type AuthAPI interface {
	Login(ctx context.Context, login, password string) (string, error)
	Register(ctx context.Context, req dto.RegisterRequest) (string, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (string, error)
}

// TicketAPI covers the ticket endpoints of the ticket API.
type TicketAPI interface {
	CreateTicket(ctx context.Context, req dto.CreateTicketRequest) (*dto.TicketResponse, error)
	MyTickets(ctx context.Context) ([]dto.TicketResponse, error)
	MyTicket(ctx context.Context, id int64) (*dto.TicketResponse, error)
	Tickets(ctx context.Context, query url.Values) ([]dto.TicketListItemResponse, error)
	Ticket(ctx context.Context, id int64) (*dto.TicketResponse, error)
	Comments(ctx context.Context, id int64) ([]dto.CommentResponse, error)
	AddComment(ctx context.Context, id int64, text string) (*dto.CommentResponse, error)
}
