package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spec-kit/ticket-portal/internal/api/dto"
	apperrors "github.com/spec-kit/ticket-portal/pkg/util/errorutil"
)

// Login exchanges credentials for a token and stores it in the session.
func (c *Client) Login(ctx context.Context, login, password string) (string, error) {
	var resp dto.TokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/login",
		route:  "/api/auth/login",
		body:   dto.LoginRequest{Login: login, Password: password},
		public: true,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", apperrors.NewInternalError(errNoToken)
	}
	if err := c.session.SetToken(resp.Token); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register creates an end-user account. It does not log in.
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (string, error) {
	var resp dto.MessageResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/register",
		route:  "/api/auth/register",
		body:   req,
		public: true,
	}, &resp)
	return resp.Message, err
}

// ChangePassword updates the signed-in user's password. A 401 caused by a
// wrong current password keeps the session; only an authentication failure clears it.
func (c *Client) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (string, error) {
	var resp dto.MessageResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/change-password",
		route:  "/api/auth/change-password",
		body:   req,
		keepSession: func(e *apperrors.DomainError) bool {
			return !strings.Contains(strings.ToLower(e.Message), "authentication")
		},
	}, &resp)
	return resp.Message, err
}

// CreateTicket files a new ticket for the signed-in user.
func (c *Client) CreateTicket(ctx context.Context, req dto.CreateTicketRequest) (*dto.TicketResponse, error) {
	var resp dto.TicketResponse
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/tickets",
		route:  "/api/tickets",
		body:   req,
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MyTickets lists tickets created by the signed-in user.
func (c *Client) MyTickets(ctx context.Context) ([]dto.TicketResponse, error) {
	var resp []dto.TicketResponse
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/tickets/my",
		route:  "/api/tickets/my",
	}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// MyTicket loads one of the signed-in user's tickets.
func (c *Client) MyTicket(ctx context.Context, id int64) (*dto.TicketResponse, error) {
	var resp dto.TicketResponse
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/tickets/my/" + strconv.FormatInt(id, 10),
		route:  "/api/tickets/my/:id",
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Tickets lists all tickets matching query. Support roles only.
func (c *Client) Tickets(ctx context.Context, query url.Values) ([]dto.TicketListItemResponse, error) {
	var resp []dto.TicketListItemResponse
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/tickets",
		route:  "/api/tickets",
		query:  query,
	}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Ticket loads any ticket the caller may see, with embedded comments.
func (c *Client) Ticket(ctx context.Context, id int64) (*dto.TicketResponse, error) {
	var resp dto.TicketResponse
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/tickets/" + strconv.FormatInt(id, 10),
		route:  "/api/tickets/:id",
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Comments lists the comment thread of a ticket.
func (c *Client) Comments(ctx context.Context, id int64) ([]dto.CommentResponse, error) {
	var resp []dto.CommentResponse
	if err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/tickets/" + strconv.FormatInt(id, 10) + "/comments",
		route:  "/api/tickets/:id/comments",
	}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// AddComment appends a comment to a ticket thread.
func (c *Client) AddComment(ctx context.Context, id int64, text string) (*dto.CommentResponse, error) {
	var resp dto.CommentResponse
	if err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/tickets/" + strconv.FormatInt(id, 10) + "/comments",
		route:  "/api/tickets/:id/comments",
		body:   dto.CreateCommentRequest{Comment: text},
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
