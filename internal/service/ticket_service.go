package service

import (
	"context"
	"strings"

	"github.com/spec-kit/ticket-portal/internal/api/dto"
	"github.com/spec-kit/ticket-portal/internal/domain"
	"github.com/spec-kit/ticket-portal/internal/session"
	apperrors "github.com/spec-kit/ticket-portal/pkg/util/errorutil"
)

// TicketService backs the ticket views. Every call re-checks the session
// first, so an expired token turns into UNAUTHORIZED before any request is sent.
type TicketService struct {
	api     TicketAPI
	session SessionState
}

// NewTicketService builds the service.
func NewTicketService(api TicketAPI, sessionState SessionState) *TicketService {
	return &TicketService{api: api, session: sessionState}
}

func (s *TicketService) requireSession() (session.Claims, error) {
	if !s.session.IsLoggedIn() {
		return session.Claims{}, apperrors.NewUnauthorized("login required")
	}
	claims, ok := s.session.CurrentUser()
	if !ok {
		return session.Claims{}, apperrors.NewUnauthorized("login required")
	}
	return claims, nil
}

// CreateTicket files a ticket. Only end users may create tickets.
func (s *TicketService) CreateTicket(ctx context.Context, req dto.CreateTicketRequest) (domain.Ticket, error) {
	errs := map[string]any{}
	if strings.TrimSpace(req.Title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(req.Description) == "" {
		errs["description"] = "Description is required"
	}
	if !req.TicketCategory.Valid() {
		errs["ticketCategory"] = "Category is required"
	}
	if len(errs) > 0 {
		return domain.Ticket{}, apperrors.NewValidationError("Please fix the validation errors", errs)
	}

	claims, err := s.requireSession()
	if err != nil {
		return domain.Ticket{}, err
	}
	if !claims.Role.CanCreateTickets() {
		return domain.Ticket{}, apperrors.NewForbidden("You are not authorized to create tickets.")
	}

	created, err := s.api.CreateTicket(ctx, req)
	if err != nil {
		return domain.Ticket{}, err
	}
	return toTicket(created), nil
}

// MyTickets lists the user's tickets, keeping only those in state unless it is empty or ALL.
func (s *TicketService) MyTickets(ctx context.Context, state string) ([]domain.Ticket, error) {
	if _, err := s.requireSession(); err != nil {
		return nil, err
	}
	resp, err := s.api.MyTickets(ctx)
	if err != nil {
		return nil, err
	}
	filter := domain.TicketState(normalizeFilter(state))
	out := make([]domain.Ticket, 0, len(resp))
	for i := range resp {
		if filter != "" && resp[i].TicketState != filter {
			continue
		}
		out = append(out, toTicket(&resp[i]))
	}
	return out, nil
}

// MyTicket loads one of the user's own tickets.
func (s *TicketService) MyTicket(ctx context.Context, id int64) (domain.Ticket, error) {
	if _, err := s.requireSession(); err != nil {
		return domain.Ticket{}, err
	}
	resp, err := s.api.MyTicket(ctx, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	return toTicket(resp), nil
}

// Overview lists all tickets for support staff.
func (s *TicketService) Overview(ctx context.Context, q TicketQuery) ([]domain.TicketSummary, error) {
	claims, err := s.requireSession()
	if err != nil {
		return nil, err
	}
	if !claims.Role.IsStaff() {
		return nil, apperrors.NewForbidden("support role required")
	}
	values, err := q.Values()
	if err != nil {
		return nil, err
	}
	resp, err := s.api.Tickets(ctx, values)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TicketSummary, 0, len(resp))
	for _, r := range resp {
		out = append(out, toSummary(r))
	}
	return out, nil
}

// Ticket loads a ticket with its comment thread. When the detail payload
// embeds no comments the thread endpoint is consulted.
func (s *TicketService) Ticket(ctx context.Context, id int64) (domain.Ticket, error) {
	if _, err := s.requireSession(); err != nil {
		return domain.Ticket{}, err
	}
	resp, err := s.api.Ticket(ctx, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	ticket := toTicket(resp)
	if len(resp.Comments) == 0 {
		thread, err := s.api.Comments(ctx, id)
		if err != nil {
			return domain.Ticket{}, err
		}
		ticket.Comments = NormalizeComments(id, thread)
	}
	return ticket, nil
}

// AddComment posts a comment and returns it normalized.
func (s *TicketService) AddComment(ctx context.Context, id int64, text string) (domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Comment{}, apperrors.NewValidationError("Comment is required", map[string]any{"comment": "Comment is required"})
	}
	if _, err := s.requireSession(); err != nil {
		return domain.Comment{}, err
	}
	resp, err := s.api.AddComment(ctx, id, text)
	if err != nil {
		return domain.Comment{}, err
	}
	normalized := NormalizeComments(id, []dto.CommentResponse{*resp})
	if len(normalized) == 0 {
		return domain.Comment{TicketID: id, Author: unknownAuthor, Text: text}, nil
	}
	return normalized[0], nil
}
