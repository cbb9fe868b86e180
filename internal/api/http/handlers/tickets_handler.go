package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-portal/internal/api/dto"
	"github.com/spec-kit/ticket-portal/internal/domain"
	"github.com/spec-kit/ticket-portal/internal/service"
	apperrors "github.com/spec-kit/ticket-portal/pkg/util/errorutil"
)

// TicketsHandler serves the ticket views.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketView(ticket)})
}

// MyTickets GET /tickets/my?state=.
func (h *TicketsHandler) MyTickets(c *fiber.Ctx) error {
	tickets, err := h.service.MyTickets(c.UserContext(), c.Query("state"))
	if err != nil {
		return err
	}
	items := make([]dto.PortalTicket, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, ticketView(t))
	}
	return c.JSON(fiber.Map{"data": items})
}

// MyTicket GET /tickets/my/:id.
func (h *TicketsHandler) MyTicket(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.MyTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketView(ticket)})
}

// Overview GET /tickets.
func (h *TicketsHandler) Overview(c *fiber.Ctx) error {
	rows, err := h.service.Overview(c.UserContext(), service.TicketQuery{
		Search:    c.Query("search"),
		State:     c.Query("state"),
		Category:  c.Query("category"),
		Sort:      c.Query("sort"),
		Direction: c.Query("direction"),
	})
	if err != nil {
		return err
	}
	items := make([]dto.PortalTicketRow, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.PortalTicketRow{
			ID:              r.ID,
			Title:           r.Title,
			State:           string(r.State),
			Category:        string(r.Category),
			CategoryLabel:   r.Category.DisplayName(),
			CreatedAt:       r.CreatedAt,
			UpdatedAt:       r.UpdatedAt,
			ClosedAt:        r.ClosedAt,
			Creator:         r.CreatorUsername,
			CreatorEmail:    r.CreatorEmail,
			AssignedSupport: r.AssignedSupport,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Ticket GET /tickets/:id.
func (h *TicketsHandler) Ticket(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.Ticket(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketView(ticket)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.service.AddComment(c.UserContext(), id, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": commentView(comment)})
}

func ticketID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid ticket id", map[string]any{"id": c.Params("id")})
	}
	return int64(id), nil
}

func ticketView(t domain.Ticket) dto.PortalTicket {
	view := dto.PortalTicket{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		State:           string(t.State),
		Category:        string(t.Category),
		CategoryLabel:   t.Category.DisplayName(),
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		AssignedSupport: t.AssignedSupport,
	}
	for _, cm := range t.Comments {
		view.Comments = append(view.Comments, commentView(cm))
	}
	return view
}

func commentView(c domain.Comment) dto.PortalComment {
	return dto.PortalComment{Author: c.Author, Text: c.Text, CreatedAt: c.CreatedAt}
}
