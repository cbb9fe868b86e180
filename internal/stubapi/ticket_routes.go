package stubapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-portal/internal/api/dto"
	"github.com/spec-kit/ticket-portal/internal/auth"
	"github.com/spec-kit/ticket-portal/internal/domain"
)

func (s *Server) createTicket(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return message(c, fiber.StatusBadRequest, "invalid payload")
	}
	errs := map[string]string{}
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
		return validationFailed(c, errs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := s.now()
	t := &ticket{
		id:          s.nextID,
		owner:       principal.Username,
		title:       req.Title,
		description: req.Description,
		state:       domain.TicketStateUnassigned,
		category:    req.TicketCategory,
		createdAt:   now,
		updatedAt:   now,
	}
	s.tickets = append(s.tickets, t)
	return c.Status(fiber.StatusCreated).JSON(toTicketResponse(t, false))
}

func (s *Server) myTickets(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]dto.TicketResponse, 0)
	for _, t := range s.tickets {
		if t.owner == principal.Username {
			out = append(out, toTicketResponse(t, false))
		}
	}
	return c.JSON(out)
}

func (s *Server) myTicket(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil {
		return message(c, fiber.StatusBadRequest, "invalid ticket id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.ticketLocked(int64(id))
	if t == nil {
		return message(c, fiber.StatusNotFound, "Ticket not found")
	}
	if t.owner != principal.Username {
		return message(c, fiber.StatusForbidden, "You can only view your own tickets")
	}
	return c.JSON(toTicketResponse(t, true))
}

func (s *Server) listTickets(c *fiber.Ctx) error {
	filter := listFilter{
		search:   strings.TrimSpace(c.Query("search")),
		state:    domain.TicketState(c.Query("state")),
		category: domain.TicketCategory(c.Query("category")),
		sort:     c.Query("sort", "updateDate"),
	}
	if filter.sort != "updateDate" && filter.sort != "createDate" {
		return message(c, fiber.StatusBadRequest, "Invalid sort field")
	}
	switch strings.ToUpper(c.Query("direction", "DESC")) {
	case "ASC":
		filter.ascending = true
	case "DESC":
	default:
		return message(c, fiber.StatusBadRequest, "Invalid sort direction")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]*ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		if filter.matches(t) {
			matched = append(matched, t)
		}
	}
	sortTickets(matched, filter.sort, filter.ascending)

	out := make([]dto.TicketListItemResponse, 0, len(matched))
	for _, t := range matched {
		out = append(out, dto.TicketListItemResponse{
			TicketID:                t.id,
			Title:                   t.title,
			TicketState:             t.state,
			TicketCategory:          t.category,
			CreateDate:              t.createdAt,
			UpdateDate:              t.updatedAt,
			ClosedDate:              t.closedAt,
			CreatorUsername:         t.owner,
			CreatorEmail:            s.accounts[t.owner].emailOrEmpty(),
			AssignedSupportUsername: t.assignee,
		})
	}
	return c.JSON(out)
}

func (s *Server) ticketDetail(c *fiber.Ctx) error {
	t, err := s.visibleTicket(c)
	if err != nil || t == nil {
		return err
	}
	return c.JSON(toTicketResponse(t, true))
}

func (s *Server) listComments(c *fiber.Ctx) error {
	t, err := s.visibleTicket(c)
	if err != nil || t == nil {
		return err
	}
	out := make([]dto.CommentResponse, 0, len(t.comments))
	for _, cm := range t.comments {
		out = append(out, dto.CommentResponse{Comment: cm.text, CommentDate: cm.createdAt, AuthorUsername: cm.author})
	}
	return c.JSON(out)
}

func (s *Server) addComment(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return message(c, fiber.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Comment) == "" {
		return validationFailed(c, map[string]string{"comment": "Comment is required"})
	}

	t, err := s.visibleTicket(c)
	if err != nil || t == nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cm := comment{author: principal.Username, email: principal.Email, text: req.Comment, createdAt: s.now()}
	t.comments = append(t.comments, cm)
	t.updatedAt = cm.createdAt
	return c.Status(fiber.StatusCreated).JSON(dto.CommentResponse{
		TicketID:       t.id,
		Comment:        cm.text,
		CommentDate:    cm.createdAt,
		AuthorUsername: cm.author,
	})
}

// visibleTicket resolves :id for staff or the ticket owner. When it returns a
// nil ticket the response has already been written.
func (s *Server) visibleTicket(c *fiber.Ctx) (*ticket, error) {
	principal, _ := auth.PrincipalFromContext(c)
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, message(c, fiber.StatusBadRequest, "invalid ticket id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.ticketLocked(int64(id))
	if t == nil {
		return nil, message(c, fiber.StatusNotFound, "Ticket not found")
	}
	if !principal.Role.IsStaff() && t.owner != principal.Username {
		return nil, message(c, fiber.StatusForbidden, "Access to this ticket is not allowed")
	}
	return t, nil
}

func (a *account) emailOrEmpty() string {
	if a == nil {
		return ""
	}
	return a.email
}

func toTicketResponse(t *ticket, withComments bool) dto.TicketResponse {
	resp := dto.TicketResponse{
		TicketID:        t.id,
		Title:           t.title,
		Description:     t.description,
		TicketState:     t.state,
		TicketCategory:  t.category,
		CreateDate:      t.createdAt,
		UpdateDate:      t.updatedAt,
		AssignedSupport: t.assignee,
	}
	if withComments {
		for _, cm := range t.comments {
			resp.Comments = append(resp.Comments, dto.CommentResponse{
				TicketID:        t.id,
				Comment:         cm.text,
				CommentDate:     cm.createdAt,
				CommentUserName: cm.author,
				CommentUserMail: cm.email,
			})
		}
	}
	return resp
}
