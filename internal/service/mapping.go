package service

import (
	"github.com/spec-kit/ticket-portal/internal/api/dto"
	"github.com/spec-kit/ticket-portal/internal/domain"
)

func toTicket(r *dto.TicketResponse) domain.Ticket {
	return domain.Ticket{
		ID:              r.TicketID,
		Title:           r.Title,
		Description:     r.Description,
		State:           r.TicketState,
		Category:        r.TicketCategory,
		CreatedAt:       r.CreateDate,
		UpdatedAt:       r.UpdateDate,
		AssignedSupport: r.AssignedSupport,
		Comments:        NormalizeComments(r.TicketID, r.Comments),
	}
}

func toSummary(r dto.TicketListItemResponse) domain.TicketSummary {
	return domain.TicketSummary{
		ID:              r.TicketID,
		Title:           r.Title,
		State:           r.TicketState,
		Category:        r.TicketCategory,
		CreatedAt:       r.CreateDate,
		UpdatedAt:       r.UpdateDate,
		ClosedAt:        r.ClosedDate,
		CreatorUsername: r.CreatorUsername,
		CreatorEmail:    r.CreatorEmail,
		AssignedSupport: r.AssignedSupportUsername,
	}
}
