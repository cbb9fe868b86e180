package dto

import (
	"time"

	"github.com/spec-kit/ticket-portal/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	TicketCategory domain.TicketCategory `json:"ticketCategory"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Comment string `json:"comment"`
}

// TicketResponse is the upstream ticket detail shape.
type TicketResponse struct {
	TicketID        int64                 `json:"ticketId"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	TicketState     domain.TicketState    `json:"ticketState"`
	TicketCategory  domain.TicketCategory `json:"ticketCategory"`
	CreateDate      time.Time             `json:"createDate"`
	UpdateDate      time.Time             `json:"updateDate"`
	AssignedSupport string                `json:"assignedSupport,omitempty"`
	Comments        []CommentResponse     `json:"comments,omitempty"`
}

// TicketListItemResponse is the upstream overview row.
type TicketListItemResponse struct {
	TicketID                int64                 `json:"ticketId"`
	Title                   string                `json:"title"`
	TicketState             domain.TicketState    `json:"ticketState"`
	TicketCategory          domain.TicketCategory `json:"ticketCategory"`
	CreateDate              time.Time             `json:"createDate"`
	UpdateDate              time.Time             `json:"updateDate"`
	ClosedDate              *time.Time            `json:"closedDate,omitempty"`
	CreatorUsername         string                `json:"creatorUsername,omitempty"`
	CreatorEmail            string                `json:"creatorEmail,omitempty"`
	AssignedSupportUsername string                `json:"assignedSupportUsername,omitempty"`
}

// CommentResponse covers both comment shapes the upstream emits: the embedded
// ticket-detail form (commentUser*) and the thread endpoint form (authorUsername).
type CommentResponse struct {
	TicketID        int64     `json:"ticketId,omitempty"`
	Comment         string    `json:"comment"`
	CommentDate     time.Time `json:"commentDate"`
	AuthorUsername  string    `json:"authorUsername,omitempty"`
	CommentUserName string    `json:"commentUserName,omitempty"`
	CommentUserMail string    `json:"commentUserMail,omitempty"`
}
