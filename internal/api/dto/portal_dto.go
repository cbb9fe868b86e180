package dto

import "time"

// PortalTicket is the portal's rendering of a ticket.
type PortalTicket struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	State           string          `json:"state"`
	Category        string          `json:"category"`
	CategoryLabel   string          `json:"categoryLabel"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	AssignedSupport string          `json:"assignedSupport,omitempty"`
	Comments        []PortalComment `json:"comments,omitempty"`
}

// PortalTicketRow is one line of the staff overview.
type PortalTicketRow struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	State           string     `json:"state"`
	Category        string     `json:"category"`
	CategoryLabel   string     `json:"categoryLabel"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	ClosedAt        *time.Time `json:"closedAt,omitempty"`
	Creator         string     `json:"creator"`
	CreatorEmail    string     `json:"creatorEmail,omitempty"`
	AssignedSupport string     `json:"assignedSupport,omitempty"`
}

// PortalComment is a normalized comment.
type PortalComment struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
