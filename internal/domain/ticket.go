package domain

import "time"

// TicketState enumerates lifecycle states for tickets.
type TicketState string

const (
	TicketStateOpen       TicketState = "OPEN"
	TicketStateUnassigned TicketState = "UNASSIGNED"
	TicketStateInProgress TicketState = "IN_PROGRESS"
	TicketStateResolved   TicketState = "RESOLVED"
	TicketStateClosed     TicketState = "CLOSED"
)

// TicketCategory enumerates the support areas a ticket can be filed under.
type TicketCategory string

const (
	CategoryAccountManagement TicketCategory = "ACCOUNT_MANAGEMENT"
	CategoryHardware          TicketCategory = "HARDWARE"
	CategoryProgramsTools     TicketCategory = "PROGRAMS_TOOLS"
	CategoryNetwork           TicketCategory = "NETWORK"
	CategoryOther             TicketCategory = "OTHER"
)

var categoryNames = map[TicketCategory]string{
	CategoryAccountManagement: "Account Management",
	CategoryHardware:          "Hardware",
	CategoryProgramsTools:     "Programs & Tools",
	CategoryNetwork:           "Network",
	CategoryOther:             "Other",
}

// Valid reports whether c is a known category.
func (c TicketCategory) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// DisplayName returns the human label, or the raw value for unknown categories.
func (c TicketCategory) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

// Ticket is the detail view of a support request.
type Ticket struct {
	ID              int64
	Title           string
	Description     string
	State           TicketState
	Category        TicketCategory
	CreatedAt       time.Time
	UpdatedAt       time.Time
	AssignedSupport string
	Comments        []Comment
}

// TicketSummary is a row in the all-tickets overview.
type TicketSummary struct {
	ID              int64
	Title           string
	State           TicketState
	Category        TicketCategory
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ClosedAt        *time.Time
	CreatorUsername string
	CreatorEmail    string
	AssignedSupport string
}
