package stubapi

import (
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/ticket-portal/internal/domain"
)

type account struct {
	username     string
	email        string
	passwordHash string
	role         domain.Role
}

type comment struct {
	author    string
	email     string
	text      string
	createdAt time.Time
}

type ticket struct {
	id          int64
	owner       string
	title       string
	description string
	state       domain.TicketState
	category    domain.TicketCategory
	createdAt   time.Time
	updatedAt   time.Time
	closedAt    *time.Time
	assignee    string
	comments    []comment
}

// listFilter mirrors the overview query parameters.
type listFilter struct {
	search    string
	state     domain.TicketState
	category  domain.TicketCategory
	sort      string
	ascending bool
}

func (f listFilter) matches(t *ticket) bool {
	if f.state != "" && t.state != f.state {
		return false
	}
	if f.category != "" && t.category != f.category {
		return false
	}
	if f.search != "" {
		needle := strings.ToLower(f.search)
		if !strings.Contains(strings.ToLower(t.title), needle) &&
			!strings.Contains(strings.ToLower(t.description), needle) {
			return false
		}
	}
	return true
}

func sortTickets(tickets []*ticket, field string, ascending bool) {
	key := func(t *ticket) time.Time { return t.updatedAt }
	if field == "createDate" {
		key = func(t *ticket) time.Time { return t.createdAt }
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		a, b := key(tickets[i]), key(tickets[j])
		if a.Equal(b) {
			if ascending {
				return tickets[i].id < tickets[j].id
			}
			return tickets[i].id > tickets[j].id
		}
		if ascending {
			return a.Before(b)
		}
		return a.After(b)
	})
}
