// Package views holds presentation state derived from the session store.
package views

import (
	"sync"

	"github.com/spec-kit/ticket-portal/internal/domain"
	"github.com/spec-kit/ticket-portal/internal/events"
	"github.com/spec-kit/ticket-portal/internal/session"
)

// SessionSource is what the navbar reads and listens to.
type SessionSource interface {
	Subscribe(listener events.Listener) (unsubscribe func())
	IsLoggedIn() bool
	CurrentUser() (session.Claims, bool)
}

// Link is a navigation entry.
type Link struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// NavState is a snapshot of what the navigation bar shows.
type NavState struct {
	LoggedIn   bool          `json:"loggedIn"`
	Username   string        `json:"username,omitempty"`
	Role       domain.Role   `json:"role,omitempty"`
	Links      []Link        `json:"links"`
	LastReason events.Reason `json:"lastReason,omitempty"`
}

// Navbar keeps a NavState in step with the session. It derives state at
// construction and again on every session change notification.
type Navbar struct {
	source      SessionSource
	unsubscribe func()

	mu    sync.RWMutex
	state NavState
}

// NewNavbar derives the initial state and subscribes to session changes.
func NewNavbar(source SessionSource) *Navbar {
	n := &Navbar{source: source}
	n.unsubscribe = source.Subscribe(func(e events.Event) {
		n.refresh(e.Reason)
	})
	n.refresh("")
	return n
}

// State returns the current snapshot.
func (n *Navbar) State() NavState {
	n.mu.RLock()
	defer n.mu.RUnlock()
	state := n.state
	state.Links = append([]Link(nil), n.state.Links...)
	return state
}

// Close stops listening for session changes.
func (n *Navbar) Close() {
	if n.unsubscribe != nil {
		n.unsubscribe()
	}
}

// refresh derives outside the lock: IsLoggedIn may publish EXPIRED, which
// re-enters refresh.
func (n *Navbar) refresh(reason events.Reason) {
	state := NavState{LastReason: reason}
	if n.source.IsLoggedIn() {
		if claims, ok := n.source.CurrentUser(); ok {
			state.LoggedIn = true
			state.Username = claims.Subject
			state.Role = claims.Role
		}
	}
	state.Links = linksFor(state)

	n.mu.Lock()
	if reason == "" && n.state.LastReason != "" {
		state.LastReason = n.state.LastReason
	}
	n.state = state
	n.mu.Unlock()
}

func linksFor(state NavState) []Link {
	links := []Link{{Label: "Home", Path: "/"}}
	if !state.LoggedIn {
		return append(links,
			Link{Label: "Login", Path: "/login"},
			Link{Label: "Register", Path: "/register"},
		)
	}
	links = append(links, Link{Label: "My Tickets", Path: "/tickets/my"})
	if state.Role.CanCreateTickets() {
		links = append(links, Link{Label: "Create Ticket", Path: "/tickets/new"})
	}
	if state.Role.IsStaff() {
		links = append(links, Link{Label: "All Tickets", Path: "/tickets"})
	}
	return append(links, Link{Label: "Change Password", Path: "/password"})
}
