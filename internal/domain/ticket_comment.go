package domain

import "time"

// Comment is one entry in a ticket thread after normalization.
type Comment struct {
	TicketID  int64
	Author    string
	Text      string
	CreatedAt time.Time
}
