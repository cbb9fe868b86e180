package service

import (
	"sort"
	"strings"

	"github.com/spec-kit/ticket-portal/internal/api/dto"
	"github.com/spec-kit/ticket-portal/internal/domain"
)

const unknownAuthor = "unknown"

// NormalizeComments folds both upstream comment shapes into one thread:
// author resolved from whichever name field is set, text trimmed, blank
// comments dropped, oldest first.
func NormalizeComments(ticketID int64, raw []dto.CommentResponse) []domain.Comment {
	out := make([]domain.Comment, 0, len(raw))
	for _, c := range raw {
		text := strings.TrimSpace(c.Comment)
		if text == "" {
			continue
		}
		id := c.TicketID
		if id == 0 {
			id = ticketID
		}
		out = append(out, domain.Comment{
			TicketID:  id,
			Author:    commentAuthor(c),
			Text:      text,
			CreatedAt: c.CommentDate,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func commentAuthor(c dto.CommentResponse) string {
	for _, candidate := range []string{c.AuthorUsername, c.CommentUserName, c.CommentUserMail} {
		if name := strings.TrimSpace(candidate); name != "" {
			return name
		}
	}
	return unknownAuthor
}
