package service

import (
	"net/url"
	"strings"

	apperrors "github.com/spec-kit/ticket-portal/pkg/util/errorutil"
)

const (
	SortUpdateDate = "updateDate"
	SortCreateDate = "createDate"

	DirectionAsc  = "ASC"
	DirectionDesc = "DESC"

	// FilterAll disables a state or category filter.
	FilterAll = "ALL"
)

// TicketQuery composes the all-tickets overview filters.
type TicketQuery struct {
	Search    string
	State     string
	Category  string
	Sort      string
	Direction string
}

// Values renders the query for the ticket API, applying defaults and
// dropping "all" filters.
func (q TicketQuery) Values() (url.Values, error) {
	v := url.Values{}
	if search := strings.TrimSpace(q.Search); search != "" {
		v.Set("search", search)
	}
	if state := normalizeFilter(q.State); state != "" {
		v.Set("state", state)
	}
	if category := normalizeFilter(q.Category); category != "" {
		v.Set("category", category)
	}

	sort := q.Sort
	if sort == "" {
		sort = SortUpdateDate
	}
	if sort != SortUpdateDate && sort != SortCreateDate {
		return nil, apperrors.NewValidationError("unsupported sort field", map[string]any{"sort": sort})
	}
	v.Set("sort", sort)

	direction := strings.ToUpper(q.Direction)
	if direction == "" {
		direction = DirectionDesc
	}
	if direction != DirectionAsc && direction != DirectionDesc {
		return nil, apperrors.NewValidationError("unsupported sort direction", map[string]any{"direction": q.Direction})
	}
	v.Set("direction", direction)
	return v, nil
}

func normalizeFilter(value string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == FilterAll {
		return ""
	}
	return value
}
