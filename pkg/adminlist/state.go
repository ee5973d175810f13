// Package adminlist drives a back-office list screen: paging, sorting,
// debounced search, row selection and bulk delete, kept in sync with the
// page URL.
package adminlist

import (
	"net/url"
	"strconv"
	"strings"
)

// State is the part of a list screen that lives in the URL
type State struct {
	Page   int
	Sort   string // "field", "-field" or ""
	Search string
}

// ParseState reads page, sort and search. Missing or invalid pages are 1.
func ParseState(v url.Values) State {
	s := State{
		Page:   1,
		Sort:   strings.TrimSpace(v.Get("sort")),
		Search: v.Get("search"),
	}
	if n, err := strconv.Atoi(v.Get("page")); err == nil && n > 0 {
		s.Page = n
	}
	return s
}

// Values is the inverse of ParseState; defaults are left out
func (s State) Values() url.Values {
	v := url.Values{}
	if s.Page > 1 {
		v.Set("page", strconv.Itoa(s.Page))
	}
	if s.Sort != "" {
		v.Set("sort", s.Sort)
	}
	if s.Search != "" {
		v.Set("search", s.Search)
	}
	return v
}

func (s State) Encode() string {
	return s.Values().Encode()
}

// NextSort cycles a column header click: none, ascending, descending, none.
// Clicking a different column starts it ascending.
func NextSort(current, field string) string {
	switch current {
	case field:
		return "-" + field
	case "-" + field:
		return ""
	default:
		return field
	}
}
