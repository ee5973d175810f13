package listquery

import (
	"net/url"
	"strconv"
	"strings"
)

// Params is what a list endpoint receives from the admin list screens
type Params struct {
	Page   int
	Sort   string // "field" ascending, "-field" descending, "" unsorted
	Search string
	All    bool // type=all: no pagination
}

// Parse reads page, sort, search and type. Invalid pages fall back to 1.
func Parse(page, sort, search, typ string) Params {
	p := Params{
		Page:   1,
		Sort:   strings.TrimSpace(sort),
		Search: strings.TrimSpace(search),
		All:    typ == "all",
	}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = n
	}
	return p
}

// FromValues parses url.Values, mainly for clients and tests
func FromValues(v url.Values) Params {
	return Parse(v.Get("page"), v.Get("sort"), v.Get("search"), v.Get("type"))
}

// SortField splits Sort into column and direction
func (p Params) SortField() (field string, desc bool) {
	if strings.HasPrefix(p.Sort, "-") {
		return p.Sort[1:], true
	}
	return p.Sort, false
}
