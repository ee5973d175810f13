package listquery

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultPerPage = 10

// Spec declares how one entity list can be searched and sorted. Only listed
// columns are ever put into SQL.
type Spec struct {
	Table      string
	Searchable []string
	Sortable   []string
	PerPage    int
}

// Meta mirrors the pagination block the admin screens read
type Meta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	From        *int  `json:"from"`
	To          *int  `json:"to"`
}

// Page is the {data, meta} envelope; Meta is nil for type=all
type Page[T any] struct {
	Data []T   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Scope narrows or decorates a query; used for filters and preloads
type Scope func(*gorm.DB) *gorm.DB

// Find runs the list query for T. filter applies to both count and fetch;
// preload applies only to the fetch.
func Find[T any](ctx context.Context, db *gorm.DB, p Params, spec Spec, filter, preload Scope) (Page[T], error) {
	base := func() *gorm.DB {
		var zero T
		q := db.WithContext(ctx).Model(&zero)
		if filter != nil {
			q = filter(q)
		}
		return applySearch(q, spec, p.Search)
	}

	fetch := func(q *gorm.DB) *gorm.DB {
		q = applySort(q, spec, p)
		if preload != nil {
			q = preload(q)
		}
		return q
	}

	if p.All {
		rows := make([]T, 0)
		if err := fetch(base()).Find(&rows).Error; err != nil {
			return Page[T]{}, err
		}
		return Page[T]{Data: rows}, nil
	}

	perPage := spec.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return Page[T]{}, err
	}

	rows := make([]T, 0)
	meta := buildMeta(page, perPage, total)
	// pages past the end are empty; offset math only happens below the
	// last page so it cannot overflow
	if total > 0 && int64(page) <= int64(meta.LastPage) {
		offset := int64(page-1) * int64(perPage)
		if err := fetch(base()).Offset(int(offset)).Limit(perPage).Find(&rows).Error; err != nil {
			return Page[T]{}, err
		}
		if len(rows) > 0 {
			from := int(offset) + 1
			to := from + len(rows) - 1
			meta.From, meta.To = &from, &to
		}
	}

	return Page[T]{Data: rows, Meta: meta}, nil
}

// Map converts the rows of a page, keeping its meta
func Map[T, U any](p Page[T], f func(T) (U, error)) (Page[U], error) {
	out := Page[U]{Data: make([]U, 0, len(p.Data)), Meta: p.Meta}
	for _, row := range p.Data {
		u, err := f(row)
		if err != nil {
			return Page[U]{}, err
		}
		out.Data = append(out.Data, u)
	}
	return out, nil
}

func buildMeta(page, perPage int, total int64) *Meta {
	lastPage := (total + int64(perPage) - 1) / int64(perPage)
	if lastPage < 1 {
		lastPage = 1
	}
	return &Meta{
		CurrentPage: page,
		LastPage:    int(lastPage),
		PerPage:     perPage,
		Total:       total,
	}
}

func applySearch(q *gorm.DB, spec Spec, search string) *gorm.DB {
	if search == "" || len(spec.Searchable) == 0 {
		return q
	}
	pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
	conds := make([]string, 0, len(spec.Searchable))
	args := make([]interface{}, 0, len(spec.Searchable))
	for _, col := range spec.Searchable {
		conds = append(conds, "LOWER("+qualify(spec.Table, col)+`) LIKE ? ESCAPE '\'`)
		args = append(args, pattern)
	}
	return q.Where("("+strings.Join(conds, " OR ")+")", args...)
}

func applySort(q *gorm.DB, spec Spec, p Params) *gorm.DB {
	field, desc := p.SortField()
	if field != "" && contains(spec.Sortable, field) && field != "id" {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Table: spec.Table, Name: field}, Desc: desc})
		return q.Order(clause.OrderByColumn{Column: clause.Column{Table: spec.Table, Name: "id"}})
	}
	return q.Order(clause.OrderByColumn{Column: clause.Column{Table: spec.Table, Name: "id"}, Desc: field == "id" && desc})
}

func qualify(table, col string) string {
	if table == "" {
		return col
	}
	return table + "." + col
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
