package listquery

import (
	"context"
	"net/url"
	"testing"

	"go-storefront/internal/model"
	"go-storefront/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var categorySpec = Spec{
	Table:      "categories",
	Searchable: []string{"name", "slug"},
	Sortable:   []string{"id", "name", "slug"},
	PerPage:    2,
}

func seedCategories(t *testing.T, names ...string) *gorm.DB {
	db := testutil.NewDB(t)
	for _, n := range names {
		require.NoError(t, db.Create(&model.Category{Name: n, Slug: "s-" + n}).Error)
	}
	return db
}

func names(rows []model.Category) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		values   url.Values
		expected Params
	}{
		{"defaults", url.Values{}, Params{Page: 1}},
		{"explicit", url.Values{"page": {"3"}, "sort": {"-name"}, "search": {" bo "}}, Params{Page: 3, Sort: "-name", Search: "bo"}},
		{"invalid page", url.Values{"page": {"abc"}}, Params{Page: 1}},
		{"negative page", url.Values{"page": {"-2"}}, Params{Page: 1}},
		{"type all", url.Values{"type": {"all"}}, Params{Page: 1, All: true}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FromValues(tc.values))
		})
	}
}

func TestFindPaginates(t *testing.T) {
	db := seedCategories(t, "Books", "Boots", "Hats", "Shoes", "Toys")

	page, err := Find[model.Category](context.Background(), db, Params{Page: 2}, categorySpec, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Hats", "Shoes"}, names(page.Data))
	require.NotNil(t, page.Meta)
	assert.Equal(t, 2, page.Meta.CurrentPage)
	assert.Equal(t, 3, page.Meta.LastPage)
	assert.Equal(t, int64(5), page.Meta.Total)
	assert.Equal(t, 3, *page.Meta.From)
	assert.Equal(t, 4, *page.Meta.To)
}

func TestFindPageBeyondLastIsEmpty(t *testing.T) {
	db := seedCategories(t, "Books", "Boots")

	page, err := Find[model.Category](context.Background(), db, Params{Page: 9}, categorySpec, nil, nil)
	require.NoError(t, err)

	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, 9, page.Meta.CurrentPage)
	assert.Equal(t, 1, page.Meta.LastPage)
	assert.Nil(t, page.Meta.From)
	assert.Nil(t, page.Meta.To)
}

func TestFindHugePageIsEmpty(t *testing.T) {
	db := seedCategories(t, "Books", "Boots", "Hats")
	spec := categorySpec
	spec.PerPage = 2

	for _, raw := range []string{"4611686018427387905", "9223372036854775807"} {
		t.Run(raw, func(t *testing.T) {
			p := Parse(raw, "", "", "")
			page, err := Find[model.Category](context.Background(), db, p, spec, nil, nil)
			require.NoError(t, err)

			assert.Empty(t, page.Data)
			assert.Equal(t, 2, page.Meta.LastPage)
			assert.Nil(t, page.Meta.From)
			assert.Nil(t, page.Meta.To)
		})
	}
}

func TestFindEmptyTable(t *testing.T) {
	db := seedCategories(t)

	page, err := Find[model.Category](context.Background(), db, Params{Page: 1}, categorySpec, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Meta.LastPage)
	assert.Equal(t, int64(0), page.Meta.Total)
}

func TestFindSearchIsCaseInsensitiveSubstring(t *testing.T) {
	db := seedCategories(t, "Books", "Boots", "Hats")
	spec := categorySpec
	spec.PerPage = 10

	page, err := Find[model.Category](context.Background(), db, Params{Page: 1, Search: "bo"}, spec, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Books", "Boots"}, names(page.Data))

	page, err = Find[model.Category](context.Background(), db, Params{Page: 1, Search: "Book"}, spec, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Books"}, names(page.Data))
}

func TestFindSearchEscapesWildcards(t *testing.T) {
	db := seedCategories(t, "50% off", "500 club")
	spec := categorySpec
	spec.PerPage = 10

	page, err := Find[model.Category](context.Background(), db, Params{Page: 1, Search: "0%"}, spec, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"50% off"}, names(page.Data))
}

func TestFindSort(t *testing.T) {
	db := seedCategories(t, "Boots", "Toys", "Books")
	spec := categorySpec
	spec.PerPage = 10

	asc, err := Find[model.Category](context.Background(), db, Params{Page: 1, Sort: "name"}, spec, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Books", "Boots", "Toys"}, names(asc.Data))

	desc, err := Find[model.Category](context.Background(), db, Params{Page: 1, Sort: "-name"}, spec, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Toys", "Boots", "Books"}, names(desc.Data))

	unknown, err := Find[model.Category](context.Background(), db, Params{Page: 1, Sort: "name; DROP TABLE categories"}, spec, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Boots", "Toys", "Books"}, names(unknown.Data))
}

func TestFindAllSkipsPagination(t *testing.T) {
	db := seedCategories(t, "Books", "Boots", "Hats", "Shoes", "Toys")

	page, err := Find[model.Category](context.Background(), db, Params{Page: 2, All: true}, categorySpec, nil, nil)
	require.NoError(t, err)
	assert.Len(t, page.Data, 5)
	assert.Nil(t, page.Meta)
}

func TestFindIsIdempotent(t *testing.T) {
	db := seedCategories(t, "Books", "Boots", "Hats", "Shoes", "Toys")
	p := Params{Page: 1, Sort: "-slug", Search: "o"}

	first, err := Find[model.Category](context.Background(), db, p, categorySpec, nil, nil)
	require.NoError(t, err)
	second, err := Find[model.Category](context.Background(), db, p, categorySpec, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, names(first.Data), names(second.Data))
}

func TestFindFilterScope(t *testing.T) {
	db := seedCategories(t, "Books", "Boots", "Hats")
	filter := func(q *gorm.DB) *gorm.DB { return q.Where("categories.name <> ?", "Boots") }

	page, err := Find[model.Category](context.Background(), db, Params{Page: 1}, categorySpec, filter, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Books", "Hats"}, names(page.Data))
	assert.Equal(t, int64(2), page.Meta.Total)
}

func TestMap(t *testing.T) {
	in := Page[int]{Data: []int{1, 2}, Meta: &Meta{CurrentPage: 1}}
	out, err := Map(in, func(i int) (string, error) { return string(rune('a' + i)), nil })
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, out.Data)
	assert.Same(t, in.Meta, out.Meta)
}
