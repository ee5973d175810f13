package adminlist

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseState(t *testing.T) {
	tests := []struct {
		query string
		want  State
	}{
		{"", State{Page: 1}},
		{"page=3&sort=-name&search=bo", State{Page: 3, Sort: "-name", Search: "bo"}},
		{"page=0", State{Page: 1}},
		{"page=-2", State{Page: 1}},
		{"page=abc", State{Page: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			v, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ParseState(v))
		})
	}
}

func TestStateEncodeOmitsDefaults(t *testing.T) {
	assert.Equal(t, "", State{Page: 1}.Encode())
	assert.Equal(t, "page=2&search=b+o&sort=name", State{Page: 2, Sort: "name", Search: "b o"}.Encode())

	s := State{Page: 4, Sort: "-slug", Search: "x"}
	assert.Equal(t, s, ParseState(s.Values()))
}

func TestNextSort(t *testing.T) {
	assert.Equal(t, "name", NextSort("", "name"))
	assert.Equal(t, "-name", NextSort("name", "name"))
	assert.Equal(t, "", NextSort("-name", "name"))
	assert.Equal(t, "slug", NextSort("-name", "slug"))
	assert.Equal(t, "slug", NextSort("name", "slug"))
}

func TestHighlight(t *testing.T) {
	assert.Equal(t, []Segment{
		{Text: "Bo", Match: true},
		{Text: "oks and "},
		{Text: "bo", Match: true},
		{Text: "ots"},
	}, Highlight("Books and boots", "bO"))

	assert.Equal(t, []Segment{{Text: "Hats"}}, Highlight("Hats", "bo"))
	assert.Equal(t, []Segment{{Text: "Hats"}}, Highlight("Hats", ""))
	assert.Equal(t, []Segment{{Text: "Ça", Match: true}, {Text: " va"}}, Highlight("Ça va", "ça"))
}
