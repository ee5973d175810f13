package adminlist

import "strings"

// Segment is a run of cell text, marked when it matches the search term
type Segment struct {
	Text  string
	Match bool
}

// Highlight splits text around every case-insensitive occurrence of term
func Highlight(text, term string) []Segment {
	if term == "" || text == "" {
		return []Segment{{Text: text}}
	}

	runes := []rune(text)
	width := len([]rune(term))
	var out []Segment
	start := 0
	for i := 0; i+width <= len(runes); {
		if strings.EqualFold(string(runes[i:i+width]), term) {
			if i > start {
				out = append(out, Segment{Text: string(runes[start:i])})
			}
			out = append(out, Segment{Text: string(runes[i : i+width]), Match: true})
			i += width
			start = i
			continue
		}
		i++
	}
	if start < len(runes) {
		out = append(out, Segment{Text: string(runes[start:])})
	}
	return out
}
