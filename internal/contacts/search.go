package contacts

import "github.com/sahilm/fuzzy"

// contactSource adapts a contact slice to the fuzzy matcher.
type contactSource []Contact

func (s contactSource) String(i int) string { return s[i].First + " " + s[i].Last }
func (s contactSource) Len() int            { return len(s) }

// Filter returns the contacts whose name fuzzy-matches query, best matches
// first. An empty query returns the input unchanged.
func Filter(list []Contact, query string) []Contact {
	if query == "" {
		return list
	}
	matches := fuzzy.FindFrom(query, contactSource(list))
	out := make([]Contact, 0, len(matches))
	for _, m := range matches {
		out = append(out, list[m.Index])
	}
	return out
}
