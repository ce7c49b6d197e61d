// Package location defines the immutable Location value used throughout
// navkit to identify a navigation target.
//
// A Location is the triple (path, query, hash). Query parameters preserve
// multiple values per key, since a key may legitimately repeat in a query
// string. Locations are plain values: construct one with Parse or a struct
// literal and copy it freely; nothing mutates a Location after construction.
package location

import (
	"net/url"
	"strings"
)

// Location identifies a navigation target within the application.
type Location struct {
	// Path is the canonical path, always beginning with "/".
	Path string

	// Query holds the search parameters. A key may map to multiple
	// values, in declaration order.
	Query url.Values

	// Hash is the fragment, without the leading "#". Hash never reaches
	// the matcher; it is carried through for the rendering layer.
	Hash string
}

// Parse builds a Location from a path string such as
// "/contacts/5?q=alex&sort=last#notes". The path component is canonicalized;
// invalid paths (backslash, NUL, bad escapes, ".." escaping root, absolute
// URLs) are rejected.
func Parse(raw string) (Location, error) {
	// Reject absolute URLs to prevent open-redirect style targets.
	if strings.HasPrefix(raw, "http://") ||
		strings.HasPrefix(raw, "https://") ||
		strings.HasPrefix(raw, "//") {
		return Location{}, ErrInvalidPath
	}

	rest, hash, _ := strings.Cut(raw, "#")
	rawPath, rawQuery, _ := strings.Cut(rest, "?")

	path, err := canonicalPath(rawPath)
	if err != nil {
		return Location{}, err
	}

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return Location{}, ErrInvalidQuery
	}

	return Location{
		Path:  path,
		Query: query,
		Hash:  hash,
	}, nil
}

// MustParse is like Parse but panics on error. Intended for static route
// targets in tests and demos.
func MustParse(raw string) Location {
	loc, err := Parse(raw)
	if err != nil {
		panic("location: " + err.Error())
	}
	return loc
}

// String renders the Location back to "/path?query#hash" form.
func (l Location) String() string {
	var b strings.Builder
	if l.Path == "" {
		b.WriteString("/")
	} else {
		b.WriteString(l.Path)
	}
	if len(l.Query) > 0 {
		b.WriteString("?")
		b.WriteString(l.Query.Encode())
	}
	if l.Hash != "" {
		b.WriteString("#")
		b.WriteString(l.Hash)
	}
	return b.String()
}

// Equal reports whether two Locations identify the same target.
// Query comparison is order-insensitive across keys but order-sensitive
// within a key's values.
func (l Location) Equal(other Location) bool {
	if l.Path != other.Path || l.Hash != other.Hash {
		return false
	}
	if len(l.Query) != len(other.Query) {
		return false
	}
	for k, vs := range l.Query {
		ovs, ok := other.Query[k]
		if !ok || len(ovs) != len(vs) {
			return false
		}
		for i := range vs {
			if vs[i] != ovs[i] {
				return false
			}
		}
	}
	return true
}

// WithQuery returns a copy of the Location with the given query values.
// The original is left untouched.
func (l Location) WithQuery(q url.Values) Location {
	copied := make(url.Values, len(q))
	for k, vs := range q {
		copied[k] = append([]string(nil), vs...)
	}
	l.Query = copied
	return l
}

// Segments splits the canonical path into its segments. The root path
// yields nil.
func (l Location) Segments() []string {
	trimmed := strings.Trim(l.Path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
