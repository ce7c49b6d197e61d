package location

import (
	"errors"
	"strings"
)

// Errors reported by Parse for paths it refuses to canonicalize.
var (
	ErrInvalidPath          = errors.New("location: invalid path")
	ErrInvalidQuery         = errors.New("location: invalid query string")
	ErrBackslashInPath      = errors.New("location: path contains backslash")
	ErrNullByteInPath       = errors.New("location: path contains null byte")
	ErrInvalidPercentEscape = errors.New("location: invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("location: path escapes root via ..")
)

// canonicalPath normalizes the path component of a target so every
// Location carries exactly one spelling of it: duplicate slashes collapse,
// "." segments drop, ".." segments resolve, and any trailing slash goes
// (the root stays "/"). A missing leading slash is tolerated.
//
// Rejected with an error:
//
//   - backslash anywhere in the path
//   - NUL byte, literal or %00-encoded
//   - malformed percent escapes (%GG, truncated %2)
//   - ".." climbing above the root
func canonicalPath(path string) (string, error) {
	// SECURITY: backslash and NUL have no legitimate place in a target.
	if strings.Contains(path, `\`) {
		return "", ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return "", ErrNullByteInPath
	}
	if err := checkEscapes(path); err != nil {
		return "", err
	}

	// Walking the raw segments resolves everything at once: empty
	// segments are collapsed slashes (and the trailing slash), "." is a
	// no-op, ".." pops, anything else is kept.
	var segs []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segs) == 0 {
				// SECURITY: ".." escapes root.
				return "", ErrPathEscapesRoot
			}
			segs = segs[:len(segs)-1]
		default:
			segs = append(segs, seg)
		}
	}
	return "/" + strings.Join(segs, "/"), nil
}

// checkEscapes verifies every % in the path starts a two-hex-digit escape.
func checkEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
