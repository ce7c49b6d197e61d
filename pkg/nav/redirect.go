package nav

import (
	"github.com/navkit-dev/navkit/pkg/location"
)

// Redirect is the error value a loader or action returns to send the
// navigation somewhere else. The controller discards any in-flight sibling
// results and restarts the cycle against To, bounded by the controller's
// redirect limit.
type Redirect struct {
	// To is the redirect target.
	To location.Location
}

// Error implements the error interface so redirects travel the normal
// loader/action return path.
func (r *Redirect) Error() string {
	return "nav: redirect to " + r.To.String()
}

// RedirectTo builds a redirect to the given path. If the path is invalid
// the parse error is returned instead, and the controller treats it as an
// ordinary loader/action failure.
func RedirectTo(target string) error {
	loc, err := location.Parse(target)
	if err != nil {
		return err
	}
	return &Redirect{To: loc}
}
