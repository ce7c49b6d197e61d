package nav

import (
	"context"
	"time"

	"github.com/navkit-dev/navkit/pkg/location"
)

// CycleKind distinguishes the two kinds of controller cycles.
type CycleKind int

const (
	// CycleNavigation is a read-only GET-style navigation.
	CycleNavigation CycleKind = iota

	// CycleSubmission is a mutating POST-style submission.
	CycleSubmission
)

// String returns a human-readable name for the cycle kind.
func (k CycleKind) String() string {
	switch k {
	case CycleNavigation:
		return "navigation"
	case CycleSubmission:
		return "submission"
	default:
		return "unknown"
	}
}

// Observer receives lifecycle events from a controller. Implementations
// must be safe for concurrent use; the controller may report discarded
// results from loader goroutines.
//
// CycleStarted may derive and return a new context (for example to open a
// trace span); the returned context is threaded through the remaining
// callbacks of the same cycle.
type Observer interface {
	// CycleStarted fires when a navigation or submission begins.
	CycleStarted(ctx context.Context, kind CycleKind, target location.Location) context.Context

	// CycleSettled fires exactly once per cycle, after the controller
	// returned to Idle. err is nil on success.
	CycleSettled(ctx context.Context, kind CycleKind, target location.Location, elapsed time.Duration, err error)

	// RedirectFollowed fires for each redirect hop within a cycle.
	RedirectFollowed(ctx context.Context, from, to location.Location)

	// ResultDiscarded fires when a superseded cycle's results arrive and
	// are thrown away.
	ResultDiscarded(ctx context.Context, target location.Location)
}
