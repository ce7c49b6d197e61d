package nav

import (
	"github.com/navkit-dev/navkit/pkg/location"
	"github.com/navkit-dev/navkit/pkg/routetree"
)

// Snapshot is the settled view the controller publishes after every
// navigation or submission cycle: the current location, the latest loader
// result per active route, the most recent action result, and the active
// error if the cycle failed.
//
// Snapshots are read-only to consumers. The controller replaces the whole
// snapshot on every settle; there is no per-location cache across history.
type Snapshot struct {
	// Location is the settled location. After a failed cycle it is the
	// previous successfully settled location, so a failed navigation
	// never blanks the current view.
	Location location.Location

	// Data maps route identity to that route's latest loader result.
	Data map[routetree.NodeID]any

	// ActionData is the data result of the most recent submission cycle,
	// nil when the last cycle was a plain navigation.
	ActionData any

	// Err is the structured error of the last cycle, nil on success.
	Err *NavError
}

// DataFor returns the loader result for the given route identity.
func (s Snapshot) DataFor(id routetree.NodeID) (any, bool) {
	v, ok := s.Data[id]
	return v, ok
}
