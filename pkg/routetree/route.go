package routetree

import (
	"context"
	"net/url"

	"github.com/navkit-dev/navkit/pkg/location"
)

// Request carries the navigation target into a loader or action.
type Request struct {
	// Location is the target of the navigation or submission.
	Location location.Location

	// Params are the path parameters extracted by the matcher.
	Params map[string]string

	// Method is MethodGet for loads and MethodPost for mutating
	// submissions.
	Method string

	// Form is the serialized submission payload. Nil for plain loads.
	Form url.Values
}

// Request methods.
const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

// Loader is a read-only data-fetch function bound to a route. It runs once
// per navigation for every matched route. A loader may return a redirect by
// returning an error satisfying errors.As against the controller's redirect
// type.
type Loader func(ctx context.Context, req *Request) (any, error)

// Action is a mutating function bound to a route. It runs once per
// submission, only for the deepest matched route.
type Action func(ctx context.Context, req *Request) (any, error)

// ErrorHandler receives loader and action errors that occurred at this route
// or bubbled up from a descendant without a handler of its own.
type ErrorHandler func(req *Request, err error)

// Route declares one entry of the route table. Routes nest via Children;
// the compiled Table assigns each a stable identity.
type Route struct {
	// Path is the pattern for this route, relative to its parent.
	// It may span several segments: "contacts/:id/edit". Empty for the
	// root route and for index routes.
	Path string

	// Index marks this route as its parent's index: it matches only when
	// the path is fully consumed at the parent's level. At most one index
	// sibling is allowed per parent, and an index route has no Path and
	// no Children.
	Index bool

	// Loader fetches this route's data on navigation. Optional.
	Loader Loader

	// Action handles mutating submissions targeting this route. Optional.
	Action Action

	// ErrorHandler handles errors surfaced at or below this route.
	// Optional; errors bubble toward the root until a handler is found.
	ErrorHandler ErrorHandler

	// Children are nested routes, matched after this route's pattern has
	// been consumed. Declaration order is the tie-break among siblings of
	// equal specificity.
	Children []Route
}

// NodeID identifies a compiled route within its Table. Loader results are
// keyed by NodeID in the published snapshot.
type NodeID uint32

// Node is a compiled route table entry.
type Node struct {
	id      NodeID
	pattern string
	index   bool

	loader       Loader
	action       Action
	errorHandler ErrorHandler

	// parent is the nearest ancestor route, nil for a top-level route.
	parent *Node
}

// ID returns the route's stable identity within its table.
func (n *Node) ID() NodeID { return n.id }

// Pattern returns the full declared pattern from the root, such as
// "/contacts/:id". Index routes report their parent's pattern.
func (n *Node) Pattern() string { return n.pattern }

// IsIndex reports whether this is an index route.
func (n *Node) IsIndex() bool { return n.index }

// Loader returns the route's loader, or nil.
func (n *Node) Loader() Loader { return n.loader }

// Action returns the route's action, or nil.
func (n *Node) Action() Action { return n.action }

// ErrorHandler returns the route's error handler, or nil.
func (n *Node) ErrorHandler() ErrorHandler { return n.errorHandler }

// Parent returns the enclosing route, or nil for a top-level route.
func (n *Node) Parent() *Node { return n.parent }

// Match pairs a compiled route with the parameters extracted for it.
type Match struct {
	// Node is the matched route.
	Node *Node

	// Params is the merged parameter map for the whole location. Every
	// entry of a chain sees the same mapping.
	Params map[string]string
}

// Chain is the ordered sequence of matched routes, root first.
type Chain []Match

// Leaf returns the deepest match of the chain.
func (c Chain) Leaf() Match {
	return c[len(c)-1]
}

// Params returns the parameter map extracted for the chain's location.
// Returns an empty map for an empty chain.
func (c Chain) Params() map[string]string {
	if len(c) == 0 {
		return map[string]string{}
	}
	return c.Leaf().Params
}

// Contains reports whether the chain includes the route with the given ID.
func (c Chain) Contains(id NodeID) bool {
	for _, m := range c {
		if m.Node.id == id {
			return true
		}
	}
	return false
}
