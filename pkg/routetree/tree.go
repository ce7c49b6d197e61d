package routetree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/navkit-dev/navkit/pkg/location"
)

// Table construction errors.
var (
	ErrDuplicateRoute    = errors.New("routetree: duplicate route pattern")
	ErrAmbiguousParam    = errors.New("routetree: conflicting parameter names at same position")
	ErrAmbiguousWildcard = errors.New("routetree: conflicting wildcard names at same position")
	ErrMultipleIndex     = errors.New("routetree: multiple index routes under one parent")
	ErrIndexWithPath     = errors.New("routetree: index route must not declare a path")
	ErrIndexWithChildren = errors.New("routetree: index route must not have children")
	ErrWildcardNotLast   = errors.New("routetree: wildcard segment must be last")
)

// ErrNoMatch is reported by Table.Match when no chain reaches full path
// consumption. Use errors.Is to test for it; the concrete *NoMatchError
// carries the offending path.
var ErrNoMatch = errors.New("routetree: no route matches")

// NoMatchError reports the path that failed to match.
type NoMatchError struct {
	Path string
}

func (e *NoMatchError) Error() string {
	return "routetree: no route matches " + e.Path
}

// Is makes errors.Is(err, ErrNoMatch) succeed.
func (e *NoMatchError) Is(target error) bool { return target == ErrNoMatch }

// segNode is a node in the per-segment radix tree.
type segNode struct {
	// segment is the literal this node matches; empty for param and
	// wildcard nodes.
	segment string

	// isParam indicates a parameter segment (:id).
	isParam bool

	// isWildcard indicates a catch-all segment (*rest).
	isWildcard bool

	// paramName is the parameter or wildcard name (without : or *).
	paramName string

	// children are static segment children, in declaration order.
	children []*segNode

	// paramChild is the single dynamic child at this position.
	paramChild *segNode

	// wildcardChild is the single catch-all child at this position.
	wildcardChild *segNode

	// route is the route terminating at this node, if any.
	route *Node

	// indexRoute is the index route attached at this node, if any.
	indexRoute *Node
}

// findChild finds a static child with an exact segment match.
func (n *segNode) findChild(segment string) *segNode {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

// Table is an immutable compiled route table.
type Table struct {
	root  *segNode
	nodes []*Node
}

// New compiles the declared routes into a Table. Sibling ambiguity is
// rejected at compile time: duplicate patterns, conflicting parameter or
// wildcard names at one position, and more than one index route per parent
// are all errors.
func New(routes ...Route) (*Table, error) {
	t := &Table{root: &segNode{}}
	for _, r := range routes {
		if err := t.insert(t.root, nil, r, ""); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Route returns the compiled route with the given ID.
func (t *Table) Route(id NodeID) (*Node, bool) {
	if int(id) >= len(t.nodes) {
		return nil, false
	}
	return t.nodes[id], true
}

// Routes returns every compiled route in declaration order.
func (t *Table) Routes() []*Node {
	return append([]*Node(nil), t.nodes...)
}

// insert compiles one Route and its children into the segment tree.
func (t *Table) insert(at *segNode, parent *Node, r Route, parentPattern string) error {
	if r.Index {
		if r.Path != "" && r.Path != "/" {
			return fmt.Errorf("%w: %q", ErrIndexWithPath, r.Path)
		}
		if len(r.Children) > 0 {
			return ErrIndexWithChildren
		}
		if at.indexRoute != nil {
			return fmt.Errorf("%w: under %q", ErrMultipleIndex, patternOrRoot(parentPattern))
		}
		at.indexRoute = t.newNode(patternOrRoot(parentPattern), true, r, parent)
		return nil
	}

	segments := splitPattern(r.Path)
	cur := at

	for i, seg := range segments {
		switch {
		case strings.HasPrefix(seg, "*"):
			if i != len(segments)-1 {
				return fmt.Errorf("%w: %q", ErrWildcardNotLast, r.Path)
			}
			name := seg[1:]
			if cur.wildcardChild != nil {
				if cur.wildcardChild.paramName != name {
					return fmt.Errorf("%w: *%s vs *%s", ErrAmbiguousWildcard, cur.wildcardChild.paramName, name)
				}
				cur = cur.wildcardChild
			} else {
				child := &segNode{isWildcard: true, paramName: name}
				cur.wildcardChild = child
				cur = child
			}
		case strings.HasPrefix(seg, ":"):
			name := seg[1:]
			if cur.paramChild != nil {
				if cur.paramChild.paramName != name {
					return fmt.Errorf("%w: :%s vs :%s", ErrAmbiguousParam, cur.paramChild.paramName, name)
				}
				cur = cur.paramChild
			} else {
				child := &segNode{isParam: true, paramName: name}
				cur.paramChild = child
				cur = child
			}
		default:
			if child := cur.findChild(seg); child != nil {
				cur = child
			} else {
				child := &segNode{segment: seg}
				cur.children = append(cur.children, child)
				cur = child
			}
		}
	}

	pattern := joinPattern(parentPattern, r.Path)
	if cur.route != nil {
		return fmt.Errorf("%w: %q", ErrDuplicateRoute, pattern)
	}
	node := t.newNode(pattern, false, r, parent)
	cur.route = node

	for _, child := range r.Children {
		if err := t.insert(cur, node, child, pattern); err != nil {
			return err
		}
	}
	return nil
}

// newNode allocates a compiled route entry with the next identity.
func (t *Table) newNode(pattern string, index bool, r Route, parent *Node) *Node {
	node := &Node{
		id:           NodeID(len(t.nodes)),
		pattern:      pattern,
		index:        index,
		loader:       r.Loader,
		action:       r.Action,
		errorHandler: r.ErrorHandler,
		parent:       parent,
	}
	t.nodes = append(t.nodes, node)
	return node
}

// Match resolves a Location to its route chain. The chain lists every
// matched route root-first; each entry carries the merged parameter map.
// Match is a pure function over the table.
func (t *Table) Match(loc location.Location) (Chain, error) {
	params := make(map[string]string)
	leaf, ok := t.root.match(loc.Segments(), params)
	if !ok {
		return nil, &NoMatchError{Path: loc.Path}
	}

	// Walk parent links to build the chain root-first.
	var nodes []*Node
	for n := leaf; n != nil; n = n.parent {
		nodes = append(nodes, n)
	}

	chain := make(Chain, len(nodes))
	for i, n := range nodes {
		chain[len(nodes)-1-i] = Match{Node: n, Params: params}
	}
	return chain, nil
}

// match descends the segment tree. At each position static children are
// tried first, then the parameter child, then the catch-all. Param bindings
// are backtracked on failure.
func (n *segNode) match(segments []string, params map[string]string) (*Node, bool) {
	if len(segments) == 0 {
		if n.indexRoute != nil {
			return n.indexRoute, true
		}
		if n.route != nil {
			return n.route, true
		}
		return nil, false
	}

	segment := segments[0]
	remaining := segments[1:]

	// Try exact match first.
	if child := n.findChild(segment); child != nil {
		if node, ok := child.match(remaining, params); ok {
			return node, true
		}
	}

	// Try parameter match.
	if n.paramChild != nil {
		prev, had := params[n.paramChild.paramName]
		params[n.paramChild.paramName] = segment
		if node, ok := n.paramChild.match(remaining, params); ok {
			return node, true
		}
		// Backtrack on failure.
		if had {
			params[n.paramChild.paramName] = prev
		} else {
			delete(params, n.paramChild.paramName)
		}
	}

	// Try catch-all match: binds the whole remaining path.
	if n.wildcardChild != nil && n.wildcardChild.route != nil {
		params[n.wildcardChild.paramName] = strings.Join(segments, "/")
		return n.wildcardChild.route, true
	}

	return nil, false
}

// splitPattern splits a route pattern into segments.
func splitPattern(pattern string) []string {
	pattern = strings.Trim(pattern, "/")
	if pattern == "" {
		return nil
	}
	return strings.Split(pattern, "/")
}

// joinPattern joins a parent pattern and a relative pattern.
func joinPattern(parent, rel string) string {
	rel = strings.Trim(rel, "/")
	parent = strings.TrimSuffix(parent, "/")
	if rel == "" {
		return patternOrRoot(parent)
	}
	return parent + "/" + rel
}

func patternOrRoot(pattern string) string {
	if pattern == "" {
		return "/"
	}
	return pattern
}
