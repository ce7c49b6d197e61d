// Package routetree implements the declarative route table and URL matcher
// used by the navigation controller.
//
// Routes are declared as a hierarchy of Route values, compiled once into an
// immutable Table, and matched against Locations with Match. Matching is a
// pure function: the same table and location always produce the same chain.
//
// # Declaring Routes
//
// A route's Path is a pattern of one or more segments. Dynamic segments are
// declared with a leading colon, catch-alls with a leading asterisk:
//
//	table, err := routetree.New(routetree.Route{
//	    Path:   "/",
//	    Loader: rootLoader,
//	    Children: []routetree.Route{
//	        {Index: true, Loader: indexLoader},
//	        {Path: "contacts/:id", Loader: contactLoader, Action: favoriteAction},
//	        {Path: "contacts/:id/edit", Loader: contactLoader, Action: editAction},
//	        {Path: "*rest", Loader: fallbackLoader},
//	    },
//	})
//
// # Precedence
//
// At every path position, static segments win over parameters, and
// parameters win over catch-alls. Siblings of equal specificity are tried in
// declaration order. Index routes match only when the path is fully consumed
// at their parent's level.
//
// # Matching
//
//	chain, err := table.Match(location.MustParse("/contacts/5"))
//	// chain.Leaf().Node.Pattern() == "/contacts/:id"
//	// chain.Params()["id"] == "5"
//
// The resulting Chain lists every matched route from root to leaf, each with
// the merged parameter map for the full location. Chains are rebuilt on every
// call and never mutated in place.
package routetree
