// Package nav implements the navigation controller: the state machine that
// coordinates location changes, loader execution, in-flight cancellation,
// and form-style mutation submissions for a route table.
//
// A Controller owns exactly one NavigationState at a time (Idle, Loading, or
// Submitting) and linearizes every transition. Loaders for one navigation
// run concurrently, but their results are applied to the snapshot atomically
// and only if the navigation is still the latest one: a newer Navigate call
// supersedes an older in-flight one, and the stale results are discarded no
// matter when they arrive.
//
// # Lifecycle
//
//	table, _ := routetree.New(routes...)
//	ctrl, _ := nav.New(table, nav.WithHistory(nav.NewMemoryHistory(home)))
//	defer ctrl.Close()
//
//	unsubscribe := ctrl.Subscribe(func(snap nav.Snapshot) {
//	    render(snap)
//	})
//	defer unsubscribe()
//
//	_ = ctrl.Start(ctx)                             // load the initial chain
//	_ = ctrl.Navigate(ctx, location.MustParse("/contacts/5"))
//	_ = ctrl.Submit(ctx, nav.Submission{Target: "/contacts/5", Form: form})
//
// The controller is long-lived: it has no terminal state. Close cancels any
// in-flight work, detaches from the history, and drops all subscribers.
//
// # Error behavior
//
// A failed navigation or submission never blanks the UI: the previous
// settled snapshot's data and location stay in place until a successful
// navigation replaces them. Loader and action errors are routed to the
// nearest enclosing route's ErrorHandler, bubbling to the root fallback when
// no route on the chain declares one.
package nav
