package nav

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/navkit-dev/navkit/pkg/location"
	"github.com/navkit-dev/navkit/pkg/routetree"
)

// State is the controller's navigation state.
type State int

const (
	// StateIdle means no cycle is in flight.
	StateIdle State = iota

	// StateLoading means loaders for a navigation target are running.
	StateLoading

	// StateSubmitting means a mutating submission's action is running.
	StateSubmitting
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Submission is a form-style mutation targeting a route.
type Submission struct {
	// Method is MethodGet for read-only auto-submits (which fold the form
	// into the query and load) or MethodPost for mutations. Defaults to
	// MethodPost.
	Method string

	// Target is the path of the route whose action handles the
	// submission, e.g. "/contacts/5/edit".
	Target string

	// Form is the serialized key→value payload.
	Form url.Values
}

// Controller is the single authority over navigation state for one route
// table. All transitions are linearized through it; loaders it triggers run
// concurrently but their results are applied atomically, and only for the
// latest cycle ("last navigation wins").
type Controller struct {
	table         *routetree.Table
	history       History
	log           *slog.Logger
	observers     []Observer
	redirectLimit int
	rootHandler   routetree.ErrorHandler

	mu       sync.Mutex
	state    State
	gen      uint64
	cancel   context.CancelFunc
	snapshot Snapshot
	subs     map[uint64]func(Snapshot)
	nextSub  uint64
	subGens  map[routetree.NodeID]uint64
	closed   bool

	// workMu keeps actions exclusive of loaders: a loader fan-out holds
	// the read side, an action holds the write side.
	workMu sync.RWMutex

	unlisten func()
}

// New creates a controller for the given table. The controller starts Idle
// with an empty snapshot; call Start to load the initial location's chain.
func New(table *routetree.Table, opts ...Option) *Controller {
	if table == nil {
		panic("nav: nil route table")
	}
	c := &Controller{
		table:         table,
		redirectLimit: defaultRedirectLimit,
		subs:          make(map[uint64]func(Snapshot)),
		subGens:       make(map[routetree.NodeID]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.history == nil {
		c.history = NewMemoryHistory(location.Location{Path: "/"})
	}
	if c.log == nil {
		c.log = slog.Default()
	}

	// External back/forward re-enters like any other navigation. Loaders
	// re-run; there is no per-location cache to serve from.
	c.unlisten = c.history.Listen(func(loc location.Location) {
		_ = c.Navigate(context.Background(), loc)
	})
	return c
}

// Start loads the chain for the history's current location, so the
// controller settles into Idle with initial data.
func (c *Controller) Start(ctx context.Context) error {
	return c.Navigate(ctx, c.history.Current(), WithReplace())
}

// State returns the current navigation state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns the latest settled snapshot. Consumers must treat it as
// read-only.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Location returns the latest settled location.
func (c *Controller) Location() location.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot.Location
}

// Subscribe registers fn to receive every settled snapshot. It returns a
// function that removes the subscription.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Navigate runs a GET-style navigation to target: match, run every loader
// on the chain concurrently, follow redirects up to the limit, then settle.
// A newer Navigate or Submit supersedes this one, in which case Navigate
// returns ErrSuperseded and the stale results never reach the snapshot.
func (c *Controller) Navigate(ctx context.Context, target location.Location, opts ...NavigateOption) error {
	options := applyNavigateOptions(opts)

	gen, navCtx, err := c.begin(ctx, StateLoading)
	if err != nil {
		return err
	}

	start := time.Now()
	octx := navCtx
	for _, obs := range c.observers {
		octx = obs.CycleStarted(octx, CycleNavigation, target)
	}

	err = c.runNavigation(octx, gen, target, options.Replace, nil)

	for _, obs := range c.observers {
		obs.CycleSettled(octx, CycleNavigation, target, time.Since(start), err)
	}
	return err
}

// Submit runs a mutating submission: match the target, run the deepest
// route's action exactly once, then either follow its redirect or re-run
// the current chain's loaders so displayed data reflects the mutation.
// Read-only submissions (MethodGet) are folded into the query string and
// handled as a plain navigation.
func (c *Controller) Submit(ctx context.Context, sub Submission, opts ...NavigateOption) error {
	target, err := location.Parse(sub.Target)
	if err != nil {
		return err
	}

	if sub.Method == "" {
		sub.Method = routetree.MethodPost
	}
	if sub.Method == routetree.MethodGet {
		return c.Navigate(ctx, target.WithQuery(sub.Form), opts...)
	}

	options := applyNavigateOptions(opts)

	gen, navCtx, err := c.begin(ctx, StateSubmitting)
	if err != nil {
		return err
	}

	start := time.Now()
	octx := navCtx
	for _, obs := range c.observers {
		octx = obs.CycleStarted(octx, CycleSubmission, target)
	}

	err = c.runSubmission(octx, gen, target, sub, options.Replace)

	for _, obs := range c.observers {
		obs.CycleSettled(octx, CycleSubmission, target, time.Since(start), err)
	}
	return err
}

// Cancel aborts whatever cycle is in flight and returns the controller to
// Idle without touching the snapshot. Intended for UI teardown.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = StateIdle
	c.mu.Unlock()
}

// Close cancels in-flight work, detaches from the history, and removes all
// subscribers. Further operations return ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = StateIdle
	c.subs = make(map[uint64]func(Snapshot))
	unlisten := c.unlisten
	c.unlisten = nil
	c.mu.Unlock()

	if unlisten != nil {
		unlisten()
	}
}

// Go moves the history by delta entries. The resulting history event
// re-enters the controller as a fresh navigation.
func (c *Controller) Go(delta int) { c.history.Go(delta) }

// GoBack moves one entry back in history.
func (c *Controller) GoBack() { c.Go(-1) }

// GoForward moves one entry forward in history.
func (c *Controller) GoForward() { c.Go(1) }

// begin claims a new cycle: bumps the generation, cancels any in-flight
// work, and transitions to s.
func (c *Controller) begin(ctx context.Context, s State) (uint64, context.Context, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, nil, ErrClosed
	}
	c.gen++
	if c.cancel != nil {
		c.cancel()
	}
	navCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state = s
	return c.gen, navCtx, nil
}

// transition moves to s if this cycle is still the latest.
func (c *Controller) transition(gen uint64, s State) {
	c.mu.Lock()
	if gen == c.gen {
		c.state = s
	}
	c.mu.Unlock()
}

// runNavigation drives the match → load → settle loop, following redirects.
func (c *Controller) runNavigation(ctx context.Context, gen uint64, target location.Location, replace bool, actionData any) error {
	for hops := 0; ; hops++ {
		if hops > c.redirectLimit {
			navErr := &NavError{
				Category: CategoryRedirect,
				Status:   http.StatusLoopDetected,
				Message:  fmt.Sprintf("more than %d redirects", c.redirectLimit),
				Wrapped:  ErrRedirectLoop,
			}
			c.log.Debug("navigation failed", "reason", "redirect loop", "target", target.String())
			c.settleError(gen, navErr)
			return navErr
		}

		chain, err := c.table.Match(target)
		if err != nil {
			navErr := &NavError{
				Category: CategoryMatch,
				Status:   http.StatusNotFound,
				Message:  err.Error(),
				Wrapped:  err,
			}
			req := &routetree.Request{Location: target, Params: map[string]string{}, Method: routetree.MethodGet}
			c.dispatchError(nil, -1, req, navErr)
			c.settleError(gen, navErr)
			return navErr
		}

		req := &routetree.Request{Location: target, Params: chain.Params(), Method: routetree.MethodGet}
		data, redir, failedAt, err := c.runLoaders(ctx, chain, req)
		if redir != nil {
			for _, obs := range c.observers {
				obs.RedirectFollowed(ctx, target, redir.To)
			}
			c.log.Debug("redirect followed", "from", target.String(), "to", redir.To.String())
			target = redir.To
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				c.discard(ctx, target)
				return ErrSuperseded
			}
			navErr := &NavError{
				Category: CategoryLoader,
				Status:   statusOf(err),
				Route:    chain[failedAt].Node.Pattern(),
				Message:  err.Error(),
				Wrapped:  err,
			}
			c.dispatchError(chain, failedAt, req, navErr)
			c.settleError(gen, navErr)
			return navErr
		}

		if !c.settleSuccess(gen, target, data, actionData, replace) {
			c.discard(ctx, target)
			return ErrSuperseded
		}
		c.log.Debug("navigation settled", "location", target.String(), "routes", len(chain))
		return nil
	}
}

// runSubmission runs the action phase and hands off to runNavigation for
// the refresh or redirect.
func (c *Controller) runSubmission(ctx context.Context, gen uint64, target location.Location, sub Submission, replace bool) error {
	chain, err := c.table.Match(target)
	if err != nil {
		navErr := &NavError{
			Category: CategoryMatch,
			Status:   http.StatusNotFound,
			Message:  err.Error(),
			Wrapped:  err,
		}
		req := &routetree.Request{Location: target, Params: map[string]string{}, Method: sub.Method, Form: sub.Form}
		c.dispatchError(nil, -1, req, navErr)
		c.settleError(gen, navErr)
		return navErr
	}

	leaf := chain.Leaf().Node
	req := &routetree.Request{Location: target, Params: chain.Params(), Method: sub.Method, Form: sub.Form}

	action := leaf.Action()
	if action == nil {
		navErr := &NavError{
			Category: CategoryAction,
			Status:   http.StatusMethodNotAllowed,
			Route:    leaf.Pattern(),
			Message:  ErrNoAction.Error(),
			Wrapped:  ErrNoAction,
		}
		c.dispatchError(chain, len(chain)-1, req, navErr)
		c.settleError(gen, navErr)
		return navErr
	}

	// Per-route supersession: a newer submission to this route makes the
	// current one stale even before global cancellation is observed.
	c.mu.Lock()
	c.subGens[leaf.ID()]++
	subGen := c.subGens[leaf.ID()]
	c.mu.Unlock()

	result, err := c.runAction(ctx, action, req)

	if c.submissionStale(leaf.ID(), subGen) {
		c.discard(ctx, target)
		return ErrSuperseded
	}

	if err != nil {
		var redir *Redirect
		if errors.As(err, &redir) {
			for _, obs := range c.observers {
				obs.RedirectFollowed(ctx, target, redir.To)
			}
			c.log.Debug("action redirect", "from", target.String(), "to", redir.To.String())
			c.transition(gen, StateLoading)
			return c.runNavigation(ctx, gen, redir.To, replace, nil)
		}
		if ctx.Err() != nil {
			c.discard(ctx, target)
			return ErrSuperseded
		}
		navErr := &NavError{
			Category: CategoryAction,
			Status:   statusOf(err),
			Route:    leaf.Pattern(),
			Message:  err.Error(),
			Wrapped:  err,
		}
		c.dispatchError(chain, len(chain)-1, req, navErr)
		c.settleError(gen, navErr)
		return navErr
	}

	// Data result: re-run the current chain's loaders so displayed data
	// reflects the mutation, then settle with the action result attached.
	c.transition(gen, StateLoading)
	return c.runNavigation(ctx, gen, c.currentLocation(), true, result)
}

// runLoaders fans out every loader on the chain and waits for all of them.
// Results are only assembled once each loader settled; a redirect or error
// cancels the remaining siblings via the group context.
func (c *Controller) runLoaders(ctx context.Context, chain routetree.Chain, req *routetree.Request) (map[routetree.NodeID]any, *Redirect, int, error) {
	c.workMu.RLock()
	defer c.workMu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	results := make([]any, len(chain))
	for i, m := range chain {
		loader := m.Node.Loader()
		if loader == nil {
			continue
		}
		i, m := i, m
		g.Go(func() error {
			out, err := loader(gctx, req)
			if err != nil {
				return &loaderFailure{index: i, route: m.Node.Pattern(), err: err}
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var failure *loaderFailure
		if errors.As(err, &failure) {
			var redir *Redirect
			if errors.As(failure.err, &redir) {
				return nil, redir, 0, nil
			}
			return nil, nil, failure.index, failure.err
		}
		return nil, nil, 0, err
	}

	data := make(map[routetree.NodeID]any, len(chain))
	for i, m := range chain {
		if m.Node.Loader() != nil {
			data[m.Node.ID()] = results[i]
		}
	}
	return data, nil, 0, nil
}

// runAction executes the action exclusively: never concurrent with another
// action or with loader fan-outs on this controller.
func (c *Controller) runAction(ctx context.Context, action routetree.Action, req *routetree.Request) (any, error) {
	c.workMu.Lock()
	defer c.workMu.Unlock()
	return action(ctx, req)
}

// loaderFailure carries which chain entry failed.
type loaderFailure struct {
	index int
	route string
	err   error
}

func (f *loaderFailure) Error() string { return f.route + ": " + f.err.Error() }
func (f *loaderFailure) Unwrap() error { return f.err }

// settleSuccess atomically publishes the new snapshot if this cycle is
// still the latest. Returns false when superseded.
func (c *Controller) settleSuccess(gen uint64, target location.Location, data map[routetree.NodeID]any, actionData any, replace bool) bool {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return false
	}
	snap := Snapshot{Location: target, Data: data, ActionData: actionData}
	c.snapshot = snap
	c.state = StateIdle
	// The cycle is settled; cancel to release the context registration.
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	// Keep the host navigation stack consistent. A history-triggered
	// navigation is already current and needs no entry.
	if !c.history.Current().Equal(target) {
		if replace {
			c.history.Replace(target)
		} else {
			c.history.Push(target)
		}
	}
	subs := c.copySubsLocked()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return true
}

// settleError returns to Idle leaving the previous settled location and
// data intact, with the error attached to the published snapshot.
func (c *Controller) settleError(gen uint64, navErr *NavError) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.state = StateIdle
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	snap := c.snapshot
	snap.Err = navErr
	snap.ActionData = nil
	c.snapshot = snap
	subs := c.copySubsLocked()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// dispatchError routes err to the nearest enclosing handler, starting at
// chain[from] and bubbling toward the root fallback.
func (c *Controller) dispatchError(chain routetree.Chain, from int, req *routetree.Request, err error) {
	for i := from; i >= 0; i-- {
		if h := chain[i].Node.ErrorHandler(); h != nil {
			h(req, err)
			return
		}
	}
	if c.rootHandler != nil {
		c.rootHandler(req, err)
	}
}

// discard reports a stale cycle's results being thrown away.
func (c *Controller) discard(ctx context.Context, target location.Location) {
	for _, obs := range c.observers {
		obs.ResultDiscarded(ctx, target)
	}
	c.log.Debug("stale results discarded", "target", target.String())
}

// copySubsLocked snapshots the subscriber list; callers notify outside the
// lock.
func (c *Controller) copySubsLocked() []func(Snapshot) {
	subs := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return subs
}

// submissionStale reports whether a newer submission claimed the route.
func (c *Controller) submissionStale(id routetree.NodeID, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subGens[id] != gen
}

// currentLocation is the settled location, falling back to the history for
// a controller that has not loaded yet.
func (c *Controller) currentLocation() location.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot.Location.Path == "" {
		return c.history.Current()
	}
	return c.snapshot.Location
}
