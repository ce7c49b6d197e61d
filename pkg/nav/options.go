package nav

import (
	"log/slog"

	"github.com/navkit-dev/navkit/pkg/routetree"
)

// defaultRedirectLimit bounds redirect chains within one cycle.
const defaultRedirectLimit = 10

// Option configures a Controller at construction.
type Option func(*Controller)

// WithHistory sets the history the controller synchronizes with. Defaults
// to a MemoryHistory rooted at "/".
func WithHistory(h History) Option {
	return func(c *Controller) {
		c.history = h
	}
}

// WithRedirectLimit sets the maximum redirect-chain length per cycle.
// Past the limit the cycle fails with ErrRedirectLoop.
func WithRedirectLimit(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.redirectLimit = n
		}
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// WithObserver attaches one or more lifecycle observers.
func WithObserver(obs ...Observer) Option {
	return func(c *Controller) {
		c.observers = append(c.observers, obs...)
	}
}

// WithRootErrorHandler sets the fallback handler for errors that bubble
// past every route on the chain, and for match failures which have no
// chain at all.
func WithRootErrorHandler(h routetree.ErrorHandler) Option {
	return func(c *Controller) {
		c.rootHandler = h
	}
}

// NavigateOptions configures a single Navigate or Submit call.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool
}

// NavigateOption is a functional option for Navigate and Submit.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

func applyNavigateOptions(opts []NavigateOption) NavigateOptions {
	var options NavigateOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
