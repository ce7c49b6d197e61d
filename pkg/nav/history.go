package nav

import (
	"sync"

	"github.com/navkit-dev/navkit/pkg/location"
)

// History is the controller's view of the host navigation stack. The
// controller calls Push or Replace on every settle to keep the stack
// consistent, and listens for externally triggered moves (the back/forward
// analog), which re-enter the controller exactly like any other navigation.
//
// Push and Replace must not fire listeners; only Go does. This mirrors the
// browser contract, where pushState is silent and popstate fires on
// external traversal.
type History interface {
	// Push appends a new entry and makes it current.
	Push(loc location.Location)

	// Replace swaps the current entry in place.
	Replace(loc location.Location)

	// Go moves by delta entries (negative = back). Out-of-range deltas
	// are clamped; a move of zero distance fires no listeners.
	Go(delta int)

	// Current returns the current entry.
	Current() location.Location

	// Listen registers a listener for externally triggered moves and
	// returns a function that removes it.
	Listen(fn func(loc location.Location)) (remove func())
}

// MemoryHistory is an in-process History for tests, CLIs, and hosts without
// a browser stack.
type MemoryHistory struct {
	mu        sync.Mutex
	entries   []location.Location
	index     int
	listeners map[uint64]func(location.Location)
	nextID    uint64
}

// NewMemoryHistory creates a history whose only entry is initial.
func NewMemoryHistory(initial location.Location) *MemoryHistory {
	return &MemoryHistory{
		entries:   []location.Location{initial},
		listeners: make(map[uint64]func(location.Location)),
	}
}

// Push appends a new entry, truncating any forward entries.
func (h *MemoryHistory) Push(loc location.Location) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], loc)
	h.index = len(h.entries) - 1
}

// Replace swaps the current entry in place.
func (h *MemoryHistory) Replace(loc location.Location) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = loc
}

// Go moves by delta entries and notifies listeners if the position changed.
func (h *MemoryHistory) Go(delta int) {
	h.mu.Lock()
	target := h.index + delta
	if target < 0 {
		target = 0
	}
	if target > len(h.entries)-1 {
		target = len(h.entries) - 1
	}
	moved := target != h.index
	h.index = target
	current := h.entries[h.index]
	listeners := make([]func(location.Location), 0, len(h.listeners))
	for _, fn := range h.listeners {
		listeners = append(listeners, fn)
	}
	h.mu.Unlock()

	if !moved {
		return
	}
	// Notify outside the lock so listeners may call back into history.
	for _, fn := range listeners {
		fn(current)
	}
}

// Current returns the current entry.
func (h *MemoryHistory) Current() location.Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Listen registers a listener for Go moves.
func (h *MemoryHistory) Listen(fn func(location.Location)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// Len returns the number of entries in the stack.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Entries returns a copy of the stack, oldest first.
func (h *MemoryHistory) Entries() []location.Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]location.Location(nil), h.entries...)
}
