package nav

import (
	"testing"

	"github.com/navkit-dev/navkit/pkg/location"
)

func TestMemoryHistoryPushAndGo(t *testing.T) {
	h := NewMemoryHistory(location.MustParse("/"))
	h.Push(location.MustParse("/a"))
	h.Push(location.MustParse("/b"))

	if got := h.Current().Path; got != "/b" {
		t.Fatalf("current = %q, want /b", got)
	}
	if h.Len() != 3 {
		t.Fatalf("len = %d, want 3", h.Len())
	}

	h.Go(-1)
	if got := h.Current().Path; got != "/a" {
		t.Errorf("after back, current = %q, want /a", got)
	}

	h.Go(1)
	if got := h.Current().Path; got != "/b" {
		t.Errorf("after forward, current = %q, want /b", got)
	}
}

func TestMemoryHistoryGoClampsOutOfRange(t *testing.T) {
	h := NewMemoryHistory(location.MustParse("/"))
	h.Push(location.MustParse("/a"))

	h.Go(-10)
	if got := h.Current().Path; got != "/" {
		t.Errorf("back past start, current = %q, want /", got)
	}

	h.Go(10)
	if got := h.Current().Path; got != "/a" {
		t.Errorf("forward past end, current = %q, want /a", got)
	}
}

func TestMemoryHistoryPushTruncatesForward(t *testing.T) {
	h := NewMemoryHistory(location.MustParse("/"))
	h.Push(location.MustParse("/a"))
	h.Push(location.MustParse("/b"))
	h.Go(-1)
	h.Push(location.MustParse("/c"))

	if h.Len() != 3 {
		t.Fatalf("len = %d, want 3", h.Len())
	}
	if got := h.Current().Path; got != "/c" {
		t.Errorf("current = %q, want /c", got)
	}
	h.Go(1)
	if got := h.Current().Path; got != "/c" {
		t.Errorf("forward after truncation, current = %q, want /c", got)
	}
}

func TestMemoryHistoryListeners(t *testing.T) {
	h := NewMemoryHistory(location.MustParse("/"))
	h.Push(location.MustParse("/a"))

	var fired []string
	remove := h.Listen(func(loc location.Location) {
		fired = append(fired, loc.Path)
	})

	// Push and Replace are silent, only Go fires.
	h.Push(location.MustParse("/b"))
	h.Replace(location.MustParse("/b2"))
	if len(fired) != 0 {
		t.Fatalf("push/replace fired listeners: %v", fired)
	}

	h.Go(-1)
	if len(fired) != 1 || fired[0] != "/a" {
		t.Fatalf("after back, fired = %v, want [/a]", fired)
	}

	// A clamped move still fires once; a zero-distance move is silent.
	h.Go(-5)
	h.Go(-1)
	if len(fired) != 2 || fired[1] != "/" {
		t.Fatalf("fired = %v, want [/a /]", fired)
	}

	remove()
	h.Go(1)
	if len(fired) != 2 {
		t.Errorf("removed listener still fired: %v", fired)
	}
}
