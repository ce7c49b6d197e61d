package inspect

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/navkit-dev/navkit/pkg/location"
	"github.com/navkit-dev/navkit/pkg/nav"
)

func dialEvents(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, s *Server, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for s.ClientCount() < n {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount() = %d, want %d", s.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHealthz(t *testing.T) {
	s := NewServer(Config{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /healthz status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Errorf("GET /healthz body = %q, want ok", body)
	}
}

func TestMetricsEndpointServesRegistry(t *testing.T) {
	s := NewServer(Config{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /metrics status = %d, want 200", resp.StatusCode)
	}
}

func TestEventsStreamReceivesSettleEvents(t *testing.T) {
	s := NewServer(Config{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialEvents(t, ts)
	waitForClients(t, s, 1)

	target := location.MustParse("/contacts/abc")
	s.CycleSettled(context.Background(), nav.CycleNavigation, target, 42*time.Millisecond, nil)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	if ev.Type != EventCycleSettled {
		t.Errorf("event type = %q, want %q", ev.Type, EventCycleSettled)
	}
	if ev.Target != "/contacts/abc" {
		t.Errorf("event target = %q, want /contacts/abc", ev.Target)
	}
	if ev.Kind != "navigation" {
		t.Errorf("event kind = %q, want navigation", ev.Kind)
	}
	if ev.ElapsedMS != 42 {
		t.Errorf("event elapsedMs = %v, want 42", ev.ElapsedMS)
	}
}

func TestEventsStreamReportsErrors(t *testing.T) {
	s := NewServer(Config{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialEvents(t, ts)
	waitForClients(t, s, 1)

	target := location.MustParse("/nope")
	s.CycleSettled(context.Background(), nav.CycleNavigation, target, time.Millisecond, &nav.NavError{
		Category: nav.CategoryMatch,
		Status:   404,
		Message:  "no route matches /nope",
	})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var ev Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	if ev.Error == "" {
		t.Error("event error is empty, want the match failure message")
	}
}

func TestDisconnectedClientIsRemoved(t *testing.T) {
	s := NewServer(Config{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialEvents(t, ts)
	waitForClients(t, s, 1)
	conn.Close()

	// The hub notices the dead connection on the next broadcast.
	target := location.MustParse("/")
	deadline := time.Now().Add(time.Second)
	for s.ClientCount() > 0 {
		s.ResultDiscarded(context.Background(), target)
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount() = %d after disconnect, want 0", s.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
