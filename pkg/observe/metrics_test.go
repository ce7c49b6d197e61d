package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/navkit-dev/navkit/pkg/location"
	"github.com/navkit-dev/navkit/pkg/nav"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func counterVecValue(t *testing.T, v *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	c, err := v.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues error: %v", err)
	}
	return counterValue(t, c)
}

func TestMetricsCycleOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))

	ctx := context.Background()
	home := location.MustParse("/")

	m.CycleSettled(ctx, nav.CycleNavigation, home, 5*time.Millisecond, nil)
	m.CycleSettled(ctx, nav.CycleNavigation, home, 5*time.Millisecond, errors.New("boom"))
	m.CycleSettled(ctx, nav.CycleNavigation, home, 5*time.Millisecond, nav.ErrSuperseded)
	m.CycleSettled(ctx, nav.CycleSubmission, home, 5*time.Millisecond, nil)

	tests := []struct {
		kind, outcome string
		want          float64
	}{
		{"navigation", "ok", 1},
		{"navigation", "error", 1},
		{"navigation", "superseded", 1},
		{"submission", "ok", 1},
	}
	for _, tt := range tests {
		if got := counterVecValue(t, m.cycles, tt.kind, tt.outcome); got != tt.want {
			t.Errorf("cycles{kind=%s,outcome=%s} = %v, want %v", tt.kind, tt.outcome, got, tt.want)
		}
	}
}

func TestMetricsRedirectsAndDiscards(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test2"))

	ctx := context.Background()
	a := location.MustParse("/a")
	b := location.MustParse("/b")

	m.RedirectFollowed(ctx, a, b)
	m.RedirectFollowed(ctx, b, a)
	m.ResultDiscarded(ctx, a)

	if got := counterValue(t, m.redirects); got != 2 {
		t.Errorf("redirects = %v, want 2", got)
	}
	if got := counterValue(t, m.discards); got != 1 {
		t.Errorf("discards = %v, want 1", got)
	}
}

func TestMetricsObservesController(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test3"))

	table, err := routetreeFixture()
	if err != nil {
		t.Fatalf("fixture error: %v", err)
	}
	c := nav.New(table, nav.WithObserver(m))
	defer c.Close()

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := c.Navigate(context.Background(), location.MustParse("/old")); err != nil {
		t.Fatalf("Navigate returned error: %v", err)
	}

	if got := counterVecValue(t, m.cycles, "navigation", "ok"); got != 2 {
		t.Errorf("navigation ok cycles = %v, want 2", got)
	}
	if got := counterValue(t, m.redirects); got != 1 {
		t.Errorf("redirects = %v, want 1", got)
	}
}
