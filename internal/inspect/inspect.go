// Package inspect serves a small HTTP surface for watching a navigation
// controller at work: a WebSocket stream of settle events, Prometheus
// metrics, and a health check. It exists for development and demos, the
// way a browser devtools panel would watch the router.
package inspect

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/navkit-dev/navkit/pkg/location"
	"github.com/navkit-dev/navkit/pkg/nav"
)

// Server exposes the inspection endpoints. It implements nav.Observer, so
// wire it into a controller with nav.WithObserver(srv).
type Server struct {
	hub      *hub
	mux      *chi.Mux
	log      *slog.Logger
	registry *prometheus.Registry

	httpSrv *http.Server
}

// Config controls the server's wiring.
type Config struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Registry is the Prometheus registry served at /metrics. Defaults
	// to a fresh registry; pass the one given to observe.NewMetrics to
	// expose the navigation metrics.
	Registry *prometheus.Registry
}

// NewServer builds the inspection server.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	s := &Server{
		hub:      newHub(),
		log:      cfg.Logger,
		registry: cfg.Registry,
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Get("/events", s.hub.handleWebSocket)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	s.mux = r
	return s
}

// Handler returns the HTTP handler, for mounting into a larger mux.
func (s *Server) Handler() http.Handler { return s.mux }

// Start listens on addr and serves until the context is canceled. It
// returns the address actually bound, useful with ":0".
func (s *Server) Start(ctx context.Context, addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	s.httpSrv = &http.Server{Handler: s.mux}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("inspect server failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		s.Close()
	}()

	s.log.Info("inspect server listening", "addr", ln.Addr().String())
	return ln.Addr().String(), nil
}

// Close stops the HTTP server and disconnects all event stream clients.
func (s *Server) Close() {
	if s.httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.httpSrv.Shutdown(shutdownCtx)
	}
	s.hub.close()
}

// ClientCount returns how many websocket clients are watching /events.
func (s *Server) ClientCount() int { return s.hub.clientCount() }

// CycleStarted implements nav.Observer.
func (s *Server) CycleStarted(ctx context.Context, kind nav.CycleKind, target location.Location) context.Context {
	s.hub.broadcast(Event{
		Type:   EventCycleStarted,
		Kind:   kind.String(),
		Target: target.String(),
		Time:   time.Now().UTC(),
	})
	return ctx
}

// CycleSettled implements nav.Observer.
func (s *Server) CycleSettled(_ context.Context, kind nav.CycleKind, target location.Location, elapsed time.Duration, err error) {
	ev := Event{
		Type:      EventCycleSettled,
		Kind:      kind.String(),
		Target:    target.String(),
		ElapsedMS: float64(elapsed) / float64(time.Millisecond),
		Time:      time.Now().UTC(),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	s.hub.broadcast(ev)
}

// RedirectFollowed implements nav.Observer.
func (s *Server) RedirectFollowed(_ context.Context, from, to location.Location) {
	s.hub.broadcast(Event{
		Type:   EventRedirect,
		Target: to.String(),
		From:   from.String(),
		Time:   time.Now().UTC(),
	})
}

// ResultDiscarded implements nav.Observer.
func (s *Server) ResultDiscarded(_ context.Context, target location.Location) {
	s.hub.broadcast(Event{
		Type:   EventDiscarded,
		Target: target.String(),
		Time:   time.Now().UTC(),
	})
}
