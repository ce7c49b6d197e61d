package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/navkit-dev/navkit/internal/contacts"
	"github.com/navkit-dev/navkit/internal/inspect"
	"github.com/navkit-dev/navkit/pkg/nav"
	"github.com/navkit-dev/navkit/pkg/observe"
)

// appFlags are the persistent flags shared by every subcommand.
type appFlags struct {
	dbPath      string
	inspectAddr string
	verbose     bool
}

// app wires the store, route table, controller, and optional inspection
// server together for one command invocation.
type app struct {
	store      contacts.Store
	ctrl       *nav.Controller
	inspectSrv *inspect.Server

	closers []func()
}

// newApp builds an app from the flags. Callers must defer app.close().
func newApp(ctx context.Context, flags *appFlags) (*app, error) {
	a := &app{}

	if flags.dbPath != "" {
		bs, err := contacts.OpenBolt(flags.dbPath)
		if err != nil {
			return nil, err
		}
		a.store = bs
		a.closers = append(a.closers, func() { bs.Close() })
	} else {
		ms := contacts.NewMemoryStore()
		seedDemo(ms)
		a.store = ms
	}

	table, err := buildRoutes(a.store)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("building route table: %w", err)
	}

	logOut := io.Discard
	if flags.verbose {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

	registry := prometheus.NewRegistry()
	metrics := observe.NewMetrics(observe.WithRegistry(registry))

	opts := []nav.Option{
		nav.WithLogger(logger),
		nav.WithObserver(metrics),
	}

	if flags.inspectAddr != "" {
		a.inspectSrv = inspect.NewServer(inspect.Config{
			Logger:   logger,
			Registry: registry,
		})
		addr, err := a.inspectSrv.Start(ctx, flags.inspectAddr)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("starting inspect server: %w", err)
		}
		info("inspecting at ws://%s/events", addr)
		a.closers = append(a.closers, a.inspectSrv.Close)
		opts = append(opts, nav.WithObserver(a.inspectSrv))
	}

	a.ctrl = nav.New(table, opts...)
	a.closers = append(a.closers, a.ctrl.Close)

	if err := a.ctrl.Start(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("loading initial route: %w", err)
	}
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// printSnapshot renders the settled state the way a view layer would.
func printSnapshot(snap nav.Snapshot) {
	info("location: %s", snap.Location.String())
	if snap.Err != nil {
		errorMsg("%s", snap.Err)
		return
	}
	for _, data := range snap.Data {
		switch d := data.(type) {
		case contactListData:
			if d.Query != "" {
				info("contacts matching %q:", d.Query)
			} else {
				info("contacts:")
			}
			if len(d.Contacts) == 0 {
				info("  (none)")
			}
			for _, c := range d.Contacts {
				star := " "
				if c.Favorite {
					star = "★"
				}
				info("  %s %-24s %s", star, c.DisplayName(), c.ID)
			}
		case contactDetail:
			printContact(d.Contact)
		}
	}
	if d, ok := snap.ActionData.(contactDetail); ok {
		info("updated:")
		printContact(d.Contact)
	}
}

func printContact(c contacts.Contact) {
	star := ""
	if c.Favorite {
		star = " ★"
	}
	info("  %s%s", c.DisplayName(), star)
	info("    id:      %s", c.ID)
	if c.Twitter != "" {
		info("    twitter: %s", c.Twitter)
	}
	if c.Notes != "" {
		info("    notes:   %s", c.Notes)
	}
	info("    created: %s", c.CreatedAt.Format(time.RFC3339))
}

// seedDemo fills the in-memory store with a recognizable address book.
func seedDemo(s *contacts.MemoryStore) {
	base := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	s.Seed(
		contacts.Contact{ID: "1", First: "Ada", Last: "Lovelace", Twitter: "@ada", Favorite: true, CreatedAt: base},
		contacts.Contact{ID: "2", First: "Grace", Last: "Hopper", Twitter: "@grace", CreatedAt: base.Add(time.Hour)},
		contacts.Contact{ID: "3", First: "Alan", Last: "Turing", Twitter: "@alan", CreatedAt: base.Add(2 * time.Hour)},
		contacts.Contact{ID: "4", First: "Edsger", Last: "Dijkstra", Notes: "prefers shortest paths", CreatedAt: base.Add(3 * time.Hour)},
		contacts.Contact{ID: "5", First: "Barbara", Last: "Liskov", CreatedAt: base.Add(4 * time.Hour)},
	)
}
