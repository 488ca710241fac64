package audit

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/miniapp/internal/module"
	"github.com/nfrund/miniapp/internal/pubsub"
)

// Dependencies holds the services the audit module requires.
type Dependencies struct {
	Subscriber pubsub.Subscriber
	// ExposeStats mounts GET /stats with the outcome counters.
	ExposeStats bool
}

// Module records verification outcomes published by the miniapp module.
type Module struct {
	module.BaseModule
	deps  Dependencies
	stats *Stats
}

// New creates the module.
func New(deps Dependencies) *Module {
	return &Module{deps: deps, stats: &Stats{}}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "audit"
}

// Stats returns the live counters.
func (m *Module) Stats() *Stats {
	return m.stats
}

// Boot starts the outcome subscriber and optionally exposes the counters.
func (m *Module) Boot(ctx context.Context, g *echo.Group) error {
	slog.Info("Booting audit module: subscribing to verification outcomes...")
	if err := NewSubscriber(m.deps.Subscriber, m.stats).Start(ctx); err != nil {
		return err
	}

	if m.deps.ExposeStats {
		g.GET("/stats", func(c echo.Context) error {
			return c.JSON(http.StatusOK, m.stats.Snapshot())
		})
	}
	return nil
}

// Shutdown logs the final counters.
func (m *Module) Shutdown(ctx context.Context) error {
	snap := m.stats.Snapshot()
	slog.Info("Shutting down audit module", "verified", snap.Verified, "failed", snap.Failed, "bypassed", snap.Bypassed)
	return nil
}
