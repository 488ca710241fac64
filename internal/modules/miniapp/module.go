package miniapp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/miniapp/internal/config"
	"github.com/nfrund/miniapp/internal/middleware"
	"github.com/nfrund/miniapp/internal/mockdata"
	"github.com/nfrund/miniapp/internal/module"
	"github.com/nfrund/miniapp/internal/profile"
	"github.com/nfrund/miniapp/internal/pubsub"
)

// Dependencies holds the services the mini-app module requires.
type Dependencies struct {
	Config     *config.Config
	Publisher  pubsub.Publisher
	MockStore  *mockdata.Store
	Labels     profile.LabelSource
	HTTPClient *http.Client
	// BasePath is where the server mounts the module, e.g. "/app".
	BasePath string
}

// Module serves the mini-app profile page.
type Module struct {
	module.BaseModule
	deps Dependencies
}

// New creates the module.
func New(deps Dependencies) *Module {
	return &Module{deps: deps}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "miniapp"
}

// Boot registers the routes and, when the development bypass is allowed,
// starts hot-reloading the mock user.
func (m *Module) Boot(ctx context.Context, g *echo.Group) error {
	slog.Info("Booting miniapp module: setting up routes...")

	handler := NewHandler(m.deps, m.deps.BasePath+"/verify")
	g.GET("", handler.Page)
	g.POST("/verify", handler.Verify,
		handler.inlineFailures,
		middleware.RateLimiterWithDenyHandler(m.deps.Config.RateLimitPerMin, handler.Throttled),
	)

	if m.deps.Config.AllowDevBypass && m.deps.MockStore != nil {
		if err := m.deps.MockStore.Load(); err != nil {
			slog.Warn("Could not load mock user, using the built-in one", "error", err)
		}
		if m.deps.Config.IsDevelopment() {
			if err := m.deps.MockStore.Watch(ctx); err != nil {
				slog.Warn("Mock user hot-reload unavailable", "error", err)
			}
		}
	}
	return nil
}
