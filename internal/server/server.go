package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/miniapp/internal/app"
	"github.com/nfrund/miniapp/internal/config"
	"github.com/nfrund/miniapp/internal/middleware"
	"github.com/nfrund/miniapp/internal/pubsub"
	"github.com/nfrund/miniapp/internal/rendering"
	"github.com/samber/do/v2"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E        *echo.Echo
	Cfg      *config.Config
	injector *do.RootScope
	modules  []app.Mounted

	// cancel stops the background work started by module Boot.
	cancel context.CancelFunc
}

// New creates a Server with all middleware installed. Modules are booted by
// RegisterRoutes.
func New(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: config is required")
	}
	injector := app.NewContainer(cfg)

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.Renderer = do.MustInvoke[*rendering.UniversalRenderer](injector)
	setupErrorHandling(e)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   !cfg.IsDevelopment(),
		// The page runs inside the chat app's webview, which is cross-site.
		SameSite: sameSiteMode(cfg),
	}
	e.Use(session.Middleware(store))

	return &Server{
		E:        e,
		Cfg:      cfg,
		injector: injector,
	}, nil
}

// Injector exposes the service container, useful for tests.
func (s *Server) Injector() do.Injector {
	return s.injector
}

// bootModules boots every module under its mount path.
func (s *Server) bootModules() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.modules = app.NewModules(s.injector)
	for _, m := range s.modules {
		if err := m.Module.Boot(ctx, s.E.Group(m.Path)); err != nil {
			cancel()
			return fmt.Errorf("failed to boot module %s: %w", m.Module.Name(), err)
		}
		slog.Debug("Module booted", "module", m.Module.Name(), "path", m.Path)
	}
	return nil
}

// shutdownModules stops background work and lets each module clean up.
func (s *Server) shutdownModules(ctx context.Context) {
	for _, m := range s.modules {
		if err := m.Module.Shutdown(ctx); err != nil {
			slog.Error("Module shutdown failed", "module", m.Module.Name(), "error", err)
		}
	}
	if s.cancel != nil {
		s.cancel()
	}
	if bus, err := do.Invoke[*pubsub.WatermillBridge](s.injector); err == nil {
		if err := bus.Close(); err != nil {
			slog.Error("Failed to close message bus", "error", err)
		}
	}
}
