package app

import (
	"net/http"

	"github.com/nfrund/miniapp/internal/config"
	"github.com/nfrund/miniapp/internal/mockdata"
	"github.com/nfrund/miniapp/internal/module"
	"github.com/nfrund/miniapp/internal/modules/audit"
	"github.com/nfrund/miniapp/internal/modules/miniapp"
	"github.com/nfrund/miniapp/internal/profile"
	"github.com/nfrund/miniapp/internal/pubsub"
	"github.com/samber/do/v2"
)

// Mount paths of the modules.
const (
	MiniAppPath = "/app"
	AuditPath   = "/app/audit"
)

// Mounted pairs a module with the path the server mounts it under.
type Mounted struct {
	Path   string
	Module module.Module
}

// NewModules creates the list of all active modules. This is the single
// source of truth for which features are enabled.
func NewModules(injector do.Injector) []Mounted {
	cfg := do.MustInvoke[*config.Config](injector)
	bus := do.MustInvoke[*pubsub.WatermillBridge](injector)

	return []Mounted{
		{Path: MiniAppPath, Module: miniapp.New(miniappDeps(injector, cfg, bus))},
		{Path: AuditPath, Module: audit.New(auditDeps(cfg, bus))},
	}
}

// miniappDeps creates the dependency struct for the miniapp module.
func miniappDeps(i do.Injector, cfg *config.Config, bus *pubsub.WatermillBridge) miniapp.Dependencies {
	return miniapp.Dependencies{
		Config:     cfg,
		Publisher:  bus,
		MockStore:  do.MustInvoke[*mockdata.Store](i),
		Labels:     do.MustInvoke[*profile.Catalog](i),
		HTTPClient: do.MustInvoke[*http.Client](i),
		BasePath:   MiniAppPath,
	}
}

// auditDeps creates the dependency struct for the audit module.
func auditDeps(cfg *config.Config, bus *pubsub.WatermillBridge) audit.Dependencies {
	return audit.Dependencies{
		Subscriber:  bus,
		ExposeStats: cfg.Diagnostics,
	}
}
