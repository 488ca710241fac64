package app

import (
	"net/http"

	"github.com/nfrund/miniapp/internal/config"
	"github.com/nfrund/miniapp/internal/mockdata"
	"github.com/nfrund/miniapp/internal/profile"
	"github.com/nfrund/miniapp/internal/pubsub"
	"github.com/nfrund/miniapp/internal/rendering"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"
)

// NewContainer registers the application's shared services. Services are
// built lazily on first use.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, cfg)

	do.Provide(injector, func(i do.Injector) (*pubsub.WatermillBridge, error) {
		return pubsub.NewWatermillBridge(), nil
	})

	do.Provide(injector, func(i do.Injector) (afero.Fs, error) {
		return afero.NewOsFs(), nil
	})

	do.Provide(injector, func(i do.Injector) (*mockdata.Store, error) {
		cfg := do.MustInvoke[*config.Config](i)
		fs := do.MustInvoke[afero.Fs](i)
		return mockdata.NewStore(fs, cfg.MockUserFile), nil
	})

	do.Provide(injector, func(i do.Injector) (*profile.Catalog, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return profile.NewCatalog(cfg.DefaultLocale)
	})

	// No timeout: a verification attempt ends only when the endpoint answers
	// or the request that started it goes away.
	do.Provide(injector, func(i do.Injector) (*http.Client, error) {
		return &http.Client{}, nil
	})

	do.Provide(injector, func(i do.Injector) (*rendering.UniversalRenderer, error) {
		return rendering.NewUniversalRenderer(), nil
	})

	return injector
}
