package shell

import (
	"context"
	"fmt"

	"github.com/msto63/leitstand/internal/router"
	"github.com/msto63/leitstand/pkg/core/health"
	"github.com/msto63/leitstand/pkg/core/version"
)

// Health returns the self checks of the app: store, dictionaries, router,
// page rendering and the system probe.
func (a *App) Health() *health.Registry {
	r := health.NewRegistry(a.Config.General.Name, version.Version)
	r.RegisterFunc("storage", a.checkStorage)
	r.RegisterFunc("i18n", a.checkI18n)
	r.RegisterFunc("router", a.checkRouter)
	r.RegisterFunc("render", a.checkRender)
	r.RegisterFunc("probe", a.checkProbe)
	return r
}

func (a *App) checkStorage(context.Context) health.CheckResult {
	res := health.CheckResult{
		Status: health.StatusHealthy,
		Details: map[string]interface{}{
			"backend":   a.Config.Storage.Backend,
			"namespace": a.Store.Namespace(),
			"keys":      len(a.Store.Keys()),
		},
	}
	if a.Store.Degraded() {
		res.Status = health.StatusDegraded
		res.Message = "settings are kept in memory only"
	}
	return res
}

func (a *App) checkI18n(context.Context) health.CheckResult {
	langs := a.Registry.Languages()
	res := health.CheckResult{
		Status: health.StatusHealthy,
		Details: map[string]interface{}{
			"languages": langs,
			"current":   a.Registry.Language(),
		},
	}
	for _, l := range langs {
		if l == a.Registry.DefaultLanguage() {
			return res
		}
	}
	res.Status = health.StatusUnhealthy
	res.Message = fmt.Sprintf("default language %q has no dictionary", a.Registry.DefaultLanguage())
	return res
}

func (a *App) checkRouter(context.Context) health.CheckResult {
	resolutions, redirects := a.Router.Stats()
	res := health.CheckResult{
		Status: health.StatusHealthy,
		Details: map[string]interface{}{
			"state":       a.Router.State().String(),
			"route":       a.Router.CurrentRoute().Fragment(),
			"resolutions": resolutions,
			"redirects":   redirects,
		},
	}
	if a.Router.State() == router.Uninitialized {
		res.Status = health.StatusDegraded
		res.Message = "router not started"
	}
	return res
}

func (a *App) checkRender(context.Context) health.CheckResult {
	renders, failures := a.Composer.Stats()
	res := health.CheckResult{
		Status:  health.StatusHealthy,
		Details: map[string]interface{}{"renders": renders, "failures": failures},
	}
	if failures > 0 {
		res.Status = health.StatusDegraded
		res.Message = fmt.Sprintf("%d page renders failed", failures)
	}
	return res
}

func (a *App) checkProbe(ctx context.Context) health.CheckResult {
	snap, err := a.probe.Snapshot(ctx)
	if err != nil {
		return health.CheckResult{Status: health.StatusDegraded, Message: err.Error()}
	}
	return health.CheckResult{
		Status:  health.StatusHealthy,
		Details: map[string]interface{}{"hostname": snap.Hostname, "platform": snap.Platform},
	}
}
