// Package shell builds the dashboard from its parts and owns their lifetime.
package shell

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/msto63/leitstand/internal/chrome"
	"github.com/msto63/leitstand/internal/composer"
	"github.com/msto63/leitstand/internal/i18n"
	"github.com/msto63/leitstand/internal/pages"
	"github.com/msto63/leitstand/internal/route"
	"github.com/msto63/leitstand/internal/router"
	"github.com/msto63/leitstand/internal/storage"
	"github.com/msto63/leitstand/internal/view"
	"github.com/msto63/leitstand/pkg/core/config"
	"github.com/msto63/leitstand/pkg/core/logging"
)

// Options configures an App. Zero fields are derived from Config.
type Options struct {
	Config    *config.Config
	Location  router.Location
	Scheduler router.Scheduler
	Store     *storage.Store
	Locale    i18n.LocaleSource
	Probe     pages.SystemProbe
	Reporter  composer.Reporter
	Logger    *logging.Logger
}

// App is the assembled dashboard.
type App struct {
	Config   *config.Config
	Session  string
	Router   *router.Router
	Registry *i18n.Registry
	Store    *storage.Store
	Composer *composer.Composer
	Sidebar  *chrome.Sidebar
	Header   *chrome.Header
	Main     *view.Region

	locale i18n.LocaleSource
	probe  pages.SystemProbe
	logger *logging.Logger

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Frame is the content of all regions at one point in time.
type Frame struct {
	Header  string `json:"header"`
	Sidebar string `json:"sidebar"`
	Main    string `json:"main"`
	Route   string `json:"route"`
}

// New builds the app. Nothing is rendered before Start.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.New("shell")
	}

	store := opts.Store
	if store == nil {
		store = storage.Open(storage.Config{
			Backend:   cfg.Storage.Backend,
			Path:      cfg.Storage.Path,
			Namespace: cfg.Storage.Namespace,
		}, logging.New("storage"))
	}

	registry, err := i18n.New(i18n.Options{
		DefaultLanguage: cfg.I18n.DefaultLanguage,
		Dir:             cfg.I18n.LocalesDir,
		Logger:          logging.New("i18n"),
	})
	if err != nil {
		return nil, err
	}

	location := opts.Location
	if location == nil {
		location = router.NewMemoryLocation("")
	}
	rt := router.New(router.Options{
		Location:  location,
		Whitelist: route.NewWhitelist(cfg.Router.Whitelist...),
		Debounce:  cfg.Router.Debounce.Duration,
		Scheduler: opts.Scheduler,
		Logger:    logging.New("router"),
	})

	probe := opts.Probe
	if probe == nil {
		probe = pages.NewCachedProbe(pages.HostProbe{}, 0)
	}

	session := uuid.NewString()
	main := view.NewRegion("main")
	comp := composer.New(composer.Options{
		Main: main,
		Pages: pages.Table(pages.Deps{
			Probe:   probe,
			Keys:    store,
			Session: session,
		}),
		Reporter: opts.Reporter,
		Logger:   logging.New("composer"),
	})

	locale := opts.Locale
	if locale == nil {
		locale = i18n.EnvLocale{}
	}

	return &App{
		Config:   cfg,
		Session:  session,
		Router:   rt,
		Registry: registry,
		Store:    store,
		Composer: comp,
		Sidebar: chrome.NewSidebar(chrome.SidebarOptions{
			Groups: chrome.DefaultGroups(),
			Store:  store,
			Logger: logging.New("sidebar"),
		}),
		Header: chrome.NewHeader(nil),
		Main:   main,
		locale: locale,
		probe:  probe,
		logger: logger,
	}, nil
}

// Start picks the language, attaches the regions and resolves the first
// route. With [i18n] watch enabled the locales directory is watched until
// ctx is done or Close is called.
func (a *App) Start(ctx context.Context) {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return
	}
	a.started = true
	ctx, a.cancel = context.WithCancel(ctx)
	a.mu.Unlock()

	a.Registry.Initialize(a.Store, a.locale)

	a.Composer.Attach(a.Router, a.Registry)
	a.Sidebar.Attach(a.Router, a.Registry)
	a.Header.Attach(a.Router, a.Registry)

	a.Router.Initialize(router.InitOptions{DefaultRoute: a.Config.Router.DefaultRoute})

	if a.Config.I18n.Watch && a.Config.I18n.LocalesDir != "" {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.Registry.Watch(ctx); err != nil {
				a.logger.LogError(err)
			}
		}()
	}

	a.logger.Info("shell started",
		"session", a.Session,
		"language", a.Registry.Language(),
		"route", a.Router.CurrentRoute().Path(),
		"store_degraded", a.Store.Degraded())
}

// OnChange calls fn after every route or language change, once the regions
// have been rebuilt. The returned function removes fn.
func (a *App) OnChange(fn func()) (stop func()) {
	onRoute := router.Func(func(route.Route) { fn() })
	onLang := i18n.Func(func(string) { fn() })
	a.Router.Subscribe(onRoute)
	a.Registry.Subscribe(onLang)
	return func() {
		a.Router.Unsubscribe(onRoute)
		a.Registry.Unsubscribe(onLang)
	}
}

// Navigate pushes path.
func (a *App) Navigate(path string) {
	a.Router.Navigate(path, router.NavigateOptions{})
}

// Frame returns the current content of every region.
func (a *App) Frame() Frame {
	return Frame{
		Header:  a.Header.Region().Content(),
		Sidebar: a.Sidebar.Region().Content(),
		Main:    a.Main.Content(),
		Route:   a.Router.CurrentRoute().Fragment(),
	}
}

// Close detaches the regions, stops the router and the watcher and closes
// the store.
func (a *App) Close() error {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	a.wg.Wait()

	a.Composer.Detach()
	a.Sidebar.Detach()
	a.Header.Detach()
	a.Router.Close()
	return a.Store.Close()
}
