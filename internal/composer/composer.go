// Package composer resolves the current route to a page renderer and renders
// it into the main region. It re-renders on every route and language change.
package composer

import (
	"fmt"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/leitstand/foundation/core/error"
	"github.com/msto63/leitstand/foundation/utils/mapx"
	"github.com/msto63/leitstand/internal/i18n"
	"github.com/msto63/leitstand/internal/notify"
	"github.com/msto63/leitstand/internal/route"
	"github.com/msto63/leitstand/internal/router"
	"github.com/msto63/leitstand/internal/theme"
	"github.com/msto63/leitstand/internal/view"
	"github.com/msto63/leitstand/pkg/core/logging"
)

// SubParam carries the selected sub-section of a sectioned page.
const SubParam = "sub"

// PathParam carries the requested path to the not-found renderer.
const PathParam = "path"

// Params are the values passed to a renderer: the route parameters plus
// SubParam for sectioned pages.
type Params map[string]string

// Get returns the value of key or def.
func (p Params) Get(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Renderer draws a page into c. It must replace the content of c before
// returning and must not keep c.
type Renderer interface {
	Render(c view.Container, p Params, t i18n.TranslateFunc) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(c view.Container, p Params, t i18n.TranslateFunc) error

// Render calls f.
func (f RendererFunc) Render(c view.Container, p Params, t i18n.TranslateFunc) error {
	return f(c, p, t)
}

// Page binds a whitelist prefix to a renderer.
type Page struct {
	Prefix   string
	Renderer Renderer
	// Subsections makes the second path segment the SubParam. Unknown or
	// missing segments select DefaultSub.
	Subsections []string
	DefaultSub  string
}

// Resolution is the result of Resolve.
type Resolution struct {
	Route    route.Route
	Prefix   string
	Renderer Renderer
	Params   Params
	NotFound bool
}

// RouteSource is the router as seen by the composer.
type RouteSource interface {
	CurrentRoute() route.Route
	Subscribe(l router.Listener) bool
	Unsubscribe(l router.Listener) bool
}

// LanguageSource is the translation registry as seen by the composer.
type LanguageSource interface {
	Translate(key string, vars ...map[string]any) string
	Subscribe(l i18n.Listener) bool
	Unsubscribe(l i18n.Listener) bool
}

// Options configures a Composer.
type Options struct {
	Main     view.Container
	Pages    []Page
	NotFound Renderer
	Reporter Reporter
	Logger   *logging.Logger
}

// Composer renders pages into the main container.
type Composer struct {
	main     view.Container
	pages    []Page
	notFound Renderer
	reporter Reporter
	logger   *logging.Logger

	onRoute *notify.ListenerFunc[route.Route]
	onLang  *notify.ListenerFunc[string]

	mu        sync.Mutex
	routes    RouteSource
	languages LanguageSource
	translate i18n.TranslateFunc
	renders   int
	failures  int
}

// New creates a composer. Pages keep their order; Resolve picks the longest
// matching prefix.
func New(opts Options) *Composer {
	c := &Composer{
		main:     opts.Main,
		notFound: opts.NotFound,
		reporter: opts.Reporter,
		logger:   opts.Logger,
	}
	if c.main == nil {
		c.main = view.NewRegion("main")
	}
	if c.logger == nil {
		c.logger = logging.New("composer")
	}
	if c.reporter == nil {
		c.reporter = NewLogReporter(c.logger)
	}
	if c.notFound == nil {
		c.notFound = RendererFunc(notFoundPage)
	}
	for _, p := range opts.Pages {
		p.Prefix = route.Normalize(p.Prefix)
		if p.DefaultSub == "" && len(p.Subsections) > 0 {
			p.DefaultSub = p.Subsections[0]
		}
		c.pages = append(c.pages, p)
	}
	c.translate = keyTranslate
	c.onRoute = router.Func(c.Render)
	c.onLang = i18n.Func(func(string) { c.RenderCurrent() })
	return c
}

// Resolve maps rt to a page. Routes without a matching prefix resolve to the
// not-found renderer.
func (c *Composer) Resolve(rt route.Route) Resolution {
	path := rt.Path()
	best := -1
	for i, p := range c.pages {
		if path != p.Prefix && !strings.HasPrefix(path, p.Prefix+"/") {
			continue
		}
		if best < 0 || len(p.Prefix) > len(c.pages[best].Prefix) {
			best = i
		}
	}

	params := Params(rt.Params())
	if best < 0 {
		params[PathParam] = path
		return Resolution{Route: rt, Renderer: c.notFound, Params: params, NotFound: true}
	}

	page := c.pages[best]
	if len(page.Subsections) > 0 {
		depth := len(route.ToSegments(page.Prefix))
		params[SubParam] = page.DefaultSub
		if sub := rt.Segment(depth); contains(page.Subsections, sub) {
			params[SubParam] = sub
		}
	}
	return Resolution{Route: rt, Prefix: page.Prefix, Renderer: page.Renderer, Params: params}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Render resolves rt and renders it. Renderer errors and panics replace the
// main content with an error placeholder and are reported; they never reach
// the caller.
func (c *Composer) Render(rt route.Route) {
	res := c.Resolve(rt)

	c.mu.Lock()
	translate := c.translate
	c.renders++
	c.mu.Unlock()

	err := c.call(res, translate)
	if err == nil {
		c.logger.Debug("page rendered", "path", rt.Path(), "prefix", res.Prefix, "not_found", res.NotFound)
		return
	}

	c.mu.Lock()
	c.failures++
	c.mu.Unlock()

	incident := Incident{ID: uuid.NewString(), Route: rt, Prefix: res.Prefix, Err: err}
	c.main.Replace(Placeholder(incident.ID, translate))
	c.reporter.Report(incident)
}

func (c *Composer) call(res Resolution, translate i18n.TranslateFunc) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = mdwerror.New(fmt.Sprintf("renderer panicked: %v", rec)).
				WithCode(mdwerror.CodeRenderFailed).
				WithOperation("composer.Render").
				WithDetail("stack", string(debug.Stack()))
		}
	}()
	if res.Renderer == nil {
		return mdwerror.New("no renderer for page").
			WithCode(mdwerror.CodeRenderFailed).
			WithOperation("composer.Render").
			WithDetail("prefix", res.Prefix)
	}
	return res.Renderer.Render(c.main, res.Params, translate)
}

// RenderCurrent renders the route source's current route. It does nothing
// before Attach.
func (c *Composer) RenderCurrent() {
	c.mu.Lock()
	routes := c.routes
	c.mu.Unlock()
	if routes != nil {
		c.Render(routes.CurrentRoute())
	}
}

// Attach subscribes to route and language changes and uses languages for
// translation. A previous attachment is released first.
func (c *Composer) Attach(routes RouteSource, languages LanguageSource) {
	c.Detach()

	c.mu.Lock()
	c.routes = routes
	c.languages = languages
	if languages != nil {
		c.translate = languages.Translate
	}
	c.mu.Unlock()

	if routes != nil {
		routes.Subscribe(c.onRoute)
	}
	if languages != nil {
		languages.Subscribe(c.onLang)
	}
}

// Detach removes the subscriptions made by Attach.
func (c *Composer) Detach() {
	c.mu.Lock()
	routes, languages := c.routes, c.languages
	c.routes, c.languages = nil, nil
	c.mu.Unlock()

	if routes != nil {
		routes.Unsubscribe(c.onRoute)
	}
	if languages != nil {
		languages.Unsubscribe(c.onLang)
	}
}

// Stats returns the number of render calls and of failed renders.
func (c *Composer) Stats() (renders, failures int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renders, c.failures
}

// Placeholder is the content shown in place of a failed page.
// The incident id is always part of it, with or without a dictionary.
func Placeholder(incident string, t i18n.TranslateFunc) string {
	body := t("errors.render.body", map[string]any{"incident": incident})
	if !strings.Contains(body, incident) {
		body += " (" + incident + ")"
	}
	return theme.RenderHeading(t("errors.render.title")) + "\n" + theme.RenderError(body)
}

// keyTranslate is used before Attach: keys stand for themselves.
func keyTranslate(key string, vars ...map[string]any) string {
	return i18n.Interpolate(key, mapx.Merge(vars...))
}

func notFoundPage(c view.Container, p Params, t i18n.TranslateFunc) error {
	c.Replace(theme.RenderHeading(t("pages.notfound.title")) + "\n" +
		t("pages.notfound.body", map[string]any{"path": p.Get(PathParam, "?")}))
	return nil
}
