// Package chrome renders the persistent regions around the page: the sidebar
// with its collapsible navigation groups and the header with title,
// breadcrumbs and language indicator.
package chrome

import (
	"github.com/msto63/leitstand/internal/i18n"
	"github.com/msto63/leitstand/internal/notify"
	"github.com/msto63/leitstand/internal/route"
	"github.com/msto63/leitstand/internal/router"
)

// Item is a navigation link.
type Item struct {
	Path     string
	LabelKey string
}

// Group is a collapsible set of links.
type Group struct {
	ID       string
	TitleKey string
	Items    []Item
}

// DefaultGroups is the navigation of the dashboard.
func DefaultGroups() []Group {
	return []Group{
		{ID: "overview", TitleKey: "nav.groups.overview", Items: []Item{
			{Path: "/home", LabelKey: "nav.items.home"},
			{Path: "/status", LabelKey: "nav.items.status"},
		}},
		{ID: "basic", TitleKey: "nav.groups.basic", Items: []Item{
			{Path: "/basic/network", LabelKey: "nav.items.network"},
			{Path: "/basic/wifi", LabelKey: "nav.items.wifi"},
			{Path: "/basic/time", LabelKey: "nav.items.time"},
		}},
		{ID: "expert", TitleKey: "nav.groups.expert", Items: []Item{
			{Path: "/advanced", LabelKey: "nav.items.advanced"},
		}},
		{ID: "system", TitleKey: "nav.groups.system", Items: []Item{
			{Path: "/management", LabelKey: "nav.items.management"},
			{Path: "/application", LabelKey: "nav.items.application"},
		}},
	}
}

// RouteSource is the router as seen by the chrome.
type RouteSource interface {
	CurrentRoute() route.Route
	Subscribe(l router.Listener) bool
	Unsubscribe(l router.Listener) bool
}

// LanguageSource is the translation registry as seen by the chrome.
type LanguageSource interface {
	Translate(key string, vars ...map[string]any) string
	Language() string
	Subscribe(l i18n.Listener) bool
	Unsubscribe(l i18n.Listener) bool
}

// attachment holds the listener handles of one component so that Detach
// removes exactly what Attach added.
type attachment struct {
	onRoute *notify.ListenerFunc[route.Route]
	onLang  *notify.ListenerFunc[string]

	routes    RouteSource
	languages LanguageSource
}

func newAttachment(rebuild func()) attachment {
	return attachment{
		onRoute: router.Func(func(route.Route) { rebuild() }),
		onLang:  i18n.Func(func(string) { rebuild() }),
	}
}

func (a *attachment) attach(routes RouteSource, languages LanguageSource) {
	a.routes, a.languages = routes, languages
	if routes != nil {
		routes.Subscribe(a.onRoute)
	}
	if languages != nil {
		languages.Subscribe(a.onLang)
	}
}

func (a *attachment) detach() {
	if a.routes != nil {
		a.routes.Unsubscribe(a.onRoute)
	}
	if a.languages != nil {
		a.languages.Unsubscribe(a.onLang)
	}
	a.routes, a.languages = nil, nil
}

func translateOrKey(languages LanguageSource) i18n.TranslateFunc {
	if languages == nil {
		return func(key string, _ ...map[string]any) string { return key }
	}
	return languages.Translate
}
