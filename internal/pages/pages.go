// Package pages contains the page renderers of the dashboard sections.
package pages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/msto63/leitstand/foundation/utils/mapx"
	"github.com/msto63/leitstand/internal/composer"
	"github.com/msto63/leitstand/internal/i18n"
	"github.com/msto63/leitstand/internal/theme"
	"github.com/msto63/leitstand/internal/view"
)

// BasicSubsections are the sections of the /basic page, default first.
var BasicSubsections = []string{"network", "wifi", "time"}

// DefaultProbeTimeout bounds a system probe during a render.
const DefaultProbeTimeout = 2 * time.Second

// KeyLister lists persisted keys.
type KeyLister interface {
	Keys() []string
}

// Deps are the collaborators of the renderers.
type Deps struct {
	Probe        SystemProbe
	ProbeTimeout time.Duration
	Keys         KeyLister
	Session      string
	Now          func() time.Time
}

type renderers struct {
	deps Deps
}

// Table returns the page table of the dashboard.
func Table(deps Deps) []composer.Page {
	if deps.Probe == nil {
		deps.Probe = NewCachedProbe(HostProbe{}, 0)
	}
	if deps.ProbeTimeout <= 0 {
		deps.ProbeTimeout = DefaultProbeTimeout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	r := renderers{deps: deps}

	return []composer.Page{
		{Prefix: "/home", Renderer: composer.RendererFunc(r.home)},
		{Prefix: "/status", Renderer: composer.RendererFunc(r.status)},
		{Prefix: "/basic", Renderer: composer.RendererFunc(r.basic), Subsections: BasicSubsections},
		{Prefix: "/advanced", Renderer: composer.RendererFunc(r.advanced)},
		{Prefix: "/management", Renderer: composer.RendererFunc(r.management)},
		{Prefix: "/application", Renderer: composer.RendererFunc(r.application)},
	}
}

func page(c view.Container, title string, lines ...string) {
	c.Replace(theme.RenderHeading(title) + "\n" + strings.Join(lines, "\n"))
}

func (r renderers) home(c view.Container, _ composer.Params, t i18n.TranslateFunc) error {
	page(c, t("pages.home.title"),
		t("pages.home.welcome", map[string]any{"title": t("app.title")}),
		"",
		t("pages.home.body"),
	)
	return nil
}

func (r renderers) snapshot() (Snapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.deps.ProbeTimeout)
	defer cancel()
	return r.deps.Probe.Snapshot(ctx)
}

func (r renderers) status(c view.Container, _ composer.Params, t i18n.TranslateFunc) error {
	snap, err := r.snapshot()
	if err != nil {
		page(c, t("pages.status.title"),
			theme.RenderError(t("pages.status.unavailable", map[string]any{"reason": err.Error()})))
		return nil
	}

	host := snap.Hostname
	if snap.Platform != "" {
		host += " (" + snap.Platform + ")"
	}
	page(c, t("pages.status.title"),
		theme.RenderField(t("pages.status.host"), host),
		theme.RenderField(t("pages.status.uptime"), snap.Uptime.Truncate(time.Second).String()),
		theme.RenderField(t("pages.status.cpu"), fmt.Sprintf("%.1f%% × %d", snap.CPUPercent, snap.CPUCount)),
		theme.RenderField(t("pages.status.memory"), fmt.Sprintf("%s / %s (%.1f%%)",
			formatBytes(snap.MemUsed), formatBytes(snap.MemTotal), snap.MemPercent)),
		theme.RenderField(t("pages.status.load"), fmt.Sprintf("%.2f %.2f %.2f", snap.Load1, snap.Load5, snap.Load15)),
	)
	return nil
}

func (r renderers) basic(c view.Container, p composer.Params, t i18n.TranslateFunc) error {
	sub := p.Get(composer.SubParam, BasicSubsections[0])
	title := t("pages.basic.title") + " › " + t("pages.basic."+sub+".title")

	switch sub {
	case "network":
		snap, err := r.snapshot()
		if err != nil {
			page(c, title, theme.RenderError(t("pages.status.unavailable", map[string]any{"reason": err.Error()})))
			return nil
		}
		lines := []string{t("pages.basic.network.body", map[string]any{"count": len(snap.Interfaces)}), ""}
		for _, iface := range snap.Interfaces {
			lines = append(lines, t("pages.basic.network.interface", map[string]any{
				"name":  iface.Name,
				"addrs": strings.Join(iface.Addrs, ", "),
			}))
		}
		page(c, title, lines...)
	case "wifi":
		page(c, title, t("pages.basic.wifi.body", map[string]any{"tab": p.Get("tab", "-")}))
	case "time":
		now := r.deps.Now()
		zone, _ := now.Zone()
		page(c, title, t("pages.basic.time.body", map[string]any{
			"time": now.Format("2006-01-02 15:04:05"),
			"zone": zone,
		}))
	default:
		return fmt.Errorf("unknown basic section %q", sub)
	}
	return nil
}

func (r renderers) advanced(c view.Container, p composer.Params, t i18n.TranslateFunc) error {
	keys := mapx.SortedKeys(p)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		if p[k] == "" {
			pairs = append(pairs, k)
			continue
		}
		pairs = append(pairs, k+"="+p[k])
	}
	list := strings.Join(pairs, ", ")
	if list == "" {
		list = "-"
	}
	page(c, t("pages.advanced.title"), t("pages.advanced.body", map[string]any{"params": list}))
	return nil
}

func (r renderers) management(c view.Container, _ composer.Params, t i18n.TranslateFunc) error {
	count := 0
	if r.deps.Keys != nil {
		count = len(r.deps.Keys.Keys())
	}
	session := r.deps.Session
	if session == "" {
		session = "-"
	}
	page(c, t("pages.management.title"), t("pages.management.body", map[string]any{
		"session": session,
		"keys":    count,
	}))
	return nil
}

func (r renderers) application(c view.Container, _ composer.Params, t i18n.TranslateFunc) error {
	page(c, t("pages.application.title"), t("pages.application.body"))
	return nil
}
