package chrome

import (
	"strings"
	"sync"

	"github.com/msto63/leitstand/internal/i18n"
	"github.com/msto63/leitstand/internal/route"
	"github.com/msto63/leitstand/internal/theme"
	"github.com/msto63/leitstand/internal/view"
)

// Header blocks.
const (
	BlockTitle    = "title"
	BlockCrumbs   = "crumbs"
	BlockLanguage = "language"
)

// Crumb is one breadcrumb.
type Crumb struct {
	Label string
	Path  string
}

// Header renders the title, the breadcrumbs and the language indicator.
type Header struct {
	region *view.Region

	mu       sync.Mutex
	att      attachment
	attached bool
}

// NewHeader creates a header on region.
func NewHeader(region *view.Region) *Header {
	if region == nil {
		region = view.NewRegion("header")
	}
	h := &Header{region: region}
	h.att = newAttachment(h.Rebuild)
	return h
}

// Region returns the region the header renders into.
func (h *Header) Region() *view.Region {
	return h.region
}

// Attach subscribes to route and language changes. A previous attachment is
// released first.
func (h *Header) Attach(routes RouteSource, languages LanguageSource) {
	h.Detach()
	h.mu.Lock()
	h.att.attach(routes, languages)
	h.attached = true
	h.mu.Unlock()
}

// Detach removes exactly the listeners added by Attach.
func (h *Header) Detach() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.attached {
		return
	}
	h.att.detach()
	h.attached = false
}

// Rebuild renders all header blocks.
func (h *Header) Rebuild() {
	h.mu.Lock()
	routes, languages := h.att.routes, h.att.languages
	h.mu.Unlock()

	var rt route.Route
	if routes != nil {
		rt = routes.CurrentRoute()
	}
	t := translateOrKey(languages)
	lang := ""
	if languages != nil {
		lang = languages.Language()
	}

	title := theme.TitleStyle.Render(t("app.title")) + "  " + theme.SubtitleStyle.Render(PageTitle(rt, t))

	crumbs := Breadcrumbs(rt, t)
	parts := make([]string, len(crumbs))
	for i, c := range crumbs {
		style := theme.BreadcrumbStyle
		if i == len(crumbs)-1 {
			style = theme.CurrentCrumbStyle
		}
		parts[i] = style.Render(c.Label)
	}

	h.region.SetBlocks([]view.Block{
		{ID: BlockTitle, Content: title},
		{ID: BlockCrumbs, Content: strings.Join(parts, t("header.separator"))},
		{ID: BlockLanguage, Content: theme.LanguageStyle.Render(LanguageIndicator(lang, t))},
	})
}

// PageTitle is the translated title of the route's first segment, or the
// application title at the root.
func PageTitle(rt route.Route, t i18n.TranslateFunc) string {
	first := rt.Segment(0)
	if first == "" {
		return t("app.title")
	}
	return label("pages."+first+".title", first, t)
}

// Breadcrumbs starts at home and adds one crumb per route segment. Segments
// without a translated title show the raw segment.
func Breadcrumbs(rt route.Route, t i18n.TranslateFunc) []Crumb {
	crumbs := []Crumb{{Label: t("header.home"), Path: "/home"}}
	segments := rt.Segments()
	for i, seg := range segments {
		if i == 0 && seg == "home" {
			continue
		}
		key := "pages." + strings.Join(segments[:i+1], ".") + ".title"
		crumbs = append(crumbs, Crumb{
			Label: label(key, seg, t),
			Path:  "/" + strings.Join(segments[:i+1], "/"),
		})
	}
	return crumbs
}

// LanguageIndicator names the current language.
func LanguageIndicator(lang string, t i18n.TranslateFunc) string {
	name := label("languages."+lang, lang, t)
	return t("header.language", map[string]any{"language": name})
}

// label translates key, falling back to def when there is no translation.
func label(key, def string, t i18n.TranslateFunc) string {
	if v := t(key); v != key {
		return v
	}
	return def
}
