package chrome

import (
	"reflect"
	"strings"
	"testing"

	mdwi18n "github.com/msto63/leitstand/foundation/core/i18n"
	"github.com/msto63/leitstand/internal/i18n"
	"github.com/msto63/leitstand/internal/route"
	"github.com/msto63/leitstand/internal/router"
	"github.com/msto63/leitstand/internal/storage"
	"github.com/msto63/leitstand/pkg/core/logging"
)

type fixture struct {
	router   *router.Router
	sched    *router.ManualScheduler
	registry *i18n.Registry
	store    *storage.Store
	sidebar  *Sidebar
	header   *Header
}

func testCatalog() *mdwi18n.Catalog {
	c := mdwi18n.NewCatalog()
	c.Add("en", mdwi18n.Tree{
		"app":       map[string]interface{}{"title": "Leitstand"},
		"header":    map[string]interface{}{"home": "Home", "language": "Language: {language}", "separator": " / "},
		"languages": map[string]interface{}{"en": "English", "es": "Español"},
		"nav": map[string]interface{}{
			"groups": map[string]interface{}{"overview": "Overview", "basic": "Basic settings"},
			"items":  map[string]interface{}{"home": "Home", "status": "Status", "network": "Network", "wifi": "Wi-Fi"},
		},
		"pages": map[string]interface{}{
			"basic": map[string]interface{}{
				"title":   "Basic settings",
				"network": map[string]interface{}{"title": "Network"},
			},
		},
	})
	c.Add("es", mdwi18n.Tree{
		"header": map[string]interface{}{"home": "Inicio", "language": "Idioma: {language}"},
		"nav": map[string]interface{}{
			"groups": map[string]interface{}{"overview": "Resumen", "basic": "Configuración básica"},
			"items":  map[string]interface{}{"network": "Red"},
		},
	})
	return c
}

func testGroups() []Group {
	return []Group{
		{ID: "overview", TitleKey: "nav.groups.overview", Items: []Item{
			{Path: "/home", LabelKey: "nav.items.home"},
			{Path: "/status", LabelKey: "nav.items.status"},
		}},
		{ID: "basic", TitleKey: "nav.groups.basic", Items: []Item{
			{Path: "/basic/network", LabelKey: "nav.items.network"},
			{Path: "/basic/wifi", LabelKey: "nav.items.wifi"},
		}},
	}
}

func newFixture(t *testing.T, fragment string) *fixture {
	t.Helper()
	sched := router.NewManualScheduler()
	rt := router.New(router.Options{
		Location:  router.NewMemoryLocation(fragment),
		Scheduler: sched,
		Logger:    logging.Nop(),
	})
	reg, err := i18n.NewWithCatalog(testCatalog(), i18n.Options{Logger: logging.Nop()})
	if err != nil {
		t.Fatal(err)
	}
	store := storage.New(storage.NewMemoryBackend(), "test", logging.Nop())

	f := &fixture{
		router:   rt,
		sched:    sched,
		registry: reg,
		store:    store,
		sidebar:  NewSidebar(SidebarOptions{Groups: testGroups(), Store: store, Logger: logging.Nop()}),
		header:   NewHeader(nil),
	}
	f.sidebar.Attach(rt, reg)
	f.header.Attach(rt, reg)
	reg.Initialize(store, nil)
	rt.Initialize(router.InitOptions{})
	return f
}

func TestSidebarRebuildsOnRoute(t *testing.T) {
	f := newFixture(t, "/home")
	content := f.sidebar.Region().Content()

	if !strings.Contains(content, GlyphCollapsed+" Overview") {
		t.Errorf("collapsed overview missing:\n%s", content)
	}
	if strings.Contains(content, "Status") {
		t.Errorf("items of a collapsed group are visible:\n%s", content)
	}
}

func TestSidebarTogglePatchesOneBlock(t *testing.T) {
	f := newFixture(t, "/home")
	region := f.sidebar.Region()
	rebuilds, patches := region.Counts()
	before, _ := region.Block("overview")

	if !f.sidebar.Toggle("basic") {
		t.Fatal("Toggle(basic) should expand")
	}

	r2, p2 := region.Counts()
	if r2 != rebuilds || p2 != patches+1 {
		t.Errorf("Counts() = %d/%d, want %d/%d", r2, p2, rebuilds, patches+1)
	}
	block, _ := region.Block("basic")
	if !strings.Contains(block, GlyphExpanded) || !strings.Contains(block, "Network") {
		t.Errorf("basic block = %q", block)
	}
	if after, _ := region.Block("overview"); after != before {
		t.Error("untouched block changed")
	}

	var persisted map[string]bool
	if !f.store.GetJSON(ExpansionKey, &persisted) || !persisted["basic"] {
		t.Errorf("expansion not persisted: %v", persisted)
	}

	if f.sidebar.Toggle("basic") {
		t.Error("second Toggle should collapse")
	}
	if f.sidebar.Toggle("unknown") {
		t.Error("unknown group should not toggle")
	}
}

func TestSidebarExpansionSurvivesLanguageRebuild(t *testing.T) {
	f := newFixture(t, "/basic/network")
	f.sidebar.Toggle("basic")
	rebuilds, _ := f.sidebar.Region().Counts()

	f.registry.SetLanguage("es")

	r2, _ := f.sidebar.Region().Counts()
	if r2 != rebuilds+1 {
		t.Errorf("language change caused %d rebuilds, want 1", r2-rebuilds)
	}
	block, _ := f.sidebar.Region().Block("basic")
	if !strings.Contains(block, GlyphExpanded+" Configuración básica") {
		t.Errorf("basic block after language change = %q", block)
	}
	if !strings.Contains(block, "Red") || !strings.Contains(block, "Wi-Fi") {
		t.Errorf("items missing after rebuild: %q", block)
	}
	if !f.sidebar.Expanded("basic") {
		t.Error("Expanded(basic) = false")
	}
}

func TestSidebarExpansionSurvivesNewSidebar(t *testing.T) {
	f := newFixture(t, "/home")
	f.sidebar.Toggle("overview")

	again := NewSidebar(SidebarOptions{Groups: testGroups(), Store: f.store, Logger: logging.Nop()})
	again.Rebuild()
	if !again.Expanded("overview") {
		t.Error("expansion not read from store")
	}
	if !strings.Contains(again.Region().Content(), "nav.items.status") {
		t.Errorf("unattached sidebar should show keys:\n%s", again.Region().Content())
	}
}

func TestSidebarIgnoresUnusableStoredExpansion(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{"null", "null"},
		{"not json", "{broken"},
		{"empty object", "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.New(storage.NewMemoryBackend(), "test", logging.Nop())
			store.Set(ExpansionKey, tt.stored)

			s := NewSidebar(SidebarOptions{Groups: testGroups(), Store: store, Logger: logging.Nop()})
			s.Rebuild()
			if s.Expanded("basic") {
				t.Error("basic should start collapsed")
			}
			if !s.Toggle("basic") {
				t.Fatal("Toggle(basic) should expand")
			}
			if !s.Expanded("basic") {
				t.Error("expansion not recorded")
			}
		})
	}
}

func TestSidebarCursor(t *testing.T) {
	f := newFixture(t, "/home")
	s := f.sidebar

	// Header row: select toggles.
	if _, ok := s.Select(); ok {
		t.Fatal("Select on a group header should not navigate")
	}
	if !s.Expanded("overview") {
		t.Fatal("Select should expand overview")
	}

	s.MoveCursor(2)
	path, ok := s.Select()
	if !ok || path != "/status" {
		t.Errorf("Select() = %q, %v, want /status", path, ok)
	}

	s.MoveCursor(10)
	if _, ok := s.Select(); ok {
		t.Error("last row should be the collapsed basic header")
	}
	if !s.Expanded("basic") {
		t.Error("basic not expanded")
	}

	s.MoveCursor(-100)
	if s.ToggleAtCursor() {
		t.Error("ToggleAtCursor should collapse overview")
	}
	block, _ := s.Region().Block("overview")
	if !strings.Contains(block, "›") {
		t.Errorf("cursor mark missing: %q", block)
	}
}

func TestSidebarCollapseMovesCursorToHeader(t *testing.T) {
	f := newFixture(t, "/home")
	s := f.sidebar
	s.Toggle("overview")
	s.MoveCursor(1)

	s.Toggle("overview")
	if _, ok := s.Select(); ok {
		t.Error("cursor should be back on the header after collapsing")
	}
}

func TestSidebarDetach(t *testing.T) {
	f := newFixture(t, "/home")
	f.sidebar.Detach()
	f.sidebar.Detach()
	rebuilds, _ := f.sidebar.Region().Counts()

	f.registry.SetLanguage("es")
	f.router.Navigate("/status", router.NavigateOptions{})
	f.sched.Flush()

	if r2, _ := f.sidebar.Region().Counts(); r2 != rebuilds {
		t.Errorf("detached sidebar rebuilt %d times", r2-rebuilds)
	}
}

func TestSidebarReattachDoesNotDuplicate(t *testing.T) {
	f := newFixture(t, "/home")
	f.sidebar.Attach(f.router, f.registry)
	f.sidebar.Attach(f.router, f.registry)
	rebuilds, _ := f.sidebar.Region().Counts()

	f.registry.SetLanguage("es")
	if r2, _ := f.sidebar.Region().Counts(); r2 != rebuilds+1 {
		t.Errorf("rebuilds = %d, want 1", r2-rebuilds)
	}
}

func TestHeader(t *testing.T) {
	f := newFixture(t, "/basic/network/eth0")
	content := f.header.Region().Content()

	for _, want := range []string{"Leitstand", "Basic settings", "Home / Basic settings / Network / eth0", "Language: English"} {
		if !strings.Contains(content, want) {
			t.Errorf("header missing %q:\n%s", want, content)
		}
	}

	f.registry.SetLanguage("es")
	lang, _ := f.header.Region().Block(BlockLanguage)
	if !strings.Contains(lang, "Idioma: Español") {
		t.Errorf("language block = %q", lang)
	}
}

func TestBreadcrumbs(t *testing.T) {
	tr := func(key string, _ ...map[string]any) string {
		if key == "header.home" {
			return "Home"
		}
		return key
	}

	tests := []struct {
		fragment string
		want     []Crumb
	}{
		{"/home", []Crumb{{"Home", "/home"}}},
		{"/status", []Crumb{{"Home", "/home"}, {"status", "/status"}}},
		{"/basic/wifi", []Crumb{{"Home", "/home"}, {"basic", "/basic"}, {"wifi", "/basic/wifi"}}},
	}
	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			if got := Breadcrumbs(route.Parse(tt.fragment), tr); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Breadcrumbs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPageTitleAtRoot(t *testing.T) {
	tr := func(key string, _ ...map[string]any) string { return "T:" + key }
	if got := PageTitle(route.Route{}, tr); got != "T:app.title" {
		t.Errorf("PageTitle() = %q", got)
	}
}

func TestHeaderDetach(t *testing.T) {
	f := newFixture(t, "/home")
	f.header.Detach()
	v := f.header.Region().Version()
	f.registry.SetLanguage("es")
	if f.header.Region().Version() != v {
		t.Error("detached header rebuilt")
	}
}
