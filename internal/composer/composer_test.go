package composer

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	mdwerror "github.com/msto63/leitstand/foundation/core/error"
	mdwi18n "github.com/msto63/leitstand/foundation/core/i18n"
	"github.com/msto63/leitstand/internal/i18n"
	"github.com/msto63/leitstand/internal/route"
	"github.com/msto63/leitstand/internal/router"
	"github.com/msto63/leitstand/internal/view"
	"github.com/msto63/leitstand/pkg/core/logging"
)

// echoPage writes its name, the params and a translated title.
func echoPage(name string) Renderer {
	return RendererFunc(func(c view.Container, p Params, t i18n.TranslateFunc) error {
		c.Replace(name + "|" + p.Get(SubParam, "-") + "|" + t("title"))
		return nil
	})
}

type incidentLog struct {
	incidents []Incident
}

func (l *incidentLog) Report(incident Incident) {
	l.incidents = append(l.incidents, incident)
}

func testPages() []Page {
	return []Page{
		{Prefix: "/home", Renderer: echoPage("home")},
		{Prefix: "/basic", Renderer: echoPage("basic"), Subsections: []string{"network", "wifi", "time"}},
		{Prefix: "/advanced", Renderer: echoPage("advanced")},
		{Prefix: "/advanced/firewall", Renderer: echoPage("firewall")},
	}
}

func newTestComposer() (*Composer, *view.Region, *incidentLog) {
	main := view.NewRegion("main")
	reports := &incidentLog{}
	c := New(Options{Main: main, Pages: testPages(), Reporter: reports, Logger: logging.Nop()})
	return c, main, reports
}

func TestResolve(t *testing.T) {
	c, _, _ := newTestComposer()

	tests := []struct {
		fragment string
		prefix   string
		notFound bool
		params   Params
	}{
		{"/home", "/home", false, Params{}},
		{"/home/anything", "/home", false, Params{}},
		{"/homework", "", true, Params{PathParam: "/homework"}},
		{"/basic", "/basic", false, Params{SubParam: "network"}},
		{"/basic/wifi?tab=2", "/basic", false, Params{SubParam: "wifi", "tab": "2"}},
		{"/basic/unknown", "/basic", false, Params{SubParam: "network"}},
		{"/advanced", "/advanced", false, Params{}},
		{"/advanced/firewall/rules", "/advanced/firewall", false, Params{}},
		{"/", "", true, Params{PathParam: "/"}},
	}

	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			res := c.Resolve(route.Parse(tt.fragment))
			if res.Prefix != tt.prefix || res.NotFound != tt.notFound {
				t.Errorf("Resolve() = prefix %q notFound %v, want %q %v", res.Prefix, res.NotFound, tt.prefix, tt.notFound)
			}
			if !reflect.DeepEqual(res.Params, tt.params) {
				t.Errorf("Params = %v, want %v", res.Params, tt.params)
			}
			if res.Renderer == nil {
				t.Error("Renderer is nil")
			}
		})
	}
}

func TestResolveDoesNotShareParams(t *testing.T) {
	c, _, _ := newTestComposer()
	rt := route.Parse("/basic/time?x=1")

	res := c.Resolve(rt)
	res.Params["x"] = "changed"

	if v, _ := rt.Param("x"); v != "1" {
		t.Errorf("route params modified: %q", v)
	}
}

func TestRender(t *testing.T) {
	c, main, reports := newTestComposer()

	c.Render(route.Parse("/basic/time"))
	if main.Content() != "basic|time|title" {
		t.Errorf("Content() = %q", main.Content())
	}

	c.Render(route.Parse("/nowhere"))
	if !strings.Contains(main.Content(), "pages.notfound.body") {
		t.Errorf("not-found content = %q", main.Content())
	}
	if len(reports.incidents) != 0 {
		t.Errorf("unexpected incidents: %v", reports.incidents)
	}
}

func TestRenderFailuresAreContained(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name     string
		renderer Renderer
	}{
		{"error", RendererFunc(func(view.Container, Params, i18n.TranslateFunc) error { return boom })},
		{"panic", RendererFunc(func(view.Container, Params, i18n.TranslateFunc) error { panic("kaputt") })},
		{"nil renderer", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			main := view.NewRegion("main")
			reports := &incidentLog{}
			c := New(Options{
				Main:     main,
				Pages:    []Page{{Prefix: "/status", Renderer: tt.renderer}},
				Reporter: reports,
				Logger:   logging.Nop(),
			})

			c.Render(route.Parse("/status"))

			if len(reports.incidents) != 1 {
				t.Fatalf("incidents = %d, want 1", len(reports.incidents))
			}
			inc := reports.incidents[0]
			if inc.ID == "" || inc.Prefix != "/status" || inc.Err == nil {
				t.Errorf("incident = %+v", inc)
			}
			if !strings.Contains(main.Content(), inc.ID) {
				t.Errorf("placeholder %q does not name incident %s", main.Content(), inc.ID)
			}
			if tt.name == "panic" && !mdwerror.HasCode(inc.Err, mdwerror.CodeRenderFailed) {
				t.Errorf("panic not converted: %v", inc.Err)
			}
			if _, failures := c.Stats(); failures != 1 {
				t.Errorf("failures = %d", failures)
			}
		})
	}
}

func TestLogReporter(t *testing.T) {
	r := NewLogReporter(logging.Nop())
	r.Report(Incident{ID: "x", Route: route.Parse("/home"), Err: errors.New("fail")})
	r.Report(Incident{ID: "y"})
}

func TestPlaceholderNamesIncident(t *testing.T) {
	tests := []struct {
		name string
		t    i18n.TranslateFunc
	}{
		{"keys only", keyTranslate},
		{"dictionary with id", func(key string, vars ...map[string]any) string {
			return i18n.Interpolate("failed {incident}", vars[0])
		}},
		{"dictionary without id", func(key string, _ ...map[string]any) string { return "failed" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Placeholder("inc-42", tt.t)
			if n := strings.Count(got, "inc-42"); n != 1 {
				t.Errorf("Placeholder() = %q, names incident %d times", got, n)
			}
		})
	}
}

func TestAttach(t *testing.T) {
	loc := router.NewMemoryLocation("/basic/wifi")
	sched := router.NewManualScheduler()
	rt := router.New(router.Options{Location: loc, Scheduler: sched, Logger: logging.Nop()})

	catalog := mdwi18n.NewCatalog()
	catalog.Add("en", mdwi18n.Tree{"title": "Settings"})
	catalog.Add("es", mdwi18n.Tree{"title": "Ajustes"})
	reg, err := i18n.NewWithCatalog(catalog, i18n.Options{Logger: logging.Nop()})
	if err != nil {
		t.Fatal(err)
	}

	c, main, _ := newTestComposer()
	c.Attach(rt, reg)

	rt.Initialize(router.InitOptions{})
	if main.Content() != "basic|wifi|Settings" {
		t.Fatalf("after init: %q", main.Content())
	}

	reg.SetLanguage("es")
	if main.Content() != "basic|wifi|Ajustes" {
		t.Errorf("after language change: %q", main.Content())
	}

	rt.Navigate("/home", router.NavigateOptions{})
	sched.Flush()
	if main.Content() != "home|-|Ajustes" {
		t.Errorf("after navigation: %q", main.Content())
	}

	renders, _ := c.Stats()
	c.Detach()
	reg.SetLanguage("en")
	rt.Navigate("/advanced", router.NavigateOptions{})
	sched.Flush()
	if after, _ := c.Stats(); after != renders {
		t.Errorf("rendered %d times after Detach", after-renders)
	}
}

func TestAttachTwiceSubscribesOnce(t *testing.T) {
	rt := router.New(router.Options{
		Location:  router.NewMemoryLocation("/home"),
		Scheduler: router.NewManualScheduler(),
		Logger:    logging.Nop(),
	})
	c, _, _ := newTestComposer()
	c.Attach(rt, nil)
	c.Attach(rt, nil)

	rt.Initialize(router.InitOptions{})
	if renders, _ := c.Stats(); renders != 1 {
		t.Errorf("renders = %d, want 1", renders)
	}
}
