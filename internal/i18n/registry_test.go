package i18n

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	mdwi18n "github.com/msto63/leitstand/foundation/core/i18n"
	"github.com/msto63/leitstand/pkg/core/logging"
)

type mapStore map[string]string

func (m mapStore) Get(key, def string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

func (m mapStore) Set(key, value string) bool {
	m[key] = value
	return true
}

func testCatalog() *mdwi18n.Catalog {
	c := mdwi18n.NewCatalog()
	c.Add("en", mdwi18n.Tree{
		"nav": map[string]interface{}{
			"home":   "Home",
			"status": "Status",
		},
		"greeting": "Hello, {name}!",
		"only":     map[string]interface{}{"english": "fallback text"},
	})
	c.Add("es", mdwi18n.Tree{
		"nav": map[string]interface{}{
			"home": "Inicio",
		},
		"greeting": "¡Hola, {name}!",
	})
	return c
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewWithCatalog(testCatalog(), Options{DefaultLanguage: "en", Logger: logging.Nop()})
	if err != nil {
		t.Fatalf("NewWithCatalog() error = %v", err)
	}
	return r
}

type langRecorder struct {
	got []string
}

func (l *langRecorder) Handle(lang string) error {
	l.got = append(l.got, lang)
	return nil
}

func TestNewRequiresDefaultDictionary(t *testing.T) {
	_, err := NewWithCatalog(testCatalog(), Options{DefaultLanguage: "fr", Logger: logging.Nop()})
	if err == nil {
		t.Fatal("expected error for a default language without dictionary")
	}
}

func TestNewLoadsBuiltinDictionaries(t *testing.T) {
	r, err := New(Options{Logger: logging.Nop()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := r.Languages(); !reflect.DeepEqual(got, []string{"de", "en", "es"}) {
		t.Errorf("Languages() = %v", got)
	}
	if got := r.Translate("pages.home.title"); got != "Home" {
		t.Errorf("Translate() = %q", got)
	}
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name   string
		stored map[string]string
		locale LocaleSource
		want   string
	}{
		{"persisted wins", map[string]string{StoreKey: "es"}, StaticLocale{"en_US.UTF-8"}, "es"},
		{"unknown persisted ignored", map[string]string{StoreKey: "fr"}, nil, "en"},
		{"locale base match", nil, StaticLocale{"es_MX.UTF-8"}, "es"},
		{"first matching preference", nil, StaticLocale{"fr_FR", "es-ES"}, "es"},
		{"no match uses default", nil, StaticLocale{"ja_JP.UTF-8"}, "en"},
		{"nothing known", nil, nil, "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			store := mapStore{}
			for k, v := range tt.stored {
				store[k] = v
			}
			rec := &langRecorder{}
			r.Subscribe(rec)

			r.Initialize(store, tt.locale)

			if r.Language() != tt.want {
				t.Errorf("Language() = %q, want %q", r.Language(), tt.want)
			}
			if store[StoreKey] != tt.want {
				t.Errorf("persisted = %q, want %q", store[StoreKey], tt.want)
			}
			if !reflect.DeepEqual(rec.got, []string{tt.want}) {
				t.Errorf("notifications = %v, want exactly one", rec.got)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	r := newTestRegistry(t)
	r.Initialize(mapStore{}, nil)
	r.SetLanguage("es")

	tests := []struct {
		name string
		key  string
		vars []map[string]any
		want string
	}{
		{"current language", "nav.home", nil, "Inicio"},
		{"default fallback", "nav.status", nil, "Status"},
		{"nested default fallback", "only.english", nil, "fallback text"},
		{"missing key", "nav.missing", nil, "nav.missing"},
		{"branch is not a leaf", "nav", nil, "nav"},
		{"interpolation", "greeting", []map[string]any{{"name": "Ana"}}, "¡Hola, Ana!"},
		{"unmatched placeholder", "greeting", []map[string]any{{"other": 1}}, "¡Hola, {name}!"},
		{"merged vars", "greeting", []map[string]any{{"name": "A"}, {"name": "B"}}, "¡Hola, B!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Translate(tt.key, tt.vars...); got != tt.want {
				t.Errorf("Translate(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestInterpolate(t *testing.T) {
	vars := map[string]any{"name": "Bo", "n": 3}

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"{name}", "Bo"},
		{"{name} has {n} items", "Bo has 3 items"},
		{"{ name }", "{ name }"},
		{"a { name } b {name}", "a { name } b Bo"},
		{"{missing} {name}", "{missing} Bo"},
		{"{}", "{}"},
		{"{name", "{name"},
		{"{{name}", "{Bo"},
		{"a } b {n}", "a } b 3"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Interpolate(tt.in, vars); got != tt.want {
				t.Errorf("Interpolate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSetLanguage(t *testing.T) {
	r := newTestRegistry(t)
	store := mapStore{}
	r.Initialize(store, nil)

	rec := &langRecorder{}
	r.Subscribe(rec)

	t.Run("unknown language", func(t *testing.T) {
		if r.SetLanguage("fr") {
			t.Error("SetLanguage(fr) should report false")
		}
		if r.Language() != "en" || len(rec.got) != 0 {
			t.Errorf("language = %q, notifications = %v", r.Language(), rec.got)
		}
	})

	t.Run("known language", func(t *testing.T) {
		if !r.SetLanguage("es") {
			t.Fatal("SetLanguage(es) should succeed")
		}
		if store[StoreKey] != "es" {
			t.Errorf("persisted = %q", store[StoreKey])
		}
		if !reflect.DeepEqual(rec.got, []string{"es"}) {
			t.Errorf("notifications = %v", rec.got)
		}
	})

	t.Run("unsubscribe", func(t *testing.T) {
		r.Unsubscribe(rec)
		r.SetLanguage("en")
		if len(rec.got) != 1 {
			t.Errorf("notified after unsubscribe: %v", rec.got)
		}
	})
}

func TestFailingListenerIsolated(t *testing.T) {
	r := newTestRegistry(t)
	rec := &langRecorder{}
	r.Subscribe(Func(func(string) { panic("boom") }))
	r.Subscribe(rec)

	r.SetLanguage("es")
	if !reflect.DeepEqual(rec.got, []string{"es"}) {
		t.Errorf("later listener not reached: %v", rec.got)
	}
}

func TestCycle(t *testing.T) {
	r := newTestRegistry(t)
	if got := r.Cycle(); got != "es" {
		t.Errorf("Cycle() = %q, want es", got)
	}
	if got := r.Cycle(); got != "en" {
		t.Errorf("Cycle() = %q, want en", got)
	}
}

func TestBaseLanguage(t *testing.T) {
	tests := map[string]string{
		"de_DE.UTF-8":    "de",
		"es_ES@euro":     "es",
		"en-US":          "en",
		"pt":             "pt",
		"":               "",
		"not a language": "",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := BaseLanguage(in); got != want {
				t.Errorf("BaseLanguage(%q) = %q, want %q", in, got, want)
			}
		})
	}
}

func TestEnvLocale(t *testing.T) {
	env := map[string]string{"LC_ALL": "", "LC_MESSAGES": "C", "LANG": "de_DE.UTF-8"}
	src := EnvLocale{Getenv: func(k string) string { return env[k] }}

	if got := src.Preferences(); !reflect.DeepEqual(got, []string{"de_DE.UTF-8"}) {
		t.Errorf("Preferences() = %v", got)
	}
}

func TestReloadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, "fr.toml"), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("[pages.home]\ntitle = \"Accueil\"\n")

	r, err := New(Options{Dir: dir, Logger: logging.Nop()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	r.Initialize(mapStore{}, StaticLocale{"fr_FR"})
	if got := r.Translate("pages.home.title"); got != "Accueil" {
		t.Fatalf("Translate() = %q", got)
	}

	rec := &langRecorder{}
	r.Subscribe(rec)

	write("[pages.home]\ntitle = \"Bienvenue\"\n")
	if err := r.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if got := r.Translate("pages.home.title"); got != "Bienvenue" {
		t.Errorf("Translate() after reload = %q", got)
	}
	if !reflect.DeepEqual(rec.got, []string{"fr"}) {
		t.Errorf("notifications = %v", rec.got)
	}

	if err := os.Remove(filepath.Join(dir, "fr.toml")); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if r.Language() != "en" {
		t.Errorf("Language() = %q, want fallback to en", r.Language())
	}
}

func TestReloadKeepsDictionariesOnError(t *testing.T) {
	dir := t.TempDir()
	r, err := New(Options{Dir: dir, Logger: logging.Nop()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "en.toml"), []byte("not = [valid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(); err == nil {
		t.Error("expected reload error")
	}
	if got := r.Translate("pages.home.title"); got != "Home" {
		t.Errorf("Translate() = %q, old dictionary lost", got)
	}
}

func TestWatchWithoutDirectory(t *testing.T) {
	r := newTestRegistry(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.Watch(ctx); err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}
