// Package i18n holds the shell's translation state: the dictionaries, the
// current language and the listeners that rebuild the UI when it changes.
package i18n

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"

	mdwerror "github.com/msto63/leitstand/foundation/core/error"
	mdwi18n "github.com/msto63/leitstand/foundation/core/i18n"
	"github.com/msto63/leitstand/foundation/utils/mapx"
	"github.com/msto63/leitstand/internal/notify"
	"github.com/msto63/leitstand/pkg/core/logging"
)

//go:embed locales/*.toml
var embedded embed.FS

// DefaultLanguage is used when no default language is configured.
const DefaultLanguage = "en"

// StoreKey is the store key of the persisted language.
const StoreKey = "language"

// Store persists the chosen language.
type Store interface {
	Get(key, def string) string
	Set(key, value string) bool
}

// Listener receives the current language after every change.
type Listener = notify.Listener[string]

// Func wraps fn as a Listener. Keep the returned handle to unsubscribe.
func Func(fn func(lang string)) *notify.ListenerFunc[string] {
	return notify.Func(fn)
}

// TranslateFunc resolves a dotted key in the current language.
type TranslateFunc func(key string, vars ...map[string]any) string

// Options configures a Registry.
type Options struct {
	// DefaultLanguage is the fallback dictionary.
	DefaultLanguage string
	// Dir is an optional locales directory loaded on top of the built-in
	// dictionaries. Files replace built-in languages of the same name.
	Dir    string
	Logger *logging.Logger
}

// Registry owns the current language.
type Registry struct {
	defaultLang string
	dir         string
	logger      *logging.Logger
	listeners   *notify.Dispatcher[string]
	load        func() (*mdwi18n.Catalog, error)

	mu      sync.RWMutex
	catalog *mdwi18n.Catalog
	current string
	store   Store
}

// New loads the built-in dictionaries plus opts.Dir.
func New(opts Options) (*Registry, error) {
	dir := opts.Dir
	load := func() (*mdwi18n.Catalog, error) {
		return loadCatalog(dir)
	}
	catalog, err := load()
	if err != nil {
		return nil, err
	}
	r, err := NewWithCatalog(catalog, opts)
	if err != nil {
		return nil, err
	}
	r.load = load
	return r, nil
}

// NewWithCatalog creates a registry on a prepared catalog. Reload is a no-op
// for such registries.
func NewWithCatalog(catalog *mdwi18n.Catalog, opts Options) (*Registry, error) {
	def := opts.DefaultLanguage
	if def == "" {
		def = DefaultLanguage
	}
	if catalog == nil || !catalog.Has(def) {
		return nil, mdwerror.New("default language has no dictionary").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("i18n.New").
			WithDetail("language", def)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.New("i18n")
	}
	return &Registry{
		defaultLang: def,
		dir:         opts.Dir,
		logger:      logger,
		listeners:   notify.New[string]("i18n", logger.LogError),
		catalog:     catalog,
		current:     def,
	}, nil
}

func loadCatalog(dir string) (*mdwi18n.Catalog, error) {
	catalog := mdwi18n.NewCatalog()
	if _, err := catalog.LoadFS(embedded, "locales"); err != nil {
		return nil, err
	}
	if dir != "" {
		if _, err := catalog.LoadDir(dir); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// Initialize picks the starting language: the persisted choice if it is
// known, else the first matching locale preference, else the default. The
// choice is persisted and announced once.
func (r *Registry) Initialize(store Store, locale LocaleSource) {
	r.mu.Lock()
	r.store = store
	catalog := r.catalog

	lang, source := "", "default"
	if store != nil {
		if persisted := store.Get(StoreKey, ""); catalog.Has(persisted) {
			lang, source = persisted, "store"
		}
	}
	if lang == "" && locale != nil {
		for _, pref := range locale.Preferences() {
			if base := BaseLanguage(pref); catalog.Has(base) {
				lang, source = base, "locale"
				break
			}
		}
	}
	if lang == "" {
		lang = r.defaultLang
	}
	r.current = lang
	r.mu.Unlock()

	r.logger.Debug("language initialized", "language", lang, "source", source)
	r.persist(lang)
	r.listeners.Notify(lang)
}

// Translate resolves key in the current language, then in the default
// language, and finally returns key itself. {name} placeholders are filled
// from vars; unknown placeholders are kept.
func (r *Registry) Translate(key string, vars ...map[string]any) string {
	r.mu.RLock()
	catalog, current := r.catalog, r.current
	r.mu.RUnlock()

	text, ok := catalog.Lookup(current, key)
	if !ok && current != r.defaultLang {
		text, ok = catalog.Lookup(r.defaultLang, key)
	}
	if !ok {
		text = key
	}
	if len(vars) == 0 {
		return text
	}
	return Interpolate(text, mergeVars(vars))
}

// T is the TranslateFunc of the registry.
func (r *Registry) T() TranslateFunc {
	return r.Translate
}

func mergeVars(vars []map[string]any) map[string]any {
	if len(vars) == 1 {
		return vars[0]
	}
	return mapx.Merge(vars...)
}

// Interpolate replaces every {name} whose name is a key of vars.
func Interpolate(text string, vars map[string]any) string {
	if len(vars) == 0 || !strings.Contains(text, "{") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(text[open+1:], '}')
		if end < 0 {
			break
		}
		end += open + 1

		name := text[open+1 : end]
		if strings.ContainsRune(name, '{') {
			// "{{name}": keep the first brace and rescan from the second.
			b.WriteString(text[:open+1])
			text = text[open+1:]
			continue
		}

		b.WriteString(text[:open])
		if v, ok := vars[name]; ok && name != "" {
			b.WriteString(fmt.Sprint(v))
		} else {
			b.WriteString(text[open : end+1])
		}
		text = text[end+1:]
	}
	b.WriteString(text)
	return b.String()
}

// SetLanguage switches to lang. Unknown languages are ignored without
// notification. It reports whether lang is now current.
func (r *Registry) SetLanguage(lang string) bool {
	r.mu.Lock()
	if !r.catalog.Has(lang) {
		r.mu.Unlock()
		r.logger.Debug("ignoring unknown language", "language", lang)
		return false
	}
	r.current = lang
	r.mu.Unlock()

	r.persist(lang)
	r.logger.Debug("language changed", "language", lang)
	r.listeners.Notify(lang)
	return true
}

// Cycle switches to the next language in sorted order and returns it.
func (r *Registry) Cycle() string {
	langs := r.Languages()
	current := r.Language()

	next := langs[0]
	for i, lang := range langs {
		if lang == current {
			next = langs[(i+1)%len(langs)]
			break
		}
	}
	r.SetLanguage(next)
	return next
}

func (r *Registry) persist(lang string) {
	r.mu.RLock()
	store := r.store
	r.mu.RUnlock()
	if store != nil && !store.Set(StoreKey, lang) {
		r.logger.Warn("failed to persist language", "language", lang)
	}
}

// Language returns the current language.
func (r *Registry) Language() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// DefaultLanguage returns the fallback language.
func (r *Registry) DefaultLanguage() string {
	return r.defaultLang
}

// Languages returns the known languages, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog.Languages()
}

// Subscribe adds l. Adding the same listener twice is a no-op.
func (r *Registry) Subscribe(l Listener) bool {
	return r.listeners.Subscribe(l)
}

// Unsubscribe removes l. Removing an unknown listener is a no-op.
func (r *Registry) Unsubscribe(l Listener) bool {
	return r.listeners.Unsubscribe(l)
}

// Reload rereads the dictionaries and notifies listeners so that every
// region is rebuilt. If the current language disappeared the default
// language takes over. On error the old dictionaries stay active.
func (r *Registry) Reload() error {
	if r.load == nil {
		return nil
	}
	catalog, err := r.load()
	if err != nil {
		return mdwerror.Wrap(err, "failed to reload dictionaries").WithOperation("i18n.Reload")
	}
	if !catalog.Has(r.defaultLang) {
		return mdwerror.New("default language missing after reload").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("i18n.Reload").
			WithDetail("language", r.defaultLang)
	}

	r.mu.Lock()
	r.catalog = catalog
	if !catalog.Has(r.current) {
		r.current = r.defaultLang
	}
	current := r.current
	r.mu.Unlock()

	r.logger.Info("dictionaries reloaded", "languages", strings.Join(catalog.Languages(), ","))
	r.listeners.Notify(current)
	return nil
}

// Watch reloads the dictionaries whenever a file in the locales directory
// changes. It blocks until ctx is done and returns nil at once when no
// directory is configured.
func (r *Registry) Watch(ctx context.Context) error {
	if r.dir == "" {
		return nil
	}
	return mdwi18n.Watch(ctx, r.dir, func(path string) {
		r.logger.Debug("dictionary changed", "path", path)
		if err := r.Reload(); err != nil {
			r.logger.LogError(err)
		}
	}, func(err error) {
		r.logger.Warn("locale watcher error", "error", err)
	})
}
