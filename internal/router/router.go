// Package router implements the navigation state machine of the shell.
//
// The router reads the fragment of a Location, validates it against the
// section whitelist and either publishes it to its listeners or redirects to
// the default route. Bursts of change signals are collapsed by a debounce
// timer. Invalid input never becomes the current route.
package router

import (
	"sync"
	"time"

	"github.com/msto63/leitstand/internal/notify"
	"github.com/msto63/leitstand/internal/route"
	"github.com/msto63/leitstand/pkg/core/logging"
)

// DefaultDebounce is the window used to collapse change signals.
const DefaultDebounce = 25 * time.Millisecond

// DefaultRoute is used when no default route is configured.
const DefaultRoute = "/home"

// State is the router's position in its lifecycle.
type State int

const (
	// Uninitialized: Initialize has not been called.
	Uninitialized State = iota
	// Resolving: a debounce window is open or no route was accepted yet.
	Resolving
	// Resolved: the current route is stable.
	Resolved
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Listener receives every accepted route.
type Listener = notify.Listener[route.Route]

// Func wraps fn as a Listener. Keep the returned handle to unsubscribe.
func Func(fn func(route.Route)) *notify.ListenerFunc[route.Route] {
	return notify.Func(fn)
}

// Options configures a Router.
type Options struct {
	Location  Location
	Whitelist route.Whitelist
	Debounce  time.Duration
	Scheduler Scheduler
	Logger    *logging.Logger
}

// InitOptions are passed to Initialize.
type InitOptions struct {
	// DefaultRoute replaces the redirect target when not empty.
	DefaultRoute string
	// Listener is subscribed and, on repeated calls, replayed the current route.
	Listener Listener
}

// NavigateOptions control a single navigation.
type NavigateOptions struct {
	// Replace overwrites the current history entry instead of pushing.
	Replace bool
	// Silent writes the location without scheduling a resolution.
	Silent bool
}

// Router owns the current route.
type Router struct {
	location  Location
	whitelist route.Whitelist
	debounce  time.Duration
	scheduler Scheduler
	logger    *logging.Logger
	listeners *notify.Dispatcher[route.Route]

	mu           sync.Mutex
	current      *route.Route
	defaultRoute route.Route
	initialized  bool
	pending      Timer
	stopWatch    func()
	resolutions  int
	redirects    int
}

// New creates an uninitialized router.
func New(opts Options) *Router {
	r := &Router{
		location:  opts.Location,
		whitelist: opts.Whitelist,
		debounce:  opts.Debounce,
		scheduler: opts.Scheduler,
		logger:    opts.Logger,
	}
	if r.location == nil {
		r.location = NewMemoryLocation("")
	}
	if len(r.whitelist) == 0 {
		r.whitelist = route.DefaultWhitelist
	}
	if r.debounce <= 0 {
		r.debounce = DefaultDebounce
	}
	if r.scheduler == nil {
		r.scheduler = ClockScheduler{}
	}
	if r.logger == nil {
		r.logger = logging.New("router")
	}
	r.listeners = notify.New[route.Route]("router", r.logger.LogError)
	r.setDefault(DefaultRoute)
	return r
}

// setDefault stores the normalized default route. A default outside the
// whitelist would redirect forever, so the first whitelist entry is used.
func (r *Router) setDefault(path string) {
	def := route.Parse(path)
	if !r.whitelist.Allows(def.Path()) {
		fallback := route.Parse(r.whitelist[0])
		r.logger.Warn("default route not allowed, using first section",
			"requested", path, "fallback", fallback.Path())
		def = fallback
	}
	r.defaultRoute = def
}

// Initialize starts the router. The first call watches the location and
// resolves the current fragment synchronously. Later calls only update the
// default route and subscribe the listener, replaying the current route to it.
func (r *Router) Initialize(opts InitOptions) {
	r.mu.Lock()
	if opts.DefaultRoute != "" {
		r.setDefault(opts.DefaultRoute)
	}

	if r.initialized {
		current := r.current
		r.mu.Unlock()
		if opts.Listener != nil {
			r.listeners.Subscribe(opts.Listener)
			if current != nil {
				_ = r.listeners.Deliver(opts.Listener, *current)
			}
		}
		return
	}
	r.initialized = true
	r.mu.Unlock()

	if opts.Listener != nil {
		r.listeners.Subscribe(opts.Listener)
	}
	stop := r.location.Watch(r.debouncedResolve)

	r.mu.Lock()
	r.stopWatch = stop
	r.mu.Unlock()

	r.logger.Debug("router initialized", "default", r.DefaultRoute().Path(), "fragment", r.location.Fragment())
	r.resolve()
}

// debouncedResolve cancels a pending resolution and schedules a new one.
func (r *Router) debouncedResolve() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return
	}
	if r.pending != nil {
		r.pending.Stop()
	}

	var t Timer
	t = r.scheduler.AfterFunc(r.debounce, func() {
		r.mu.Lock()
		if r.pending != t {
			r.mu.Unlock()
			return
		}
		r.pending = nil
		r.mu.Unlock()
		r.resolve()
	})
	r.pending = t
}

// resolve parses the fragment and either publishes it or redirects.
func (r *Router) resolve() {
	raw := r.location.Fragment()
	next := route.Parse(raw)

	r.mu.Lock()
	if !r.whitelist.Allows(next.Path()) {
		target := r.defaultRoute.Fragment()
		r.redirects++
		r.mu.Unlock()
		r.logger.Debug("redirecting to default route", "fragment", raw, "target", target)
		r.Navigate(target, NavigateOptions{Replace: true})
		return
	}
	r.current = &next
	r.resolutions++
	r.mu.Unlock()

	r.logger.Debug("route resolved", "path", next.Path())
	r.listeners.Notify(next)
}

// Navigate writes path to the location. The query part of path is kept.
func (r *Router) Navigate(path string, opts NavigateOptions) {
	fragment := route.Normalize(path) + route.Query(path)
	if opts.Replace {
		r.location.Replace(fragment)
	} else {
		r.location.Assign(fragment)
	}
	if !opts.Silent {
		r.debouncedResolve()
	}
}

// CurrentRoute returns the last accepted route, or a parse of the raw
// fragment before the first resolution.
func (r *Router) CurrentRoute() route.Route {
	r.mu.Lock()
	current := r.current
	r.mu.Unlock()
	if current != nil {
		return *current
	}
	return route.Parse(r.location.Fragment())
}

// DefaultRoute returns the redirect target.
func (r *Router) DefaultRoute() route.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.defaultRoute
}

// Whitelist returns the sections the router accepts.
func (r *Router) Whitelist() route.Whitelist {
	out := make(route.Whitelist, len(r.whitelist))
	copy(out, r.whitelist)
	return out
}

// Location returns the location the router reads.
func (r *Router) Location() Location {
	return r.location
}

// State returns the lifecycle state.
func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case !r.initialized:
		return Uninitialized
	case r.pending != nil || r.current == nil:
		return Resolving
	default:
		return Resolved
	}
}

// Stats returns how many routes were accepted and how many redirects happened.
func (r *Router) Stats() (resolutions, redirects int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolutions, r.redirects
}

// Subscribe adds l. Adding the same listener twice is a no-op.
func (r *Router) Subscribe(l Listener) bool {
	return r.listeners.Subscribe(l)
}

// Unsubscribe removes l. Removing an unknown listener is a no-op.
func (r *Router) Unsubscribe(l Listener) bool {
	return r.listeners.Unsubscribe(l)
}

// Close stops watching the location and cancels a pending resolution.
// The router can be initialized again afterwards.
func (r *Router) Close() {
	r.mu.Lock()
	stop := r.stopWatch
	r.stopWatch = nil
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
	r.initialized = false
	r.mu.Unlock()

	if stop != nil {
		stop()
	}
}
