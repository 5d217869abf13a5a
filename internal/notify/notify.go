// Package notify implements the synchronous listener fan-out shared by the
// router and the translation registry.
//
// Every listener runs on every notification. Errors and panics of one
// listener are collected and forwarded to an error handler instead of
// aborting the pass.
package notify

import (
	"fmt"
	"runtime/debug"
	"sync"

	mdwerror "github.com/msto63/leitstand/foundation/core/error"
)

// Listener receives values of type T.
//
// Listeners are compared by identity, so implementations must be comparable;
// pointer receivers are the usual choice.
type Listener[T any] interface {
	Handle(value T) error
}

// ListenerFunc adapts a function to Listener. Use the returned pointer as the
// subscription handle, since functions themselves cannot be compared.
type ListenerFunc[T any] struct {
	fn func(T) error
}

// Func wraps fn as a listener that never fails.
func Func[T any](fn func(T)) *ListenerFunc[T] {
	return &ListenerFunc[T]{fn: func(v T) error {
		fn(v)
		return nil
	}}
}

// FuncErr wraps fn as a listener.
func FuncErr[T any](fn func(T) error) *ListenerFunc[T] {
	return &ListenerFunc[T]{fn: fn}
}

// Handle calls the wrapped function.
func (l *ListenerFunc[T]) Handle(value T) error {
	if l == nil || l.fn == nil {
		return nil
	}
	return l.fn(value)
}

// ErrorHandler receives every listener failure of a notification pass.
type ErrorHandler func(err error)

// Dispatcher is an insertion-ordered listener set.
type Dispatcher[T any] struct {
	name      string
	mu        sync.Mutex
	listeners []Listener[T]
	onError   ErrorHandler
}

// New creates a dispatcher. name appears in reported errors.
func New[T any](name string, onError ErrorHandler) *Dispatcher[T] {
	return &Dispatcher[T]{name: name, onError: onError}
}

// Subscribe adds l unless it is already present. It reports whether l was added.
func (d *Dispatcher[T]) Subscribe(l Listener[T]) bool {
	if l == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.indexOf(l) >= 0 {
		return false
	}
	d.listeners = append(d.listeners, l)
	return true
}

// Unsubscribe removes l. Removing an unknown listener is a no-op.
func (d *Dispatcher[T]) Unsubscribe(l Listener[T]) bool {
	if l == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.indexOf(l)
	if i < 0 {
		return false
	}
	d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
	return true
}

// Has reports whether l is subscribed.
func (d *Dispatcher[T]) Has(l Listener[T]) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.indexOf(l) >= 0
}

// Len returns the number of subscribed listeners.
func (d *Dispatcher[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}

func (d *Dispatcher[T]) indexOf(l Listener[T]) int {
	for i, existing := range d.listeners {
		if existing == l {
			return i
		}
	}
	return -1
}

// Notify delivers value to a snapshot of the listener set, in subscription
// order, and returns the failures. No lock is held while listeners run, so a
// listener may subscribe, unsubscribe or trigger another notification.
func (d *Dispatcher[T]) Notify(value T) []error {
	d.mu.Lock()
	snapshot := make([]Listener[T], len(d.listeners))
	copy(snapshot, d.listeners)
	d.mu.Unlock()

	var errs []error
	for i, l := range snapshot {
		if err := d.deliver(i, l, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Deliver sends value to a single listener with the same isolation as Notify.
func (d *Dispatcher[T]) Deliver(l Listener[T], value T) error {
	return d.deliver(-1, l, value)
}

func (d *Dispatcher[T]) deliver(index int, l Listener[T], value T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = mdwerror.New(fmt.Sprintf("listener panicked: %v", r)).
				WithCode(mdwerror.CodeListenerFailed).
				WithOperation(d.name+".Notify").
				WithDetail("listener", index).
				WithDetail("stack", string(debug.Stack()))
		}
		if err != nil && d.onError != nil {
			d.onError(err)
		}
	}()

	if lerr := l.Handle(value); lerr != nil {
		return mdwerror.Wrap(lerr, "listener failed").
			WithCode(mdwerror.CodeListenerFailed).
			WithOperation(d.name+".Notify").
			WithDetail("listener", index)
	}
	return nil
}
