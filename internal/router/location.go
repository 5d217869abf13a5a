package router

import (
	"sync"
)

// Location is the addressable fragment the router reads and writes.
type Location interface {
	// Fragment returns the raw fragment, e.g. "/basic/network?tab=wifi".
	Fragment() string
	// Assign pushes a new history entry.
	Assign(fragment string)
	// Replace overwrites the current history entry.
	Replace(fragment string)
	// Watch registers fn for fragment changes and returns a function that
	// removes it again.
	Watch(fn func()) (stop func())
}

// MemoryLocation is an in-process Location with a browser-like history.
// Watchers run synchronously on the goroutine that changed the fragment,
// and only when the fragment actually changed.
type MemoryLocation struct {
	mu       sync.Mutex
	entries  []string
	index    int
	watchers map[int]func()
	order    []int
	nextID   int
}

// NewMemoryLocation creates a history with a single entry.
func NewMemoryLocation(initial string) *MemoryLocation {
	return &MemoryLocation{
		entries:  []string{initial},
		watchers: make(map[int]func()),
	}
}

// Fragment implements Location.
func (m *MemoryLocation) Fragment() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.index]
}

// Assign implements Location. Forward entries are discarded.
func (m *MemoryLocation) Assign(fragment string) {
	m.mu.Lock()
	if m.entries[m.index] == fragment {
		m.mu.Unlock()
		return
	}
	m.entries = append(m.entries[:m.index+1], fragment)
	m.index++
	m.mu.Unlock()
	m.fire()
}

// Replace implements Location.
func (m *MemoryLocation) Replace(fragment string) {
	m.mu.Lock()
	if m.entries[m.index] == fragment {
		m.mu.Unlock()
		return
	}
	m.entries[m.index] = fragment
	m.mu.Unlock()
	m.fire()
}

// Back moves one entry back. It reports whether the position changed.
func (m *MemoryLocation) Back() bool {
	return m.move(-1)
}

// Forward moves one entry forward. It reports whether the position changed.
func (m *MemoryLocation) Forward() bool {
	return m.move(1)
}

func (m *MemoryLocation) move(delta int) bool {
	m.mu.Lock()
	next := m.index + delta
	if next < 0 || next >= len(m.entries) {
		m.mu.Unlock()
		return false
	}
	changed := m.entries[next] != m.entries[m.index]
	m.index = next
	m.mu.Unlock()
	if changed {
		m.fire()
	}
	return true
}

// CanGoBack reports whether Back would move.
func (m *MemoryLocation) CanGoBack() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index > 0
}

// CanGoForward reports whether Forward would move.
func (m *MemoryLocation) CanGoForward() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index < len(m.entries)-1
}

// History returns a copy of all entries and the current position.
func (m *MemoryLocation) History() ([]string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	copy(out, m.entries)
	return out, m.index
}

// Watch implements Location.
func (m *MemoryLocation) Watch(fn func()) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.watchers[id] = fn
	m.order = append(m.order, id)
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.watchers, id)
			for i, existing := range m.order {
				if existing == id {
					m.order = append(m.order[:i:i], m.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (m *MemoryLocation) fire() {
	m.mu.Lock()
	fns := make([]func(), 0, len(m.order))
	for _, id := range m.order {
		fns = append(fns, m.watchers[id])
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
