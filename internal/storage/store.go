// Package storage provides the namespaced key/value store used for UI state
// such as the chosen language and the sidebar expansion map.
//
// Store operations never fail: when the backend reports an error the store
// logs it once, switches to an in-memory backend and carries on. The memory
// backend starts with every value this store has read or written so far.
package storage

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	mdwerror "github.com/msto63/leitstand/foundation/core/error"
	"github.com/msto63/leitstand/pkg/core/logging"
)

// Backend kinds accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DefaultNamespace prefixes keys when none is configured.
const DefaultNamespace = "leitstand"

// Config selects and configures a backend.
type Config struct {
	Backend   string
	Path      string
	Namespace string
}

// Store is a namespaced view on a Backend with an in-memory fallback.
type Store struct {
	namespace string
	logger    *logging.Logger

	mu       sync.RWMutex
	backend  Backend
	degraded bool
	// full key -> value as last read from or written to backend
	known map[string]string
}

// New creates a store on backend. A nil backend yields a memory store.
func New(backend Backend, namespace string, logger *logging.Logger) *Store {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	if logger == nil {
		logger = logging.New("storage")
	}
	return &Store{
		namespace: namespace,
		logger:    logger,
		backend:   backend,
		known:     make(map[string]string),
	}
}

// OpenBackend creates the backend named in cfg.
func OpenBackend(cfg Config) (Backend, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendSQLite:
		return NewSQLiteBackend(SQLiteConfig{Path: cfg.Path})
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, mdwerror.New("unknown storage backend").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("storage.OpenBackend").
			WithDetail("backend", cfg.Backend)
	}
}

// Open creates a store from cfg. If the backend cannot be opened the store
// starts degraded on memory.
func Open(cfg Config, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.New("storage")
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	backend, err := OpenBackend(cfg)
	if err != nil {
		logger.LogError(mdwerror.Wrap(err, "persistent store unavailable, using memory").
			WithCode(mdwerror.CodeStorageUnavailable))
		s := New(NewMemoryBackend(), namespace, logger)
		s.degraded = true
		return s
	}
	return New(backend, namespace, logger)
}

// Namespace returns the key prefix.
func (s *Store) Namespace() string {
	return s.namespace
}

// Degraded reports whether the store fell back to memory.
func (s *Store) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

func (s *Store) fullKey(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}

func (s *Store) prefix() string {
	return s.fullKey("")
}

func (s *Store) current() Backend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backend
}

// degrade replaces a failing backend with memory and returns the backend to
// use from now on. Only the first failure is logged.
func (s *Store) degrade(failed Backend, err error, op string) Backend {
	s.mu.Lock()
	if s.backend != failed {
		b := s.backend
		s.mu.Unlock()
		return b
	}
	mem := NewMemoryBackend()
	for k, v := range s.known {
		_ = mem.Set(context.Background(), k, v)
	}
	s.backend = mem
	s.degraded = true
	b := s.backend
	s.mu.Unlock()

	s.logger.LogError(mdwerror.Wrap(err, "store backend failed, switching to memory").
		WithCode(mdwerror.CodeStorageUnavailable).
		WithOperation(op))
	_ = failed.Close()
	return b
}

func (s *Store) remember(full, value string) {
	s.mu.Lock()
	s.known[full] = value
	s.mu.Unlock()
}

func (s *Store) forget(full string) {
	s.mu.Lock()
	delete(s.known, full)
	s.mu.Unlock()
}

// Get returns the value of key or def.
func (s *Store) Get(key, def string) string {
	ctx := context.Background()
	full := s.fullKey(key)

	b := s.current()
	v, ok, err := b.Get(ctx, full)
	if err != nil {
		v, ok, err = s.degrade(b, err, "storage.Get").Get(ctx, full)
	}
	if err != nil {
		return def
	}
	if !ok {
		s.forget(full)
		return def
	}
	s.remember(full, v)
	return v
}

// Set stores value under key and reports success.
func (s *Store) Set(key, value string) bool {
	ctx := context.Background()
	full := s.fullKey(key)

	b := s.current()
	err := b.Set(ctx, full, value)
	if err != nil {
		err = s.degrade(b, err, "storage.Set").Set(ctx, full, value)
	}
	if err != nil {
		return false
	}
	s.remember(full, value)
	return true
}

// Remove deletes key and reports success.
func (s *Store) Remove(key string) bool {
	ctx := context.Background()
	full := s.fullKey(key)

	b := s.current()
	err := b.Delete(ctx, full)
	if err != nil {
		err = s.degrade(b, err, "storage.Remove").Delete(ctx, full)
	}
	if err != nil {
		return false
	}
	s.forget(full)
	return true
}

// GetJSON decodes the value of key into target. It reports false when the
// key is missing or holds invalid JSON; target is then left untouched.
func (s *Store) GetJSON(key string, target interface{}) bool {
	raw := s.Get(key, "")
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		s.logger.Warn("ignoring undecodable value in store", "key", key, "error", err.Error())
		return false
	}
	return true
}

// SetJSON encodes value as JSON and stores it under key.
func (s *Store) SetJSON(key string, value interface{}) bool {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cannot encode value for store", "key", key, "error", err.Error())
		return false
	}
	return s.Set(key, string(data))
}

// Keys returns the keys of this namespace without the prefix, sorted.
func (s *Store) Keys() []string {
	ctx := context.Background()
	prefix := s.prefix()

	b := s.current()
	keys, err := b.Keys(ctx, prefix)
	if err != nil {
		keys, err = s.degrade(b, err, "storage.Keys").Keys(ctx, prefix)
	}
	if err != nil {
		return nil
	}

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, prefix))
	}
	return out
}

// ClearAll removes every key of this namespace and reports success.
func (s *Store) ClearAll() bool {
	ok := true
	for _, key := range s.Keys() {
		if !s.Remove(key) {
			ok = false
		}
	}
	return ok
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.current().Close()
}
