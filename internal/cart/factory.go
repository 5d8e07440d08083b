package cart

import (
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/doccart/pkg/config"
	"gorm.io/gorm"
)

// SessionKeyer maps a cart session ID onto its storage key.
type SessionKeyer interface {
	CartKey(sessionID string) string
}

// RedisSessionStore is a session store that also knows its key layout.
type RedisSessionStore interface {
	SessionStore
	SessionKeyer
}

// BackendFactory hands out the configured backend for a cart session.
type BackendFactory struct {
	kind  string
	ttl   time.Duration
	redis RedisSessionStore
	db    *gorm.DB

	mu        sync.Mutex
	memory    map[string]*memoryEntry
	lastSweep time.Time
	now       func() time.Time
}

// memoryEntry tracks when an in-process cart was last used so idle carts
// expire after the session TTL, as Redis keys do.
type memoryEntry struct {
	backend  *MemoryBackend
	lastSeen time.Time
}

const maxMemorySweepInterval = time.Minute

// FactoryDeps carries the storage clients a factory may need. Only the one
// matching the configured kind is required.
type FactoryDeps struct {
	Redis RedisSessionStore
	DB    *gorm.DB
}

func NewBackendFactory(cfg config.CartConfig, deps FactoryDeps) (*BackendFactory, error) {
	f := &BackendFactory{
		kind:   cfg.BackendKind(),
		ttl:    cfg.SessionTTL,
		redis:  deps.Redis,
		db:     deps.DB,
		memory: map[string]*memoryEntry{},
		now:    time.Now,
	}
	switch f.kind {
	case config.CartBackendSession:
		if f.redis == nil {
			return nil, fmt.Errorf("session cart backend requires redis")
		}
	case config.CartBackendDatabase:
		if f.db == nil {
			return nil, fmt.Errorf("database cart backend requires a db")
		}
	case config.CartBackendMemory:
	default:
		return nil, fmt.Errorf("unknown cart backend %q", f.kind)
	}
	return f, nil
}

// Kind names the backend this factory produces.
func (f *BackendFactory) Kind() string {
	return f.kind
}

// ForSession returns the backend bound to sessionID.
func (f *BackendFactory) ForSession(sessionID string) (Backend, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("cart session id required")
	}
	switch f.kind {
	case config.CartBackendSession:
		return NewSessionBackend(f.redis, f.redis.CartKey(sessionID), f.ttl)
	case config.CartBackendDatabase:
		return NewDatabaseBackend(f.db, sessionID)
	default:
		f.mu.Lock()
		defer f.mu.Unlock()
		now := f.now()
		f.evictIdle(now)
		entry, ok := f.memory[sessionID]
		if !ok {
			entry = &memoryEntry{backend: NewMemoryBackend()}
			f.memory[sessionID] = entry
		}
		entry.lastSeen = now
		return entry.backend, nil
	}
}

// evictIdle drops memory carts unused for longer than the TTL. Sweeps run at
// most once per interval. Callers hold f.mu.
func (f *BackendFactory) evictIdle(now time.Time) {
	if f.ttl <= 0 {
		return
	}
	interval := f.ttl
	if interval > maxMemorySweepInterval {
		interval = maxMemorySweepInterval
	}
	if now.Sub(f.lastSweep) < interval {
		return
	}
	f.lastSweep = now
	for id, entry := range f.memory {
		if now.Sub(entry.lastSeen) > f.ttl {
			delete(f.memory, id)
		}
	}
}
