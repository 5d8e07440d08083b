package cart

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/doccart/internal/repo/repotest"
	"github.com/angelmondragon/doccart/pkg/config"
	"github.com/google/uuid"
)

func TestBackendFactorySelectsKind(t *testing.T) {
	store := newFakeSessionStore()
	db := repotest.OpenSQLite(t)

	cases := []struct {
		backend string
		want    string
	}{
		{"", config.CartBackendSession},
		{"session", config.CartBackendSession},
		{"Database", config.CartBackendDatabase},
		{"memory", config.CartBackendMemory},
	}
	for _, tc := range cases {
		f, err := NewBackendFactory(config.CartConfig{Backend: tc.backend, SessionTTL: time.Hour}, FactoryDeps{Redis: store, DB: db})
		if err != nil {
			t.Fatalf("%q: new factory: %v", tc.backend, err)
		}
		if f.Kind() != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.backend, tc.want, f.Kind())
		}
		backend, err := f.ForSession("abc")
		if err != nil {
			t.Fatalf("%q: for session: %v", tc.backend, err)
		}
		switch tc.want {
		case config.CartBackendSession:
			sb, ok := backend.(*SessionBackend)
			if !ok || sb.key != "dc:cart:abc" {
				t.Fatalf("expected session backend keyed dc:cart:abc, got %#v", backend)
			}
		case config.CartBackendDatabase:
			if _, ok := backend.(*DatabaseBackend); !ok {
				t.Fatalf("expected database backend, got %T", backend)
			}
		case config.CartBackendMemory:
			again, _ := f.ForSession("abc")
			if again != backend {
				t.Fatal("memory backend should be reused per session")
			}
		}
	}
}

func TestBackendFactoryRequiresDependencies(t *testing.T) {
	if _, err := NewBackendFactory(config.CartConfig{Backend: "session"}, FactoryDeps{}); err == nil {
		t.Fatal("expected error without redis")
	}
	if _, err := NewBackendFactory(config.CartConfig{Backend: "database"}, FactoryDeps{}); err == nil {
		t.Fatal("expected error without db")
	}
	if _, err := NewBackendFactory(config.CartConfig{Backend: "cookie"}, FactoryDeps{}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	f, err := NewBackendFactory(config.CartConfig{Backend: "memory"}, FactoryDeps{})
	if err != nil {
		t.Fatalf("memory factory: %v", err)
	}
	if _, err := f.ForSession(""); err == nil {
		t.Fatal("expected error for empty session id")
	}
}

func TestMemoryFactoryEvictsIdleCarts(t *testing.T) {
	f, err := NewBackendFactory(config.CartConfig{Backend: "memory", SessionTTL: 10 * time.Minute}, FactoryDeps{})
	if err != nil {
		t.Fatalf("memory factory: %v", err)
	}
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return clock }
	ctx := context.Background()

	idle, _ := f.ForSession("idle")
	if err := idle.AddItem(ctx, Item{DocumentID: uuid.New(), Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	active, _ := f.ForSession("active")
	if err := active.AddItem(ctx, Item{DocumentID: uuid.New(), Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}

	clock = clock.Add(6 * time.Minute)
	_, _ = f.ForSession("active")
	clock = clock.Add(6 * time.Minute)
	_, _ = f.ForSession("someone-else")

	if _, ok := f.memory["idle"]; ok {
		t.Fatal("expected idle cart to be evicted after the ttl")
	}
	again, _ := f.ForSession("active")
	if items, _ := again.Items(ctx); len(items) != 1 {
		t.Fatalf("recently used cart must survive, got %d items", len(items))
	}
	fresh, _ := f.ForSession("idle")
	if items, _ := fresh.Items(ctx); len(items) != 0 {
		t.Fatalf("evicted session should start empty, got %d items", len(items))
	}
}
