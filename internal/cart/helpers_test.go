package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/angelmondragon/doccart/internal/documents"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

type fakeSessionStore struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	touches int
	getErr  error
	setErr  error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeSessionStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeSessionStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	s, ok := value.(string)
	if !ok {
		return errors.New("fake store only accepts strings")
	}
	f.data[key] = s
	f.ttls[key] = ttl
	return nil
}

func (f *fakeSessionStore) Touch(_ context.Context, key string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touches++
	if _, ok := f.data[key]; ok {
		f.ttls[key] = ttl
	}
	return nil
}

func (f *fakeSessionStore) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.data, key)
		delete(f.ttls, key)
	}
	return nil
}

func (f *fakeSessionStore) CartKey(sessionID string) string {
	return "dc:cart:" + sessionID
}

type stubDocuments struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*documents.Document
	err  error
}

func newStubDocuments(docs ...*documents.Document) *stubDocuments {
	s := &stubDocuments{docs: map[uuid.UUID]*documents.Document{}}
	for _, doc := range docs {
		s.docs[doc.ID] = doc
	}
	return s
}

func (s *stubDocuments) GetByID(_ context.Context, id uuid.UUID) (*documents.Document, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, false, s.err
	}
	doc, ok := s.docs[id]
	return doc, ok, nil
}

func (s *stubDocuments) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*documents.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := map[uuid.UUID]*documents.Document{}
	for _, id := range ids {
		if doc, ok := s.docs[id]; ok {
			out[id] = doc
		}
	}
	return out, nil
}

type stubRecorder struct {
	sessionID string
	items     []Item
	info      map[string]string
	id        uuid.UUID
	err       error
	calls     int

	stored    map[uuid.UUID]*Submission
	lookupErr error
}

func (s *stubRecorder) Lookup(_ context.Context, id uuid.UUID) (*Submission, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	return s.stored[id], nil
}

func (s *stubRecorder) Record(_ context.Context, sessionID string, items []Item, info map[string]string) (uuid.UUID, error) {
	s.calls++
	s.sessionID = sessionID
	s.items = items
	s.info = info
	if s.id == uuid.Nil && s.err == nil {
		s.id = uuid.New()
	}
	return s.id, s.err
}

type failingBackend struct {
	MemoryBackend
	err error
}

func (f *failingBackend) Items(context.Context) ([]Item, error) { return nil, f.err }
func (f *failingBackend) Item(context.Context, uuid.UUID) (Item, bool, error) {
	return Item{}, false, f.err
}
func (f *failingBackend) AddItem(context.Context, Item) error { return f.err }

type staticProvider struct {
	backend Backend
	err     error
}

func (p staticProvider) ForSession(string) (Backend, error) {
	return p.backend, p.err
}

func doc(title string, allowed bool, maxQty int) *documents.Document {
	return &documents.Document{
		ID:               uuid.New(),
		Title:            title,
		AllowedInCart:    allowed,
		HasQuantityLimit: maxQty > 0,
		MaximumQuantity:  maxQty,
	}
}
