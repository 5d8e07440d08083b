package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryBackend keeps a cart in process memory. Used in dev and tests.
type MemoryBackend struct {
	mu sync.RWMutex
	st state
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Items(context.Context) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.items(), nil
}

func (m *MemoryBackend) Item(_ context.Context, documentID uuid.UUID) (Item, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.st.index(documentID); i >= 0 {
		return m.st.Items[i], true, nil
	}
	return Item{}, false, nil
}

func (m *MemoryBackend) AddItem(_ context.Context, item Item) error {
	if err := checkStorable(item); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.put(item)
	return nil
}

func (m *MemoryBackend) RemoveItem(ctx context.Context, item Item) error {
	return m.RemoveItemByID(ctx, item.DocumentID)
}

func (m *MemoryBackend) RemoveItemByID(_ context.Context, documentID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.drop(documentID)
	return nil
}

func (m *MemoryBackend) EmptyCart(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.Items = nil
	return nil
}

func (m *MemoryBackend) SetBackURL(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.BackURL = url
	return nil
}

func (m *MemoryBackend) BackURL(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.st.BackURL, nil
}

func (m *MemoryBackend) SetReceiverInfo(_ context.Context, info map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.ReceiverInfo = copyInfo(info)
	return nil
}

func (m *MemoryBackend) ReceiverInfo(context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyInfo(m.st.ReceiverInfo), nil
}
