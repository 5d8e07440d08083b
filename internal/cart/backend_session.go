package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/doccart/pkg/redis"
	"github.com/google/uuid"
)

// SessionStore is the subset of pkg/redis.Client the session backend needs.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Touch(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// SessionBackend keeps the whole cart of one session as a JSON blob in Redis.
// Every access slides the key's TTL forward.
type SessionBackend struct {
	store SessionStore
	key   string
	ttl   time.Duration
}

func NewSessionBackend(store SessionStore, key string, ttl time.Duration) (*SessionBackend, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if key == "" {
		return nil, fmt.Errorf("session key required")
	}
	return &SessionBackend{store: store, key: key, ttl: ttl}, nil
}

func (s *SessionBackend) load(ctx context.Context) (state, error) {
	var st state
	raw, err := s.store.Get(ctx, s.key)
	if redis.IsNil(err) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("read cart session %s: %w", s.key, err)
	}
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return st, fmt.Errorf("decode cart session %s: %w", s.key, err)
	}
	if err := s.store.Touch(ctx, s.key, s.ttl); err != nil {
		return st, fmt.Errorf("refresh cart session %s: %w", s.key, err)
	}
	return st, nil
}

// save writes st back, or deletes the key once nothing is left in it.
func (s *SessionBackend) save(ctx context.Context, st state) error {
	if st.blank() {
		if err := s.store.Del(ctx, s.key); err != nil {
			return fmt.Errorf("delete cart session %s: %w", s.key, err)
		}
		return nil
	}
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode cart session %s: %w", s.key, err)
	}
	if err := s.store.Set(ctx, s.key, string(payload), s.ttl); err != nil {
		return fmt.Errorf("write cart session %s: %w", s.key, err)
	}
	return nil
}

func (s *SessionBackend) mutate(ctx context.Context, fn func(st *state)) error {
	st, err := s.load(ctx)
	if err != nil {
		return err
	}
	fn(&st)
	return s.save(ctx, st)
}

func (s *SessionBackend) Items(ctx context.Context) ([]Item, error) {
	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return st.items(), nil
}

func (s *SessionBackend) Item(ctx context.Context, documentID uuid.UUID) (Item, bool, error) {
	st, err := s.load(ctx)
	if err != nil {
		return Item{}, false, err
	}
	if i := st.index(documentID); i >= 0 {
		return st.Items[i], true, nil
	}
	return Item{}, false, nil
}

func (s *SessionBackend) AddItem(ctx context.Context, item Item) error {
	if err := checkStorable(item); err != nil {
		return err
	}
	return s.mutate(ctx, func(st *state) { st.put(item) })
}

func (s *SessionBackend) RemoveItem(ctx context.Context, item Item) error {
	return s.RemoveItemByID(ctx, item.DocumentID)
}

func (s *SessionBackend) RemoveItemByID(ctx context.Context, documentID uuid.UUID) error {
	st, err := s.load(ctx)
	if err != nil {
		return err
	}
	if !st.drop(documentID) {
		return nil
	}
	return s.save(ctx, st)
}

func (s *SessionBackend) EmptyCart(ctx context.Context) error {
	return s.mutate(ctx, func(st *state) { st.Items = nil })
}

func (s *SessionBackend) SetBackURL(ctx context.Context, url string) error {
	return s.mutate(ctx, func(st *state) { st.BackURL = url })
}

func (s *SessionBackend) BackURL(ctx context.Context) (string, error) {
	st, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	return st.BackURL, nil
}

func (s *SessionBackend) SetReceiverInfo(ctx context.Context, info map[string]string) error {
	return s.mutate(ctx, func(st *state) { st.ReceiverInfo = copyInfo(info) })
}

func (s *SessionBackend) ReceiverInfo(ctx context.Context) (map[string]string, error) {
	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return st.ReceiverInfo, nil
}
