package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidQuantity is returned by backends asked to store a quantity below
// one or above MaxQuantity.
var ErrInvalidQuantity = errors.New("cart item quantity out of range")

// Backend stores one cart session. Implementations hold no merge logic:
// AddItem replaces, removals of missing IDs are no-ops.
type Backend interface {
	Items(ctx context.Context) ([]Item, error)
	Item(ctx context.Context, documentID uuid.UUID) (Item, bool, error)
	AddItem(ctx context.Context, item Item) error
	RemoveItem(ctx context.Context, item Item) error
	RemoveItemByID(ctx context.Context, documentID uuid.UUID) error
	EmptyCart(ctx context.Context) error
	SetBackURL(ctx context.Context, url string) error
	BackURL(ctx context.Context) (string, error)
	SetReceiverInfo(ctx context.Context, info map[string]string) error
	ReceiverInfo(ctx context.Context) (map[string]string, error)
}

func checkStorable(item Item) error {
	if item.DocumentID == uuid.Nil {
		return fmt.Errorf("cart item document id required")
	}
	if item.Quantity < 1 || item.Quantity > MaxQuantity {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, item.Quantity)
	}
	return nil
}

func copyInfo(info map[string]string) map[string]string {
	if info == nil {
		return nil
	}
	out := make(map[string]string, len(info))
	for k, v := range info {
		out[k] = v
	}
	return out
}

// state is the serializable form shared by the memory and session backends.
type state struct {
	Items        []Item            `json:"items"`
	BackURL      string            `json:"back_url,omitempty"`
	ReceiverInfo map[string]string `json:"receiver_info,omitempty"`
}

func (s *state) blank() bool {
	return len(s.Items) == 0 && s.BackURL == "" && len(s.ReceiverInfo) == 0
}

func (s *state) index(id uuid.UUID) int {
	for i := range s.Items {
		if s.Items[i].DocumentID == id {
			return i
		}
	}
	return -1
}

func (s *state) put(item Item) {
	stored := Item{DocumentID: item.DocumentID, Quantity: item.Quantity}
	if i := s.index(item.DocumentID); i >= 0 {
		s.Items[i] = stored
		return
	}
	s.Items = append(s.Items, stored)
}

func (s *state) drop(id uuid.UUID) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.Items = append(s.Items[:i], s.Items[i+1:]...)
	return true
}

func (s *state) items() []Item {
	out := make([]Item, len(s.Items))
	copy(out, s.Items)
	return out
}
