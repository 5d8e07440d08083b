package cart

import (
	"context"
	"fmt"

	"github.com/angelmondragon/doccart/pkg/db/models"
	"github.com/google/uuid"
)

type Submission = models.Submission

// SubmissionRecorder turns a cart snapshot into a permanent submission and
// reads it back. Lookup returns nil without an error for unknown IDs.
type SubmissionRecorder interface {
	Record(ctx context.Context, sessionID string, items []Item, receiverInfo map[string]string) (uuid.UUID, error)
	Lookup(ctx context.Context, id uuid.UUID) (*Submission, error)
}

// Cart applies merge and removal rules on top of a Backend. It is built per
// request and holds no state besides the view-only flag.
type Cart struct {
	backend   Backend
	sessionID string
	viewOnly  bool
}

func New(backend Backend) (*Cart, error) {
	if backend == nil {
		return nil, fmt.Errorf("cart backend required")
	}
	return &Cart{backend: backend}, nil
}

// ForSession tags the cart with the session it belongs to. The ID is copied
// onto submissions.
func (c *Cart) ForSession(sessionID string) *Cart {
	c.sessionID = sessionID
	return c
}

func (c *Cart) Items(ctx context.Context) ([]Item, error) {
	return c.backend.Items(ctx)
}

// AddItem stores item, replacing any entry for the same document.
func (c *Cart) AddItem(ctx context.Context, item Item) error {
	return c.backend.AddItem(ctx, item)
}

func (c *Cart) Item(ctx context.Context, documentID uuid.UUID) (Item, bool, error) {
	return c.backend.Item(ctx, documentID)
}

func (c *Cart) IsInCart(ctx context.Context, documentID uuid.UUID) (bool, error) {
	_, ok, err := c.backend.Item(ctx, documentID)
	return ok, err
}

func (c *Cart) RemoveItem(ctx context.Context, item Item) error {
	return c.backend.RemoveItem(ctx, item)
}

func (c *Cart) RemoveItemByID(ctx context.Context, documentID uuid.UUID) error {
	return c.backend.RemoveItemByID(ctx, documentID)
}

func (c *Cart) EmptyCart(ctx context.Context) error {
	return c.backend.EmptyCart(ctx)
}

func (c *Cart) IsCartEmpty(ctx context.Context) (bool, error) {
	items, err := c.backend.Items(ctx)
	if err != nil {
		return false, err
	}
	return len(items) == 0, nil
}

// UpdateItemQuantity adds delta to the stored quantity. A missing item is
// left alone; a result of zero or less removes the item. Sums past
// MaxQuantity saturate.
func (c *Cart) UpdateItemQuantity(ctx context.Context, documentID uuid.UUID, delta int) error {
	item, ok, err := c.backend.Item(ctx, documentID)
	if err != nil || !ok {
		return err
	}
	item.Quantity = addQuantity(item.Quantity, delta)
	if item.Quantity <= 0 {
		return c.backend.RemoveItem(ctx, item)
	}
	return c.backend.AddItem(ctx, item)
}

func addQuantity(current, delta int) int {
	if delta > 0 && current > MaxQuantity-delta {
		return MaxQuantity
	}
	return current + delta
}

func (c *Cart) SetBackURL(ctx context.Context, url string) error {
	return c.backend.SetBackURL(ctx, url)
}

func (c *Cart) BackURL(ctx context.Context) (string, error) {
	return c.backend.BackURL(ctx)
}

func (c *Cart) SetReceiverInfo(ctx context.Context, info map[string]string) error {
	return c.backend.SetReceiverInfo(ctx, info)
}

func (c *Cart) ReceiverInfo(ctx context.Context) (map[string]string, error) {
	return c.backend.ReceiverInfo(ctx)
}

func (c *Cart) SetViewOnly(viewOnly bool) {
	c.viewOnly = viewOnly
}

func (c *Cart) ViewOnly() bool {
	return c.viewOnly
}

// SaveSubmission hands the current items and receiver info to recorder. The
// cart itself is left untouched.
func (c *Cart) SaveSubmission(ctx context.Context, recorder SubmissionRecorder) (uuid.UUID, error) {
	if recorder == nil {
		return uuid.Nil, fmt.Errorf("submission recorder required")
	}
	items, err := c.backend.Items(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	info, err := c.backend.ReceiverInfo(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	return recorder.Record(ctx, c.sessionID, items, info)
}
