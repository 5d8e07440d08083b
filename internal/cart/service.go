package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/angelmondragon/doccart/internal/documents"
	pkgerrors "github.com/angelmondragon/doccart/pkg/errors"
	"github.com/angelmondragon/doccart/pkg/logger"
	"github.com/angelmondragon/doccart/pkg/metrics"
	"github.com/google/uuid"
)

const (
	opAdd        = "add"
	opDeduct     = "deduct"
	opRemove     = "remove"
	opBulkUpdate = "bulk_update"
	opView       = "view"
	opReceiver   = "receiver"
	opSubmit     = "submit"
	opSubmission = "submission"
	opEmpty      = "empty"
)

// BackendProvider resolves the backend for a cart session.
type BackendProvider interface {
	ForSession(sessionID string) (Backend, error)
}

// DocumentLookup loads documents by ID. Missing documents report ok=false.
type DocumentLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*documents.Document, bool, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*documents.Document, error)
}

// Service exposes the caller-facing cart use cases. Every call holds the
// session's lock for its whole duration.
type Service interface {
	Add(ctx context.Context, sessionID string, input AddInput) (AddResult, error)
	Deduct(ctx context.Context, sessionID string, documentID uuid.UUID, quantity int) error
	Remove(ctx context.Context, sessionID string, documentID uuid.UUID) (bool, error)
	BulkUpdate(ctx context.Context, sessionID string, quantities map[string]string) (BulkUpdateResult, error)
	View(ctx context.Context, sessionID string) (Snapshot, error)
	SetReceiverInfo(ctx context.Context, sessionID string, info map[string]string) error
	Submit(ctx context.Context, sessionID string) (uuid.UUID, error)
	Submission(ctx context.Context, sessionID string, id uuid.UUID) (*Submission, error)
	Empty(ctx context.Context, sessionID string) error
}

// AddInput is one add-to-cart request.
type AddInput struct {
	DocumentID uuid.UUID
	Quantity   int
	BackURL    string
}

// AddResult reports whether the add went through. Message is the starred
// list of validation failures.
type AddResult struct {
	Result  bool
	Errors  []string
	Message string
}

// BulkUpdateResult summarizes a quantity form submission. The batch is not
// atomic: entries applied before a failure stay applied.
type BulkUpdateResult struct {
	Updated int
	Removed int
	Errors  []string
	BackURL string
}

// Message joins the per-item failures for display.
func (r BulkUpdateResult) Message() string {
	return strings.Join(r.Errors, "\n")
}

// Snapshot is a read-only view of one cart.
type Snapshot struct {
	Items        []Item
	BackURL      string
	ReceiverInfo map[string]string
	ViewOnly     bool
	Empty        bool
}

type service struct {
	backends  BackendProvider
	docs      DocumentLookup
	recorder  SubmissionRecorder
	validator *Validator
	metrics   *metrics.CartMetrics
	logg      *logger.Logger
	locks     *sessionLocks
}

// NewService wires the cart use cases. A nil validator falls back to the
// built-in rules; metrics are optional.
func NewService(backends BackendProvider, docs DocumentLookup, recorder SubmissionRecorder, validator *Validator, cartMetrics *metrics.CartMetrics, logg *logger.Logger) (Service, error) {
	if backends == nil {
		return nil, fmt.Errorf("backend provider required")
	}
	if docs == nil {
		return nil, fmt.Errorf("document lookup required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("submission recorder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if validator == nil {
		validator = NewValidator()
	}
	return &service{
		backends:  backends,
		docs:      docs,
		recorder:  recorder,
		validator: validator,
		metrics:   cartMetrics,
		logg:      logg,
		locks:     newSessionLocks(),
	}, nil
}

// IsRelativeURL reports whether url is a same-origin path. Scheme-relative
// forms ("//host", "/\host") are rejected.
func IsRelativeURL(url string) bool {
	if !strings.HasPrefix(url, "/") {
		return false
	}
	return !strings.HasPrefix(url, "//") && !strings.HasPrefix(url, `/\`)
}

// ParseQuantity reads a numeric form value. Fractions are truncated and
// magnitudes past MaxQuantity are clamped to ±MaxQuantity. The second result
// is false for non-numeric input.
func ParseQuantity(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return clampQuantity(float64(n)), true
	}
	f, err := strconv.ParseFloat(raw, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
		// overflowing literals such as 1e400 come back as ±Inf
	case err != nil, math.IsNaN(f), math.IsInf(f, 0):
		return 0, false
	}
	return clampQuantity(f), true
}

func clampQuantity(f float64) int {
	switch {
	case f > MaxQuantity:
		return MaxQuantity
	case f < -MaxQuantity:
		return -MaxQuantity
	}
	return int(f)
}

func normalizeQuantity(quantity int) int {
	switch {
	case quantity < 1:
		return 1
	case quantity > MaxQuantity:
		return MaxQuantity
	}
	return quantity
}

func (s *service) open(ctx context.Context, sessionID string) (*Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session required")
	}
	backend, err := s.backends.ForSession(sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open cart backend")
	}
	c, err := New(backend)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build cart")
	}
	return c.ForSession(sessionID), nil
}

func (s *service) fail(ctx context.Context, op string, err error, message string) error {
	s.metrics.ObserveOperation(op, metrics.ResultError)
	if pkgerrors.As(err) != nil {
		return err
	}
	wrapped := pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
	s.logg.Error(ctx, "cart."+op+".failed", wrapped)
	return wrapped
}

func (s *service) Add(ctx context.Context, sessionID string, input AddInput) (AddResult, error) {
	defer s.locks.lock(sessionID)()
	ctx = s.logg.WithSessionID(ctx, sessionID)
	ctx = s.logg.WithDocumentID(ctx, input.DocumentID.String())

	c, err := s.open(ctx, sessionID)
	if err != nil {
		return AddResult{}, s.fail(ctx, opAdd, err, "open cart")
	}
	quantity := normalizeQuantity(input.Quantity)

	doc, ok, err := s.docs.GetByID(ctx, input.DocumentID)
	if err != nil {
		return AddResult{}, s.fail(ctx, opAdd, err, "load document")
	}
	if !ok {
		s.logg.Debug(ctx, "cart.add.unknown_document")
		s.metrics.ObserveOperation(opAdd, metrics.ResultOK)
		return AddResult{Result: true}, nil
	}

	validation := s.validator.Validate(quantity, doc)
	if !validation.Valid() {
		s.metrics.IncRejection(opAdd)
		s.metrics.ObserveOperation(opAdd, metrics.ResultRejected)
		return AddResult{Errors: validation.Errors(), Message: validation.StarredList()}, nil
	}

	exists, err := c.IsInCart(ctx, doc.ID)
	if err != nil {
		return AddResult{}, s.fail(ctx, opAdd, err, "read cart item")
	}
	if exists {
		err = c.UpdateItemQuantity(ctx, doc.ID, quantity)
	} else {
		err = c.AddItem(ctx, NewItem(doc, quantity))
	}
	if err != nil {
		return AddResult{}, s.fail(ctx, opAdd, err, "store cart item")
	}

	if IsRelativeURL(input.BackURL) {
		if err := c.SetBackURL(ctx, input.BackURL); err != nil {
			return AddResult{}, s.fail(ctx, opAdd, err, "store back url")
		}
	}

	s.logg.Info(s.logg.WithField(ctx, "quantity", quantity), "cart.item_added")
	s.metrics.ObserveOperation(opAdd, metrics.ResultOK)
	return AddResult{Result: true}, nil
}

// Deduct is never validated. Quantities below one count as one.
func (s *service) Deduct(ctx context.Context, sessionID string, documentID uuid.UUID, quantity int) error {
	defer s.locks.lock(sessionID)()
	ctx = s.logg.WithSessionID(ctx, sessionID)
	ctx = s.logg.WithDocumentID(ctx, documentID.String())

	c, err := s.open(ctx, sessionID)
	if err != nil {
		return s.fail(ctx, opDeduct, err, "open cart")
	}
	if err := c.UpdateItemQuantity(ctx, documentID, -normalizeQuantity(quantity)); err != nil {
		return s.fail(ctx, opDeduct, err, "deduct cart item")
	}
	s.logg.Info(ctx, "cart.item_deducted")
	s.metrics.ObserveOperation(opDeduct, metrics.ResultOK)
	return nil
}

// Remove drops the item and reports whether the cart still holds anything.
func (s *service) Remove(ctx context.Context, sessionID string, documentID uuid.UUID) (bool, error) {
	defer s.locks.lock(sessionID)()
	ctx = s.logg.WithSessionID(ctx, sessionID)
	ctx = s.logg.WithDocumentID(ctx, documentID.String())

	c, err := s.open(ctx, sessionID)
	if err != nil {
		return false, s.fail(ctx, opRemove, err, "open cart")
	}
	if err := c.RemoveItemByID(ctx, documentID); err != nil {
		return false, s.fail(ctx, opRemove, err, "remove cart item")
	}
	empty, err := c.IsCartEmpty(ctx)
	if err != nil {
		return false, s.fail(ctx, opRemove, err, "read cart")
	}
	s.logg.Info(ctx, "cart.item_removed")
	s.metrics.ObserveOperation(opRemove, metrics.ResultOK)
	return !empty, nil
}

func (s *service) BulkUpdate(ctx context.Context, sessionID string, quantities map[string]string) (BulkUpdateResult, error) {
	defer s.locks.lock(sessionID)()
	ctx = s.logg.WithSessionID(ctx, sessionID)

	var result BulkUpdateResult
	c, err := s.open(ctx, sessionID)
	if err != nil {
		return result, s.fail(ctx, opBulkUpdate, err, "open cart")
	}

	keys := make([]string, 0, len(quantities))
	for key := range quantities {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		quantity, ok := ParseQuantity(quantities[key])
		if !ok {
			continue
		}
		documentID, err := uuid.Parse(strings.TrimSpace(key))
		if err != nil {
			continue
		}
		item, ok, err := c.Item(ctx, documentID)
		if err != nil {
			return result, s.fail(ctx, opBulkUpdate, err, "read cart item")
		}
		if !ok || item.Quantity == quantity {
			continue
		}

		if quantity <= 0 {
			if err := c.RemoveItem(ctx, item); err != nil {
				return result, s.fail(ctx, opBulkUpdate, err, "remove cart item")
			}
			result.Removed++
			continue
		}

		doc, found, err := s.docs.GetByID(ctx, documentID)
		if err != nil {
			return result, s.fail(ctx, opBulkUpdate, err, "load document")
		}
		if !found {
			continue
		}
		validation := s.validator.Validate(quantity, doc)
		if !validation.Valid() {
			s.metrics.IncRejection(opBulkUpdate)
			result.Errors = append(result.Errors, validation.StarredList())
			continue
		}

		if err := c.RemoveItem(ctx, item); err != nil {
			return result, s.fail(ctx, opBulkUpdate, err, "remove cart item")
		}
		if err := c.AddItem(ctx, NewItem(doc, quantity)); err != nil {
			return result, s.fail(ctx, opBulkUpdate, err, "store cart item")
		}
		result.Updated++
	}

	backURL, err := c.BackURL(ctx)
	if err != nil {
		return result, s.fail(ctx, opBulkUpdate, err, "read back url")
	}
	result.BackURL = backURL

	ctx = s.logg.WithFields(ctx, map[string]any{
		"updated": result.Updated,
		"removed": result.Removed,
		"errors":  len(result.Errors),
	})
	s.logg.Info(ctx, "cart.bulk_updated")
	if len(result.Errors) > 0 {
		s.metrics.ObserveOperation(opBulkUpdate, metrics.ResultRejected)
	} else {
		s.metrics.ObserveOperation(opBulkUpdate, metrics.ResultOK)
	}
	return result, nil
}

// View returns the cart with documents attached. Items whose document no
// longer exists are returned without one.
func (s *service) View(ctx context.Context, sessionID string) (Snapshot, error) {
	defer s.locks.lock(sessionID)()
	ctx = s.logg.WithSessionID(ctx, sessionID)

	c, err := s.open(ctx, sessionID)
	if err != nil {
		return Snapshot{}, s.fail(ctx, opView, err, "open cart")
	}
	c.SetViewOnly(true)

	items, err := c.Items(ctx)
	if err != nil {
		return Snapshot{}, s.fail(ctx, opView, err, "list cart items")
	}
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.DocumentID
	}
	docs, err := s.docs.GetByIDs(ctx, ids)
	if err != nil {
		return Snapshot{}, s.fail(ctx, opView, err, "load documents")
	}
	for i := range items {
		items[i].Document = docs[items[i].DocumentID]
	}

	backURL, err := c.BackURL(ctx)
	if err != nil {
		return Snapshot{}, s.fail(ctx, opView, err, "read back url")
	}
	info, err := c.ReceiverInfo(ctx)
	if err != nil {
		return Snapshot{}, s.fail(ctx, opView, err, "read receiver info")
	}

	s.metrics.ObserveOperation(opView, metrics.ResultOK)
	return Snapshot{
		Items:        items,
		BackURL:      backURL,
		ReceiverInfo: info,
		ViewOnly:     c.ViewOnly(),
		Empty:        len(items) == 0,
	}, nil
}

func (s *service) SetReceiverInfo(ctx context.Context, sessionID string, info map[string]string) error {
	defer s.locks.lock(sessionID)()
	ctx = s.logg.WithSessionID(ctx, sessionID)

	c, err := s.open(ctx, sessionID)
	if err != nil {
		return s.fail(ctx, opReceiver, err, "open cart")
	}
	if err := c.SetReceiverInfo(ctx, info); err != nil {
		return s.fail(ctx, opReceiver, err, "store receiver info")
	}
	s.logg.Info(ctx, "cart.receiver_updated")
	s.metrics.ObserveOperation(opReceiver, metrics.ResultOK)
	return nil
}

// Submit records the cart as a submission. The cart is not emptied. A
// submission whose rows were written but whose print counters could not all be
// bumped still counts as submitted; the counter failure is logged.
func (s *service) Submit(ctx context.Context, sessionID string) (uuid.UUID, error) {
	defer s.locks.lock(sessionID)()
	ctx = s.logg.WithSessionID(ctx, sessionID)

	c, err := s.open(ctx, sessionID)
	if err != nil {
		s.metrics.IncSubmission(metrics.ResultError)
		return uuid.Nil, s.fail(ctx, opSubmit, err, "open cart")
	}
	id, err := c.SaveSubmission(ctx, s.recorder)
	switch {
	case err != nil && id == uuid.Nil:
		s.metrics.IncSubmission(metrics.ResultError)
		return uuid.Nil, s.fail(ctx, opSubmit, err, "record submission")
	case err != nil:
		ctx = s.logg.WithField(ctx, "submission_id", id.String())
		s.logg.Error(ctx, "cart.submitted.counter_failed", err)
		s.metrics.IncSubmission(metrics.ResultPartial)
	default:
		ctx = s.logg.WithField(ctx, "submission_id", id.String())
		s.metrics.IncSubmission(metrics.ResultOK)
	}

	s.logg.Info(ctx, "cart.submitted")
	s.metrics.ObserveOperation(opSubmit, metrics.ResultOK)
	return id, nil
}

// Submission reads back a submission made by this session. Submissions of
// other sessions are reported as not found.
func (s *service) Submission(ctx context.Context, sessionID string, id uuid.UUID) (*Submission, error) {
	defer s.locks.lock(sessionID)()
	ctx = s.logg.WithFields(s.logg.WithSessionID(ctx, sessionID), map[string]any{"submission_id": id.String()})

	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session required")
	}
	submission, err := s.recorder.Lookup(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, opSubmission, err, "load submission")
	}
	if submission == nil || submission.SessionID != sessionID {
		s.metrics.ObserveOperation(opSubmission, metrics.ResultRejected)
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "submission not found")
	}
	s.metrics.ObserveOperation(opSubmission, metrics.ResultOK)
	return submission, nil
}

func (s *service) Empty(ctx context.Context, sessionID string) error {
	defer s.locks.lock(sessionID)()
	ctx = s.logg.WithSessionID(ctx, sessionID)

	c, err := s.open(ctx, sessionID)
	if err != nil {
		return s.fail(ctx, opEmpty, err, "open cart")
	}
	if err := c.EmptyCart(ctx); err != nil {
		return s.fail(ctx, opEmpty, err, "empty cart")
	}
	s.logg.Info(ctx, "cart.emptied")
	s.metrics.ObserveOperation(opEmpty, metrics.ResultOK)
	return nil
}
