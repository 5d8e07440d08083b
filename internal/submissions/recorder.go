package submissions

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/doccart/internal/cart"
	"github.com/angelmondragon/doccart/pkg/db/models"
	"github.com/angelmondragon/doccart/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// PrintCounter bumps a document's print-request counter.
type PrintCounter interface {
	IncrementPrintRequest(ctx context.Context, documentID uuid.UUID) error
}

type store interface {
	Create(ctx context.Context, submission *models.Submission) error
	Get(ctx context.Context, id uuid.UUID) (*models.Submission, error)
}

// Recorder commits carts in two passes: the snapshot rows in one
// transaction, then one counter bump per referenced document.
type Recorder struct {
	store   store
	counter PrintCounter
	logg    *logger.Logger
}

var _ cart.SubmissionRecorder = (*Recorder)(nil)

func NewRecorder(store *Repository, counter PrintCounter, logg *logger.Logger) (*Recorder, error) {
	if store == nil {
		return nil, fmt.Errorf("submission repository required")
	}
	if counter == nil {
		return nil, fmt.Errorf("print counter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Recorder{store: store, counter: counter, logg: logg}, nil
}

// Record writes the submission and returns its ID. Counter failures do not
// undo the snapshot: they are combined and returned next to the valid ID.
func (r *Recorder) Record(ctx context.Context, sessionID string, items []cart.Item, receiverInfo map[string]string) (uuid.UUID, error) {
	submission := &models.Submission{
		ID:           uuid.New(),
		SessionID:    sessionID,
		ReceiverInfo: receiverInfo,
		Items:        make([]models.SubmissionItem, 0, len(items)),
	}
	for _, item := range items {
		submission.Items = append(submission.Items, models.SubmissionItem{
			DocumentID: item.DocumentID,
			Quantity:   item.Quantity,
		})
	}
	if err := r.store.Create(ctx, submission); err != nil {
		return uuid.Nil, err
	}

	ctx = r.logg.WithField(ctx, "submission_id", submission.ID.String())
	var errs error
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.DocumentID]; ok {
			continue
		}
		seen[item.DocumentID] = struct{}{}
		if err := r.counter.IncrementPrintRequest(ctx, item.DocumentID); err != nil {
			r.logg.Warn(r.logg.WithDocumentID(ctx, item.DocumentID.String()), "submission.print_counter_failed")
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return submission.ID, fmt.Errorf("update print counters: %w", errs)
	}

	r.logg.Info(r.logg.WithField(ctx, "items", len(items)), "submission.recorded")
	return submission.ID, nil
}

// Lookup loads a recorded submission with its items, or nil if none exists.
func (r *Recorder) Lookup(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	submission, err := r.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return submission, err
}
