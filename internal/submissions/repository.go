package submissions

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/doccart/internal/repo"
	"github.com/angelmondragon/doccart/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a submission does not exist.
var ErrNotFound = errors.New("submission not found")

// Repository persists submissions and their items.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &Repository{Base: repo.NewBase(db)}, nil
}

// Create inserts the submission and its items in one transaction.
func (r *Repository) Create(ctx context.Context, submission *models.Submission) error {
	if submission == nil {
		return fmt.Errorf("submission required")
	}
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		items := submission.Items
		submission.Items = nil
		if err := tx.Create(submission).Error; err != nil {
			return fmt.Errorf("insert submission: %w", err)
		}
		for i := range items {
			items[i].SubmissionID = submission.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("insert submission items: %w", err)
			}
		}
		submission.Items = items
		return nil
	})
}

// Get loads a submission with its items.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	err := r.DB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		Take(&submission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load submission %s: %w", id, err)
	}
	return &submission, nil
}
