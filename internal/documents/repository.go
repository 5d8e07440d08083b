package documents

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/doccart/internal/repo"
	"github.com/angelmondragon/doccart/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is the requestable document record.
type Document = models.Document

// Repository loads documents and maintains their print-request counters.
type Repository struct {
	repo.Base
}

// NewRepository binds a repository to the provided gorm DB.
func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &Repository{Base: repo.NewBase(db)}, nil
}

// GetByID returns the document with id. A missing row yields (nil, false, nil).
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Document, bool, error) {
	if id == uuid.Nil {
		return nil, false, nil
	}
	var doc Document
	err := r.DB(ctx).Where("id = ?", id).Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load document %s: %w", id, err)
	}
	return &doc, true, nil
}

// GetByIDs loads every listed document that exists, keyed by ID.
func (r *Repository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Document, error) {
	out := make(map[uuid.UUID]*Document, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []Document
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

// Create inserts a document.
func (r *Repository) Create(ctx context.Context, doc *Document) error {
	if doc == nil {
		return fmt.Errorf("document required")
	}
	return r.DB(ctx).Create(doc).Error
}

// IncrementPrintRequest bumps the print-request counter of one document.
// A document that no longer exists is reported as gorm.ErrRecordNotFound.
func (r *Repository) IncrementPrintRequest(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).
		Model(&Document{}).
		Where("id = ?", id).
		UpdateColumn("print_request_count", gorm.Expr("print_request_count + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("increment print requests for %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("increment print requests for %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
