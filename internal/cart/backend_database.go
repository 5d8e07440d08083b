package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/doccart/internal/repo"
	"github.com/angelmondragon/doccart/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DatabaseBackend stores one cart session as rows in cart_sessions and cart_entries.
type DatabaseBackend struct {
	repo.Base
	sessionID string
}

func NewDatabaseBackend(db *gorm.DB, sessionID string) (*DatabaseBackend, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	if sessionID == "" {
		return nil, fmt.Errorf("session id required")
	}
	return &DatabaseBackend{Base: repo.NewBase(db), sessionID: sessionID}, nil
}

func (d *DatabaseBackend) entries(ctx context.Context) *gorm.DB {
	return d.DB(ctx).Model(&models.CartEntry{}).Where("session_id = ?", d.sessionID)
}

func (d *DatabaseBackend) Items(ctx context.Context) ([]Item, error) {
	var rows []models.CartEntry
	if err := d.entries(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list cart entries: %w", err)
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, Item{DocumentID: row.DocumentID, Quantity: row.Quantity})
	}
	return items, nil
}

func (d *DatabaseBackend) Item(ctx context.Context, documentID uuid.UUID) (Item, bool, error) {
	var row models.CartEntry
	err := d.entries(ctx).Where("document_id = ?", documentID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Item{}, false, nil
	}
	if err != nil {
		return Item{}, false, fmt.Errorf("load cart entry: %w", err)
	}
	return Item{DocumentID: row.DocumentID, Quantity: row.Quantity}, true, nil
}

// AddItem upserts the entry. A replaced entry keeps its position.
func (d *DatabaseBackend) AddItem(ctx context.Context, item Item) error {
	if err := checkStorable(item); err != nil {
		return err
	}
	return d.Transaction(ctx, func(tx *gorm.DB) error {
		var next int64
		if err := tx.Model(&models.CartEntry{}).
			Where("session_id = ?", d.sessionID).
			Select("COALESCE(MAX(position), 0) + 1").
			Scan(&next).Error; err != nil {
			return fmt.Errorf("next cart position: %w", err)
		}
		row := models.CartEntry{
			SessionID:  d.sessionID,
			DocumentID: item.DocumentID,
			Quantity:   item.Quantity,
			Position:   next,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "document_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("upsert cart entry: %w", err)
		}
		return nil
	})
}

func (d *DatabaseBackend) RemoveItem(ctx context.Context, item Item) error {
	return d.RemoveItemByID(ctx, item.DocumentID)
}

func (d *DatabaseBackend) RemoveItemByID(ctx context.Context, documentID uuid.UUID) error {
	err := d.DB(ctx).
		Where("session_id = ? AND document_id = ?", d.sessionID, documentID).
		Delete(&models.CartEntry{}).Error
	if err != nil {
		return fmt.Errorf("delete cart entry: %w", err)
	}
	return nil
}

func (d *DatabaseBackend) EmptyCart(ctx context.Context) error {
	if err := d.DB(ctx).Where("session_id = ?", d.sessionID).Delete(&models.CartEntry{}).Error; err != nil {
		return fmt.Errorf("empty cart entries: %w", err)
	}
	return nil
}

func (d *DatabaseBackend) session(ctx context.Context) (models.CartSession, error) {
	var row models.CartSession
	err := d.DB(ctx).Where("session_id = ?", d.sessionID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CartSession{SessionID: d.sessionID}, nil
	}
	if err != nil {
		return row, fmt.Errorf("load cart session: %w", err)
	}
	return row, nil
}

func (d *DatabaseBackend) upsertSession(ctx context.Context, row models.CartSession, column string) error {
	row.SessionID = d.sessionID
	err := d.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert cart session: %w", err)
	}
	return nil
}

func (d *DatabaseBackend) SetBackURL(ctx context.Context, url string) error {
	return d.upsertSession(ctx, models.CartSession{BackURL: url}, "back_url")
}

func (d *DatabaseBackend) BackURL(ctx context.Context) (string, error) {
	row, err := d.session(ctx)
	if err != nil {
		return "", err
	}
	return row.BackURL, nil
}

func (d *DatabaseBackend) SetReceiverInfo(ctx context.Context, info map[string]string) error {
	return d.upsertSession(ctx, models.CartSession{ReceiverInfo: copyInfo(info)}, "receiver_info")
}

func (d *DatabaseBackend) ReceiverInfo(ctx context.Context) (map[string]string, error) {
	row, err := d.session(ctx)
	if err != nil {
		return nil, err
	}
	return row.ReceiverInfo, nil
}
