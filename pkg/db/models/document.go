package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is a requestable document. Cart eligibility and quantity caps live here.
type Document struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Title             string    `gorm:"column:title;not null"`
	AllowedInCart     bool      `gorm:"column:allowed_in_cart;not null"`
	HasQuantityLimit  bool      `gorm:"column:has_quantity_limit;not null"`
	MaximumQuantity   int       `gorm:"column:maximum_quantity;not null"`
	PrintRequestCount int       `gorm:"column:print_request_count;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Document) TableName() string { return "documents" }

func (d *Document) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// IsAllowedInCart reports whether the document may be requested at all.
func (d *Document) IsAllowedInCart() bool {
	return d != nil && d.AllowedInCart
}

// QuantityLimited reports whether a per-request cap applies.
func (d *Document) QuantityLimited() bool {
	return d != nil && d.HasQuantityLimit
}
