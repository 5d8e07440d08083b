package models

import (
	"time"

	"github.com/google/uuid"
)

// CartSession holds the per-session scalars of a database-backed cart.
type CartSession struct {
	SessionID    string            `gorm:"column:session_id;primaryKey"`
	BackURL      string            `gorm:"column:back_url;not null"`
	ReceiverInfo map[string]string `gorm:"column:receiver_info;type:jsonb;serializer:json"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartSession) TableName() string { return "cart_sessions" }

// CartEntry is one line of a database-backed cart. Position keeps insertion order.
type CartEntry struct {
	SessionID  string    `gorm:"column:session_id;primaryKey"`
	DocumentID uuid.UUID `gorm:"column:document_id;type:uuid;primaryKey"`
	Quantity   int       `gorm:"column:quantity;not null"`
	Position   int64     `gorm:"column:position;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartEntry) TableName() string { return "cart_entries" }
