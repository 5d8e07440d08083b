package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission is the permanent record written when a cart is committed.
type Submission struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	SessionID    string            `gorm:"column:session_id;not null"`
	ReceiverInfo map[string]string `gorm:"column:receiver_info;type:jsonb;serializer:json"`
	Items        []SubmissionItem  `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (Submission) TableName() string { return "cart_submissions" }

func (s *Submission) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SubmissionItem is an immutable copy of one cart line at commit time.
type SubmissionItem struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SubmissionID uuid.UUID `gorm:"column:submission_id;type:uuid;not null"`
	DocumentID   uuid.UUID `gorm:"column:document_id;type:uuid;not null"`
	Quantity     int       `gorm:"column:quantity;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (SubmissionItem) TableName() string { return "cart_submission_items" }

func (i *SubmissionItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
