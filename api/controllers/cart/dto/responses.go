package dto

import (
	"time"

	"github.com/google/uuid"
)

type CartViewItem struct {
	DocumentID      uuid.UUID `json:"document_id"`
	Title           string    `json:"title"`
	Quantity        int       `json:"quantity"`
	AllowedInCart   bool      `json:"allowed_in_cart"`
	MaximumQuantity *int      `json:"maximum_quantity,omitempty"`
}

type CartView struct {
	Items        []CartViewItem    `json:"items"`
	BackURL      string            `json:"back_url,omitempty"`
	ReceiverInfo map[string]string `json:"receiver_info,omitempty"`
	ViewOnly     bool              `json:"view_only"`
	Empty        bool              `json:"empty"`
	Flash        string            `json:"flash,omitempty"`
}

type BulkUpdateResponse struct {
	Result  bool     `json:"result"`
	Errors  []string `json:"errors"`
	Updated int      `json:"updated"`
	Removed int      `json:"removed"`
}

type SubmissionResponse struct {
	SubmissionID uuid.UUID `json:"submission_id"`
}

type SubmissionItem struct {
	DocumentID uuid.UUID `json:"document_id"`
	Quantity   int       `json:"quantity"`
}

type SubmissionDetail struct {
	ID           uuid.UUID         `json:"id"`
	ReceiverInfo map[string]string `json:"receiver_info,omitempty"`
	Items        []SubmissionItem  `json:"items"`
	CreatedAt    time.Time         `json:"created_at"`
}
