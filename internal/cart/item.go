package cart

import (
	"math"

	"github.com/angelmondragon/doccart/internal/documents"
	"github.com/google/uuid"
)

// MaxQuantity is the largest quantity a cart line can hold. It matches the
// integer quantity columns.
const MaxQuantity = math.MaxInt32

// Item is one cart line. Backends persist only the document ID and quantity.
type Item struct {
	DocumentID uuid.UUID           `json:"document_id"`
	Quantity   int                 `json:"quantity"`
	Document   *documents.Document `json:"-"`
}

// NewItem builds an item for a loaded document.
func NewItem(doc *documents.Document, quantity int) Item {
	item := Item{Quantity: quantity, Document: doc}
	if doc != nil {
		item.DocumentID = doc.ID
	}
	return item
}

// Is reports whether both items refer to the same document.
func (i Item) Is(other Item) bool {
	return i.DocumentID == other.DocumentID
}

// Title is the document title, empty when the item was not hydrated.
func (i Item) Title() string {
	if i.Document == nil {
		return ""
	}
	return i.Document.Title
}
