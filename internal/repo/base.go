package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is embedded by the gorm repositories. It carries the connection and
// binds request contexts onto it.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx. A nil ctx returns the raw connection.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Transaction runs fn inside a transaction on the bound connection.
func (b Base) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return b.DB(ctx).Transaction(fn)
}

// Ready reports whether a connection was supplied.
func (b Base) Ready() bool {
	return b.db != nil
}
