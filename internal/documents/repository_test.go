package documents

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/doccart/internal/repo/repotest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repository, err := NewRepository(repotest.OpenSQLite(t))
	require.NoError(t, err)
	return repository
}

func TestNewRepositoryRequiresDB(t *testing.T) {
	_, err := NewRepository(nil)
	require.Error(t, err)
}

func TestGetByID(t *testing.T) {
	repository := newTestRepository(t)
	ctx := context.Background()

	doc := &Document{Title: "Annual report", AllowedInCart: true, HasQuantityLimit: true, MaximumQuantity: 3}
	require.NoError(t, repository.Create(ctx, doc))
	require.NotEqual(t, uuid.Nil, doc.ID)

	got, ok, err := repository.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Annual report", got.Title)
	assert.True(t, got.IsAllowedInCart())
	assert.True(t, got.QuantityLimited())
	assert.Equal(t, 3, got.MaximumQuantity)

	missing, ok, err := repository.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, missing)

	_, ok, err = repository.GetByID(ctx, uuid.Nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetByIDsSkipsMissing(t *testing.T) {
	repository := newTestRepository(t)
	ctx := context.Background()

	a := &Document{Title: "A", AllowedInCart: true}
	b := &Document{Title: "B", AllowedInCart: true}
	require.NoError(t, repository.Create(ctx, a))
	require.NoError(t, repository.Create(ctx, b))

	got, err := repository.GetByIDs(ctx, []uuid.UUID{a.ID, uuid.New(), b.ID})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "A", got[a.ID].Title)
	assert.Equal(t, "B", got[b.ID].Title)

	empty, err := repository.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestIncrementPrintRequest(t *testing.T) {
	repository := newTestRepository(t)
	ctx := context.Background()

	doc := &Document{Title: "Leaflet", AllowedInCart: true}
	require.NoError(t, repository.Create(ctx, doc))

	require.NoError(t, repository.IncrementPrintRequest(ctx, doc.ID))
	require.NoError(t, repository.IncrementPrintRequest(ctx, doc.ID))

	got, _, err := repository.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.PrintRequestCount)

	err = repository.IncrementPrintRequest(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDocumentAccessorsNilSafe(t *testing.T) {
	var doc *Document
	assert.False(t, doc.IsAllowedInCart())
	assert.False(t, doc.QuantityLimited())
}
