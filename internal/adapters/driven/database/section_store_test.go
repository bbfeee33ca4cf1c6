package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-docs/internal/core/domain"
)

func TestSectionStore_SaveFindDelete(t *testing.T) {
	db := newTestDB(t)
	docs := NewDocumentStore(db)
	store := NewSectionStore(db)
	ctx := context.Background()

	require.NoError(t, docs.Save(ctx, testDocument("doc-1", "ragnar", "Ragnar", baseTime)))

	// saved out of order on purpose
	for _, idx := range []int{2, 0, 1} {
		require.NoError(t, store.Save(ctx, &domain.Section{
			ID:         fmt.Sprintf("sec-%d", idx),
			DocumentID: "doc-1",
			OrderIndex: idx,
			Heading:    fmt.Sprintf("Heading %d", idx),
			ContentMD:  "*body*",
			CreatedAt:  baseTime,
			UpdatedAt:  baseTime,
		}))
	}

	sections, err := store.FindAllOrdered(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, sections, 3)
	for i, s := range sections {
		assert.Equal(t, i, s.OrderIndex)
		assert.Equal(t, fmt.Sprintf("Heading %d", i), s.Heading)
	}

	require.NoError(t, store.DeleteAll(ctx, sections[:2]))
	remaining, err := store.FindAllOrdered(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "sec-2", remaining[0].ID)

	require.NoError(t, store.DeleteAll(ctx, nil))

	empty, err := store.FindAllOrdered(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
