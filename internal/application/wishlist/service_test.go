package wishlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/domain/catalog"
	"github.com/xiebiao/storefront/internal/domain/wishlist"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/storefront/internal/testutil"
)

func TestWishlistService(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	catalogSvc := catalog.NewService(mysql.NewCatalogRepository(db))
	svc := NewService(mysql.NewWishlistRepository(db), catalogSvc)

	item, err := catalogSvc.Publish(ctx, "French Press", 3500)
	require.NoError(t, err)

	empty, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, empty.Entries)
	assert.Empty(t, empty.Entries)

	v, err := svc.Add(ctx, 1, item.ID)
	require.NoError(t, err)
	require.Len(t, v.Entries, 1)
	assert.Equal(t, item.ID, v.Entries[0].ItemRef)

	_, err = svc.Add(ctx, 1, item.ID)
	assert.ErrorIs(t, err, wishlist.ErrDuplicateEntry)

	_, err = svc.Add(ctx, 1, 9999)
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)

	other, err := svc.Get(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other.Entries)

	v, err = svc.Remove(ctx, 1, item.ID)
	require.NoError(t, err)
	assert.Empty(t, v.Entries)

	_, err = svc.Remove(ctx, 1, item.ID)
	assert.NoError(t, err)
}
