package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/domain/catalog"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/storefront/internal/testutil"
)

func newCatalogService(t *testing.T) catalog.Service {
	t.Helper()
	return catalog.NewService(mysql.NewCatalogRepository(testutil.NewDB(t)))
}

func TestPublishUpdateGet(t *testing.T) {
	ctx := context.Background()
	svc := newCatalogService(t)

	item, err := NewPublishItemUseCase(svc).Execute(ctx, PublishItemRequest{Name: "Espresso Beans", Price: 1899})
	require.NoError(t, err)
	assert.True(t, item.IsActive)

	price := int64(2099)
	inactive := false
	updated, err := NewUpdateItemUseCase(svc).Execute(ctx, item.ID, UpdateItemRequest{Price: &price, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, int64(2099), updated.Price)
	assert.Equal(t, "Espresso Beans", updated.Name)

	get := NewGetItemUseCase(svc)
	_, err = get.Execute(ctx, item.ID, false)
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)

	view, err := get.Execute(ctx, item.ID, true)
	require.NoError(t, err)
	assert.False(t, view.IsActive)
}

func TestPublish_RejectsInvalidPrice(t *testing.T) {
	_, err := NewPublishItemUseCase(newCatalogService(t)).Execute(context.Background(), PublishItemRequest{Name: "Mug", Price: -1})
	assert.ErrorIs(t, err, catalog.ErrInvalidPrice)
}

func TestListItems_PagingAndVisibility(t *testing.T) {
	ctx := context.Background()
	svc := newCatalogService(t)
	publish := NewPublishItemUseCase(svc)

	for i := 0; i < 5; i++ {
		_, err := publish.Execute(ctx, PublishItemRequest{Name: fmt.Sprintf("Tea %d", i), Price: 500})
		require.NoError(t, err)
	}
	hidden, err := publish.Execute(ctx, PublishItemRequest{Name: "Tea hidden", Price: 500})
	require.NoError(t, err)
	off := false
	_, err = NewUpdateItemUseCase(svc).Execute(ctx, hidden.ID, UpdateItemRequest{IsActive: &off})
	require.NoError(t, err)

	list := NewListItemsUseCase(svc)

	resp, err := list.Execute(ctx, ListItemsRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Len(t, resp.List, 2)

	all, err := list.Execute(ctx, ListItemsRequest{PageSize: 500, IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(6), all.Total)
	assert.Equal(t, 100, all.PageSize)
}
