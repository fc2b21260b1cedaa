package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/catalog"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/storefront/internal/testutil"
)

type fixture struct {
	svc     *Service
	catalog catalog.Service
	mr      *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	client, mr := testutil.NewRedis(t)

	catalogSvc := catalog.NewService(mysql.NewCatalogRepository(db))
	svc := NewService(
		mysql.NewCartRepository(db),
		redis.NewCartCache(client, time.Minute),
		catalogSvc,
	)
	return &fixture{svc: svc, catalog: catalogSvc, mr: mr}
}

func (f *fixture) publish(t *testing.T, name string, price int64) *catalog.Item {
	t.Helper()
	item, err := f.catalog.Publish(context.Background(), name, price)
	require.NoError(t, err)
	return item
}

func TestGetCart_EmptyShape(t *testing.T) {
	f := newFixture(t)

	v, err := f.svc.GetCart(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v.UserID)
	assert.NotNil(t, v.Items)
	assert.Empty(t, v.Items)
	assert.Zero(t, v.TotalAmount)
	assert.Zero(t, v.TotalItemCount)
}

func TestAddItem_MergeKeepsSnapshotAfterPriceChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	donut := f.publish(t, "Glazed Donut", 150)

	_, err := f.svc.AddItem(ctx, 1, donut.ID, 2)
	require.NoError(t, err)

	newPrice := int64(999)
	_, err = f.catalog.Update(ctx, donut.ID, catalog.Changes{Price: &newPrice})
	require.NoError(t, err)

	v, err := f.svc.AddItem(ctx, 1, donut.ID, 3)
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, 5, v.Items[0].Quantity)
	assert.Equal(t, int64(150), v.Items[0].UnitPrice)
	assert.Equal(t, int64(750), v.TotalAmount)
	assert.Equal(t, 5, v.TotalItemCount)
}

func TestAddItem_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	donut := f.publish(t, "Glazed Donut", 150)

	_, err := f.svc.AddItem(ctx, 1, donut.ID, 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	_, err = f.svc.AddItem(ctx, 1, 9999, 1)
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)

	inactive := false
	_, err = f.catalog.Update(ctx, donut.ID, catalog.Changes{IsActive: &inactive})
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, 1, donut.ID, 1)
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)

	v, err := f.svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, v.Items)
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	donut := f.publish(t, "Glazed Donut", 150)

	_, err := f.svc.UpdateQuantity(ctx, 1, donut.ID, 2)
	assert.ErrorIs(t, err, cart.ErrCartNotFound)

	_, err = f.svc.AddItem(ctx, 1, donut.ID, 2)
	require.NoError(t, err)

	_, err = f.svc.UpdateQuantity(ctx, 1, donut.ID, 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	_, err = f.svc.UpdateQuantity(ctx, 1, 9999, 1)
	assert.ErrorIs(t, err, cart.ErrLineNotFound)

	v, err := f.svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Items[0].Quantity)

	v, err = f.svc.UpdateQuantity(ctx, 1, donut.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, v.Items[0].Quantity)
	assert.Equal(t, int64(1050), v.TotalAmount)
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	donut := f.publish(t, "Glazed Donut", 150)
	latte := f.publish(t, "Latte", 420)

	v, err := f.svc.RemoveItem(ctx, 1, donut.ID)
	require.NoError(t, err)
	assert.Empty(t, v.Items)

	_, err = f.svc.AddItem(ctx, 1, donut.ID, 1)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, 1, latte.ID, 2)
	require.NoError(t, err)

	v, err = f.svc.RemoveItem(ctx, 1, donut.ID)
	require.NoError(t, err)
	assert.Len(t, v.Items, 1)
	assert.Equal(t, int64(840), v.TotalAmount)

	v, err = f.svc.RemoveItem(ctx, 1, donut.ID)
	require.NoError(t, err)
	assert.Len(t, v.Items, 1)

	v, err = f.svc.ClearCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, v.Items)
	assert.NotZero(t, v.ID)
	assert.Zero(t, v.TotalAmount)
}

func TestCacheIsPopulatedAndInvalidated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	donut := f.publish(t, "Glazed Donut", 150)

	_, err := f.svc.AddItem(ctx, 1, donut.ID, 1)
	require.NoError(t, err)
	assert.False(t, f.mr.Exists("cart:1"))

	_, err = f.svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.True(t, f.mr.Exists("cart:1"))

	_, err = f.svc.AddItem(ctx, 1, donut.ID, 1)
	require.NoError(t, err)
	assert.False(t, f.mr.Exists("cart:1"))

	v, err := f.svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Items[0].Quantity)
}

func TestGetCart_FallsBackWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	donut := f.publish(t, "Glazed Donut", 150)
	_, err := f.svc.AddItem(ctx, 1, donut.ID, 3)
	require.NoError(t, err)

	f.mr.Close()

	v, err := f.svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, v.TotalItemCount)
}

func TestService_WithoutCache(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	catalogSvc := catalog.NewService(mysql.NewCatalogRepository(db))
	svc := NewService(mysql.NewCartRepository(db), nil, catalogSvc)

	item, err := catalogSvc.Publish(ctx, "Scone", 300)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, 5, item.ID, 2)
	require.NoError(t, err)
	v, err := svc.GetCart(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(600), v.TotalAmount)
}

// hookedRepo 在FindByUserID读完数据库之后执行一次afterFind
type hookedRepo struct {
	cart.Repository
	afterFind func()
}

func (r *hookedRepo) FindByUserID(ctx context.Context, userID uint) (*cart.Cart, error) {
	c, err := r.Repository.FindByUserID(ctx, userID)
	if hook := r.afterFind; hook != nil {
		r.afterFind = nil
		hook()
	}
	return c, err
}

func TestGetCart_MutationDuringLoadIsNotOverwrittenByStaleRead(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	client, _ := testutil.NewRedis(t)
	catalogSvc := catalog.NewService(mysql.NewCatalogRepository(db))
	repo := &hookedRepo{Repository: mysql.NewCartRepository(db)}
	svc := NewService(repo, redis.NewCartCache(client, time.Minute), catalogSvc)

	item, err := catalogSvc.Publish(ctx, "Glazed Donut", 100)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 1, item.ID, 1)
	require.NoError(t, err)

	// 回源读到quantity=1之后、回填缓存之前，另一个请求提交了+4
	repo.afterFind = func() {
		_, err := svc.AddItem(ctx, 1, item.ID, 4)
		require.NoError(t, err)
	}
	v, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Items[0].Quantity)

	v, err = svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, v.Items[0].Quantity)
	assert.Equal(t, int64(500), v.TotalAmount)

	// 下一次回源没有并发变更，正常回填
	v, err = svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, v.Items[0].Quantity)
}

func TestGetCart_SharedLoadIgnoresCallerCancellation(t *testing.T) {
	f := newFixture(t)
	donut := f.publish(t, "Glazed Donut", 150)
	_, err := f.svc.AddItem(context.Background(), 1, donut.ID, 2)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := f.svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, v.TotalItemCount)
}
