package order

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/catalog"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/storefront/internal/testutil"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyOrderPlaced(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type env struct {
	db        *gorm.DB
	orders    order.Repository
	carts     cart.Repository
	users     user.Repository
	catalog   catalog.Service
	tx        *mysql.TxManager
	notifier  *mockNotifier
	buyer     *user.User
	donut     *catalog.Item
	latte     *catalog.Item
	createUC  *CreateOrderUseCase
	listUC    *ListOrdersUseCase
	getUC     *GetOrderUseCase
	statusUC  *UpdateStatusUseCase
	ctx       context.Context
	orderNoRe *regexp.Regexp
}

func newEnv(t *testing.T, opts CreateOptions, policy order.TransitionPolicy) *env {
	t.Helper()
	ctx := context.Background()
	db := testutil.NewDB(t)

	e := &env{
		ctx:       ctx,
		db:        db,
		orders:    mysql.NewOrderRepository(db),
		carts:     mysql.NewCartRepository(db),
		users:     mysql.NewUserRepository(db),
		catalog:   catalog.NewService(mysql.NewCatalogRepository(db)),
		tx:        mysql.NewTxManager(db),
		notifier:  &mockNotifier{},
		orderNoRe: regexp.MustCompile(`^AC-\d{6}-[A-Z0-9]{4}$`),
	}

	e.buyer = user.NewUser("buyer@example.com", "hash", "Bella Buyer", user.RoleCustomer)
	require.NoError(t, e.users.Create(ctx, e.buyer))

	var err error
	e.donut, err = e.catalog.Publish(ctx, "Glazed Donut", 125)
	require.NoError(t, err)
	e.latte, err = e.catalog.Publish(ctx, "Latte", 420)
	require.NoError(t, err)

	e.createUC = NewCreateOrderUseCase(e.orders, e.carts, e.users, e.catalog, e.tx,
		order.NewNumberGenerator("AC"), e.notifier, opts)
	e.listUC = NewListOrdersUseCase(e.orders)
	e.getUC = NewGetOrderUseCase(e.orders)
	e.statusUC = NewUpdateStatusUseCase(e.orders, policy)
	return e
}

func (e *env) addToCart(t *testing.T, userID uint, item *catalog.Item, qty int) {
	t.Helper()
	_, err := e.carts.Mutate(e.ctx, userID, true, func(c *cart.Cart) error {
		return c.AddItem(item.ID, qty, item.Price)
	})
	require.NoError(t, err)
}

func validAddress() order.Address {
	return order.Address{Street: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701"}
}

func (e *env) expectNotify() {
	e.notifier.On("NotifyOrderPlaced", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
}

func TestCreateOrder_TwoFiftyScenario(t *testing.T) {
	e := newEnv(t, CreateOptions{VerifyPrices: true}, order.PolicyStrict)
	e.expectNotify()
	e.addToCart(t, e.buyer.ID, e.donut, 2)

	v, err := e.createUC.Execute(e.ctx, CreateOrderRequest{
		UserID:  e.buyer.ID,
		Lines:   []CreateOrderLine{{ItemRef: e.donut.ID, Quantity: 2, UnitPrice: 1, ItemName: "tampered"}},
		Address: validAddress(),
		Phone:   "555-0100",
	})
	require.NoError(t, err)
	e.createUC.Wait()

	assert.Regexp(t, e.orderNoRe, v.OrderNo)
	assert.Equal(t, int64(250), v.TotalAmount)
	assert.Equal(t, "pending", v.Status)
	require.Len(t, v.Lines, 1)
	assert.Equal(t, "Glazed Donut", v.Lines[0].ItemName)
	assert.Equal(t, int64(125), v.Lines[0].UnitPrice)
	assert.Equal(t, int64(250), v.Lines[0].Subtotal)
	assert.Equal(t, "Bella Buyer", v.Customer.Name)
	assert.Equal(t, "buyer@example.com", v.Customer.Email)
	assert.Equal(t, "555-0100", v.Customer.Phone)

	e.notifier.AssertNumberOfCalls(t, "NotifyOrderPlaced", 1)
	e.notifier.AssertCalled(t, "NotifyOrderPlaced", mock.Anything, mock.MatchedBy(func(o *order.Order) bool {
		return o.OrderNo == v.OrderNo && o.TotalAmount == 250
	}))

	// 下单不清空购物车
	c, err := e.carts.FindByUserID(e.ctx, e.buyer.ID)
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)
}

func TestCreateOrder_ValidationPersistsNothing(t *testing.T) {
	e := newEnv(t, CreateOptions{VerifyPrices: true}, order.PolicyStrict)
	e.addToCart(t, e.buyer.ID, e.donut, 1)
	line := []CreateOrderLine{{ItemRef: e.donut.ID, Quantity: 1}}

	noCity := validAddress()
	noCity.City = " "

	tests := []struct {
		name string
		req  CreateOrderRequest
		want error
	}{
		{"empty lines", CreateOrderRequest{UserID: e.buyer.ID, Address: validAddress(), Phone: "1"}, order.ErrEmptyLines},
		{"zero quantity", CreateOrderRequest{UserID: e.buyer.ID, Lines: []CreateOrderLine{{ItemRef: e.donut.ID}}, Address: validAddress(), Phone: "1"}, order.ErrInvalidQuantity},
		{"incomplete address", CreateOrderRequest{UserID: e.buyer.ID, Lines: line, Address: noCity, Phone: "1"}, order.ErrIncompleteAddress},
		{"missing phone", CreateOrderRequest{UserID: e.buyer.ID, Lines: line, Address: validAddress()}, order.ErrMissingPhone},
		{"item not in cart", CreateOrderRequest{UserID: e.buyer.ID, Lines: []CreateOrderLine{{ItemRef: e.latte.ID, Quantity: 1}}, Address: validAddress(), Phone: "1"}, order.ErrItemNotInCart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.createUC.Execute(e.ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	orders, err := e.listUC.ListForUser(e.ctx, e.buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
	e.notifier.AssertNotCalled(t, "NotifyOrderPlaced", mock.Anything, mock.Anything)
}

func TestCreateOrder_InactiveItemRejected(t *testing.T) {
	e := newEnv(t, CreateOptions{VerifyPrices: true}, order.PolicyStrict)
	e.addToCart(t, e.buyer.ID, e.donut, 1)

	inactive := false
	_, err := e.catalog.Update(e.ctx, e.donut.ID, catalog.Changes{IsActive: &inactive})
	require.NoError(t, err)

	_, err = e.createUC.Execute(e.ctx, CreateOrderRequest{
		UserID:  e.buyer.ID,
		Lines:   []CreateOrderLine{{ItemRef: e.donut.ID, Quantity: 1}},
		Address: validAddress(),
		Phone:   "555-0100",
	})
	assert.ErrorIs(t, err, order.ErrItemUnavailable)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeItemUnavailable))
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(apperrors.ErrCodeItemUnavailable))
}

func TestCreateOrder_TrustedLinesComputeTotalServerSide(t *testing.T) {
	e := newEnv(t, CreateOptions{VerifyPrices: false}, order.PolicyStrict)
	e.expectNotify()

	v, err := e.createUC.Execute(e.ctx, CreateOrderRequest{
		UserID: e.buyer.ID,
		Lines: []CreateOrderLine{
			{ItemRef: 11, ItemName: "Sour Cream Donut", UnitPrice: 199, Quantity: 3},
			{ItemRef: 12, ItemName: "Cold Brew", UnitPrice: 500, Quantity: 1},
		},
		Address: validAddress(),
		Phone:   "555-0100",
	})
	require.NoError(t, err)
	e.createUC.Wait()

	assert.Equal(t, int64(1097), v.TotalAmount)
	assert.Equal(t, "Sour Cream Donut", v.Lines[0].ItemName)
}

func TestCreateOrder_CatalogChangesDoNotAlterStoredOrder(t *testing.T) {
	e := newEnv(t, CreateOptions{VerifyPrices: true}, order.PolicyStrict)
	e.expectNotify()
	e.addToCart(t, e.buyer.ID, e.latte, 1)

	v, err := e.createUC.Execute(e.ctx, CreateOrderRequest{
		UserID:  e.buyer.ID,
		Lines:   []CreateOrderLine{{ItemRef: e.latte.ID, Quantity: 1}},
		Address: validAddress(),
		Phone:   "555-0100",
	})
	require.NoError(t, err)
	e.createUC.Wait()

	price, name := int64(999), "Oat Latte"
	_, err = e.catalog.Update(e.ctx, e.latte.ID, catalog.Changes{Price: &price, Name: &name})
	require.NoError(t, err)

	got, err := e.getUC.Execute(e.ctx, e.buyer.ID, false, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(420), got.Lines[0].UnitPrice)
	assert.Equal(t, "Latte", got.Lines[0].ItemName)
	assert.Equal(t, int64(420), got.TotalAmount)
}

func TestCreateOrder_NotifierFailureIsSwallowed(t *testing.T) {
	e := newEnv(t, CreateOptions{VerifyPrices: true}, order.PolicyStrict)
	e.notifier.On("NotifyOrderPlaced", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	e.addToCart(t, e.buyer.ID, e.donut, 1)

	v, err := e.createUC.Execute(e.ctx, CreateOrderRequest{
		UserID:  e.buyer.ID,
		Lines:   []CreateOrderLine{{ItemRef: e.donut.ID, Quantity: 1}},
		Address: validAddress(),
		Phone:   "555-0100",
	})
	require.NoError(t, err)
	e.createUC.Wait()

	_, err = e.orders.FindByID(e.ctx, v.ID)
	assert.NoError(t, err)
	e.notifier.AssertNumberOfCalls(t, "NotifyOrderPlaced", 1)
}

func TestCreateOrder_RetriesOnOrderNoCollision(t *testing.T) {
	e := newEnv(t, CreateOptions{VerifyPrices: false, MaxAttempts: 3}, order.PolicyStrict)
	e.expectNotify()

	// 用相同种子的生成器先占用第一个号码
	taken := order.NewSeededNumberGenerator("AC", 42).Next()
	existing, err := order.NewOrder(e.buyer.ID, order.Customer{Name: "x", Email: "x@example.com", Phone: "1", Address: validAddress()},
		[]order.LineInput{{ItemRef: 1, ItemName: "Donut", UnitPrice: 100, Quantity: 1}})
	require.NoError(t, err)
	existing.OrderNo = taken
	require.NoError(t, e.orders.Create(e.ctx, existing))

	uc := NewCreateOrderUseCase(e.orders, e.carts, e.users, e.catalog, e.tx,
		order.NewSeededNumberGenerator("AC", 42), e.notifier, CreateOptions{MaxAttempts: 3})

	v, err := uc.Execute(e.ctx, CreateOrderRequest{
		UserID:  e.buyer.ID,
		Lines:   []CreateOrderLine{{ItemRef: 2, ItemName: "Latte", UnitPrice: 420, Quantity: 1}},
		Address: validAddress(),
		Phone:   "555-0100",
	})
	require.NoError(t, err)
	uc.Wait()
	assert.NotEqual(t, taken, v.OrderNo)
	assert.Regexp(t, e.orderNoRe, v.OrderNo)

	// 只允许一次尝试时冲突直接失败
	exhausted := NewCreateOrderUseCase(e.orders, e.carts, e.users, e.catalog, e.tx,
		order.NewSeededNumberGenerator("AC", 42), e.notifier, CreateOptions{MaxAttempts: 1})
	_, err = exhausted.Execute(e.ctx, CreateOrderRequest{
		UserID:  e.buyer.ID,
		Lines:   []CreateOrderLine{{ItemRef: 2, ItemName: "Latte", UnitPrice: 420, Quantity: 1}},
		Address: validAddress(),
		Phone:   "555-0100",
	})
	assert.ErrorIs(t, err, order.ErrOrderNoConflict)
}

func (e *env) placeOrder(t *testing.T, userID uint) *OrderView {
	t.Helper()
	v, err := e.createUC.Execute(e.ctx, CreateOrderRequest{
		UserID:  userID,
		Lines:   []CreateOrderLine{{ItemRef: 1, ItemName: "Donut", UnitPrice: 125, Quantity: 2}},
		Address: validAddress(),
		Phone:   "555-0100",
	})
	require.NoError(t, err)
	e.createUC.Wait()
	return v
}

func TestUpdateStatus_Strict(t *testing.T) {
	e := newEnv(t, CreateOptions{VerifyPrices: false}, order.PolicyStrict)
	e.expectNotify()
	v := e.placeOrder(t, e.buyer.ID)

	_, err := e.statusUC.Execute(e.ctx, v.ID, "shipped")
	assert.ErrorIs(t, err, order.ErrUnknownStatus)

	_, err = e.statusUC.Execute(e.ctx, v.ID, "delivered")
	assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)

	_, err = e.statusUC.Execute(e.ctx, 9999, "confirmed")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	got, err := e.statusUC.Execute(e.ctx, v.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)

	got, err = e.statusUC.Execute(e.ctx, v.ID, "delivered")
	require.NoError(t, err)
	assert.Equal(t, "delivered", got.Status)

	_, err = e.statusUC.Execute(e.ctx, v.ID, "cancelled")
	assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)

	mine, err := e.listUC.ListForUser(e.ctx, e.buyer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "delivered", mine[0].Status)
}

func TestUpdateStatus_Permissive(t *testing.T) {
	e := newEnv(t, CreateOptions{VerifyPrices: false}, order.PolicyPermissive)
	e.expectNotify()
	v := e.placeOrder(t, e.buyer.ID)

	got, err := e.statusUC.Execute(e.ctx, v.ID, "delivered")
	require.NoError(t, err)
	assert.Equal(t, "delivered", got.Status)

	_, err = e.statusUC.Execute(e.ctx, v.ID, "shipped")
	assert.ErrorIs(t, err, order.ErrUnknownStatus)
}

func TestGetOrder_Visibility(t *testing.T) {
	e := newEnv(t, CreateOptions{VerifyPrices: false}, order.PolicyStrict)
	e.expectNotify()
	v := e.placeOrder(t, e.buyer.ID)

	_, err := e.getUC.Execute(e.ctx, e.buyer.ID, false, v.ID)
	assert.NoError(t, err)

	_, err = e.getUC.Execute(e.ctx, e.buyer.ID+1, false, v.ID)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	_, err = e.getUC.Execute(e.ctx, e.buyer.ID+1, true, v.ID)
	assert.NoError(t, err)
}

func TestListOrders_IsolationAndAdminUnion(t *testing.T) {
	e := newEnv(t, CreateOptions{VerifyPrices: false}, order.PolicyStrict)
	e.expectNotify()

	other := user.NewUser("other@example.com", "hash", "Oscar Other", user.RoleCustomer)
	require.NoError(t, e.users.Create(e.ctx, other))

	a1 := e.placeOrder(t, e.buyer.ID)
	b1 := e.placeOrder(t, other.ID)
	a2 := e.placeOrder(t, e.buyer.ID)

	mine, err := e.listUC.ListForUser(e.ctx, e.buyer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, a2.ID, mine[0].ID)
	assert.Equal(t, a1.ID, mine[1].ID)

	theirs, err := e.listUC.ListForUser(e.ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, b1.ID, theirs[0].ID)

	all, err := e.listUC.ListAll(e.ctx, ListAllRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Len(t, all.Orders, 3)
	assert.Equal(t, a2.ID, all.Orders[0].ID)

	_, err = e.statusUC.Execute(e.ctx, b1.ID, "cancelled")
	require.NoError(t, err)
	cancelled, err := e.listUC.ListAll(e.ctx, ListAllRequest{Status: "cancelled"})
	require.NoError(t, err)
	require.Len(t, cancelled.Orders, 1)
	assert.Equal(t, b1.ID, cancelled.Orders[0].ID)

	_, err = e.listUC.ListAll(e.ctx, ListAllRequest{Status: "shipped"})
	assert.ErrorIs(t, err, order.ErrUnknownStatus)
}
