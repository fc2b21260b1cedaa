package order

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCustomer() Customer {
	return Customer{
		Name:  "张三",
		Email: "zhangsan@example.com",
		Phone: "13800000000",
		Address: Address{
			Street:     "人民路1号",
			City:       "上海",
			State:      "上海",
			PostalCode: "200000",
		},
	}
}

func TestNewOrder_ComputesSubtotalsAndTotal(t *testing.T) {
	o, err := NewOrder(7, validCustomer(), []LineInput{
		{ItemRef: 1, ItemName: "Sour Cream Donut", UnitPrice: 199, Quantity: 2},
		{ItemRef: 2, ItemName: "Matcha Latte", UnitPrice: 450, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, uint(7), o.UserID)
	require.Len(t, o.Lines, 2)
	assert.Equal(t, int64(398), o.Lines[0].Subtotal)
	assert.Equal(t, int64(450), o.Lines[1].Subtotal)
	assert.Equal(t, int64(848), o.TotalAmount)
	assert.Equal(t, o.CalculateTotal(), o.TotalAmount)
	assert.Equal(t, 3, o.ItemCount())
	assert.True(t, o.IsOwnedBy(7))
	assert.False(t, o.IsOwnedBy(8))
}

func TestNewOrder_Validation(t *testing.T) {
	line := LineInput{ItemRef: 1, ItemName: "Donut", UnitPrice: 100, Quantity: 1}

	noStreet := validCustomer()
	noStreet.Address.Street = "  "
	noPostal := validCustomer()
	noPostal.Address.PostalCode = ""
	noPhone := validCustomer()
	noPhone.Phone = ""

	tests := []struct {
		name     string
		customer Customer
		lines    []LineInput
		want     error
	}{
		{"空明细", validCustomer(), nil, ErrEmptyLines},
		{"街道为空", noStreet, []LineInput{line}, ErrIncompleteAddress},
		{"邮编为空", noPostal, []LineInput{line}, ErrIncompleteAddress},
		{"电话为空", noPhone, []LineInput{line}, ErrMissingPhone},
		{"数量为0", validCustomer(), []LineInput{{ItemRef: 1, ItemName: "Donut", UnitPrice: 100, Quantity: 0}}, ErrInvalidQuantity},
		{"单价为负", validCustomer(), []LineInput{{ItemRef: 1, ItemName: "Donut", UnitPrice: -1, Quantity: 1}}, ErrInvalidUnitPrice},
		{"名称为空", validCustomer(), []LineInput{{ItemRef: 1, UnitPrice: 100, Quantity: 1}}, ErrInvalidItemName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := NewOrder(1, tt.customer, tt.lines)
			assert.Nil(t, o)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStatus_StrictGraph(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusConfirmed, StatusDelivered, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			o := &Order{Status: tt.from}
			err := o.TransitionTo(tt.to, PolicyStrict)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.to, o.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidStatusTransition)
				assert.Equal(t, tt.from, o.Status)
			}
		})
	}
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
}

func TestTransitionTo_Permissive(t *testing.T) {
	o := &Order{Status: StatusPending}
	require.NoError(t, o.TransitionTo(StatusDelivered, PolicyPermissive))
	assert.Equal(t, StatusDelivered, o.Status)

	assert.ErrorIs(t, o.TransitionTo(Status("shipped"), PolicyPermissive), ErrUnknownStatus)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Confirmed ")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseStatus("shipped")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestNumberGenerator(t *testing.T) {
	g := NewNumberGenerator("ac")
	g.now = func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		no := g.Next()
		assert.True(t, IsValidOrderNo(no), no)
		assert.Equal(t, "AC-240309-", no[:10])
		seen[no] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)

	assert.False(t, IsValidOrderNo("AC-2403-XXXX"))
	assert.False(t, IsValidOrderNo("ac-240309-ab12"))
}

func TestSeededNumberGenerator_IsReproducible(t *testing.T) {
	a := NewSeededNumberGenerator("AC", 7)
	b := NewSeededNumberGenerator("AC", 7)
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestNewOrder_RejectsOverflow(t *testing.T) {
	_, err := NewOrder(7, validCustomer(), []LineInput{
		{ItemRef: 1, ItemName: "A", UnitPrice: 100, Quantity: MaxLineQuantity + 1},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrder(7, validCustomer(), []LineInput{
		{ItemRef: 1, ItemName: "A", UnitPrice: math.MaxInt64, Quantity: 2},
	})
	assert.ErrorIs(t, err, ErrAmountOverflow)

	// 单行不溢出，合计溢出
	_, err = NewOrder(7, validCustomer(), []LineInput{
		{ItemRef: 1, ItemName: "A", UnitPrice: math.MaxInt64 - 10, Quantity: 1},
		{ItemRef: 2, ItemName: "B", UnitPrice: 20, Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrAmountOverflow)
}
