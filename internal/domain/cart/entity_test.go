package cart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItem_MergeKeepsFirstSnapshot(t *testing.T) {
	c := NewCart(1)

	require.NoError(t, c.AddItem(10, 2, 100))
	require.NoError(t, c.AddItem(10, 3, 120))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.Equal(t, int64(100), c.Items[0].UnitPrice)
	assert.Equal(t, int64(500), c.TotalAmount)
}

func TestAddItem_AppendsInInsertionOrder(t *testing.T) {
	c := NewCart(1)
	require.NoError(t, c.AddItem(20, 1, 50))
	require.NoError(t, c.AddItem(10, 2, 100))

	assert.Equal(t, uint(20), c.Items[0].ItemRef)
	assert.Equal(t, uint(10), c.Items[1].ItemRef)
	assert.Equal(t, int64(250), c.TotalAmount)
	assert.Equal(t, 3, c.TotalItemCount())
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	c := NewCart(1)

	assert.ErrorIs(t, c.AddItem(10, 0, 100), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddItem(10, -1, 100), ErrInvalidQuantity)
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantity(t *testing.T) {
	c := NewCart(1)
	require.NoError(t, c.AddItem(10, 2, 100))

	require.NoError(t, c.UpdateQuantity(10, 7))
	assert.Equal(t, 7, c.Items[0].Quantity)
	assert.Equal(t, int64(100), c.Items[0].UnitPrice)
	assert.Equal(t, int64(700), c.TotalAmount)
}

func TestUpdateQuantity_InvalidLeavesCartUnchanged(t *testing.T) {
	c := NewCart(1)
	require.NoError(t, c.AddItem(10, 2, 100))

	for _, q := range []int{0, -3} {
		assert.ErrorIs(t, c.UpdateQuantity(10, q), ErrInvalidQuantity)
	}
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, int64(200), c.TotalAmount)
}

func TestUpdateQuantity_MissingLine(t *testing.T) {
	c := NewCart(1)
	assert.ErrorIs(t, c.UpdateQuantity(99, 1), ErrLineNotFound)
}

func TestRemoveItem_Idempotent(t *testing.T) {
	c := NewCart(1)
	require.NoError(t, c.AddItem(10, 2, 100))
	require.NoError(t, c.AddItem(20, 1, 50))

	assert.True(t, c.RemoveItem(10))
	assert.False(t, c.RemoveItem(10))
	assert.False(t, c.RemoveItem(404))

	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(50), c.TotalAmount)
}

func TestClear(t *testing.T) {
	c := NewCart(1)
	require.NoError(t, c.AddItem(10, 2, 100))

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.NotNil(t, c.Items)
	assert.Equal(t, int64(0), c.TotalAmount)
	assert.Equal(t, 0, c.TotalItemCount())
}

func TestTotalInvariantAcrossMutations(t *testing.T) {
	c := NewCart(1)
	steps := []func(){
		func() { _ = c.AddItem(1, 3, 199) },
		func() { _ = c.AddItem(2, 1, 1000) },
		func() { _ = c.AddItem(1, 1, 5) },
		func() { _ = c.UpdateQuantity(2, 4) },
		func() { c.RemoveItem(1) },
		func() { _ = c.AddItem(3, 2, 0) },
	}
	for _, step := range steps {
		step()
		assert.Equal(t, c.CalculateTotal(), c.TotalAmount)
	}
}

func TestEmpty(t *testing.T) {
	c := Empty(42)
	assert.Equal(t, uint(42), c.UserID)
	assert.Equal(t, []Line{}, c.Items)
	assert.Zero(t, c.TotalAmount)
}

func TestAddItem_QuantityCap(t *testing.T) {
	c := NewCart(1)
	assert.ErrorIs(t, c.AddItem(7, math.MaxInt, 100), ErrInvalidQuantity)
	assert.Empty(t, c.Items)

	require.NoError(t, c.AddItem(7, MaxLineQuantity, 100))
	// 合并后超过上限，原行保持不变
	assert.ErrorIs(t, c.AddItem(7, 1, 100), ErrInvalidQuantity)
	assert.Equal(t, MaxLineQuantity, c.Items[0].Quantity)
	assert.Equal(t, int64(MaxLineQuantity*100), c.TotalAmount)

	assert.ErrorIs(t, c.UpdateQuantity(7, MaxLineQuantity+1), ErrInvalidQuantity)
	assert.Equal(t, MaxLineQuantity, c.Items[0].Quantity)
}

func TestAddItem_AmountOverflow(t *testing.T) {
	c := NewCart(1)
	assert.ErrorIs(t, c.AddItem(7, 3, math.MaxInt64/2), ErrAmountOverflow)
	assert.Empty(t, c.Items)

	require.NoError(t, c.AddItem(7, 1, math.MaxInt64/2))
	require.NoError(t, c.AddItem(8, 1, math.MaxInt64/2))
	assert.ErrorIs(t, c.AddItem(9, 2, 1), ErrAmountOverflow)
	assert.ErrorIs(t, c.UpdateQuantity(8, 2), ErrAmountOverflow)
	assert.Len(t, c.Items, 2)
	assert.Equal(t, c.Items[0].UnitPrice+c.Items[1].UnitPrice, c.TotalAmount)
}

func TestAddItem_RejectsNegativePrice(t *testing.T) {
	c := NewCart(1)
	assert.ErrorIs(t, c.AddItem(7, 1, -1), ErrInvalidUnitPrice)
	assert.Empty(t, c.Items)
}
