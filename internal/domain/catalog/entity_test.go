package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	item, err := NewItem("  Sparkler Box  ", 2500)
	require.NoError(t, err)

	assert.Equal(t, "Sparkler Box", item.Name)
	assert.Equal(t, int64(2500), item.Price)
	assert.True(t, item.IsActive)
}

func TestNewItem_Validation(t *testing.T) {
	_, err := NewItem(" ", 100)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = NewItem("Rocket", -1)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewItem("Rocket", MaxPrice+1)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestChangePrice(t *testing.T) {
	item, err := NewItem("Rocket", 100)
	require.NoError(t, err)

	require.NoError(t, item.ChangePrice(150))
	assert.Equal(t, int64(150), item.Price)

	assert.ErrorIs(t, item.ChangePrice(-5), ErrInvalidPrice)
	assert.Equal(t, int64(150), item.Price)
}

func TestListParams_Normalize(t *testing.T) {
	p := ListParams{}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)

	p = ListParams{Page: 3, PageSize: 500}
	p.Normalize()
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 100, p.PageSize)
}
