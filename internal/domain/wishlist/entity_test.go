package wishlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist_AddIsUnique(t *testing.T) {
	w := Empty(1)

	require.NoError(t, w.Add(10))
	assert.ErrorIs(t, w.Add(10), ErrDuplicateEntry)
	require.NoError(t, w.Add(20))

	assert.Len(t, w.Entries, 2)
	assert.True(t, w.Contains(10))
}

func TestWishlist_RemoveIdempotent(t *testing.T) {
	w := Empty(1)
	require.NoError(t, w.Add(10))

	assert.True(t, w.Remove(10))
	assert.False(t, w.Remove(10))
	assert.Empty(t, w.Entries)
}
