package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogLookup(t *testing.T) {
	c := NewDefaultCatalog()

	r, ok := c.Get("room-kacb-1")
	require.True(t, ok)
	assert.Equal(t, "Klaus Advanced Computing", r.Building)

	_, ok = c.Get("room-unknown")
	assert.False(t, ok)
}

func TestWithCapacityFilters(t *testing.T) {
	c := NewDefaultCatalog()

	for _, r := range c.WithCapacity(5) {
		assert.GreaterOrEqual(t, r.Capacity, 5)
	}
	// Everything fits a single person.
	assert.Len(t, c.WithCapacity(1), len(c.All()))
	// Nothing on campus holds a hundred people.
	assert.Empty(t, c.WithCapacity(100))
}
