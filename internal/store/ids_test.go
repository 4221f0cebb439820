package store

import (
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}

	ids := make([]string, 50)
	for i := range ids {
		ids[i] = gen.Generate()
		parsed, err := uuid.Parse(ids[i])
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())
	}

	assert.True(t, sort.StringsAreSorted(ids), "UUIDv7 ids sort by creation time")
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.PanicsWithValue(t, "FixedGenerator: all ids exhausted", func() { gen.Generate() })
}
