package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_TargetFor(t *testing.T) {
	c := NewCollection(10)
	c.Add("color", "colour")
	c.Add("size", "shoe_size")

	t.Run("Explicit entry", func(t *testing.T) {
		assert.Equal(t, "colour", c.TargetFor("color"))
	})

	t.Run("Identity fallback for unknown source", func(t *testing.T) {
		assert.Equal(t, "material", c.TargetFor("material"))
	})

	t.Run("Identity fallback on empty collection", func(t *testing.T) {
		empty := NewCollection(0)
		assert.Equal(t, "anything", empty.TargetFor("anything"))
	})
}

func TestCollection_SourceFor(t *testing.T) {
	c := NewCollection(0)
	c.Add("main_color", "color")
	c.Add("secondary_color", "color")

	t.Run("First entry wins for duplicate targets", func(t *testing.T) {
		assert.Equal(t, "main_color", c.SourceFor("color"))
	})

	t.Run("Identity fallback for unknown target", func(t *testing.T) {
		assert.Equal(t, "weight", c.SourceFor("weight"))
	})
}

func TestCollection_Add(t *testing.T) {
	c := NewCollection(0)
	c.Add("a", "x")
	c.Add("b", "y")
	c.Add("a", "z")

	assert.Equal(t, []string{"a", "b"}, c.AllSources())
	assert.Equal(t, []string{"z", "y"}, c.AllTargets())
	assert.Equal(t, 2, c.Len())
}

func TestCollection_IsValid(t *testing.T) {
	t.Run("Valid collection", func(t *testing.T) {
		c := NewCollection(0)
		c.Add("a", "x")
		assert.True(t, c.IsValid())
	})

	t.Run("Empty target", func(t *testing.T) {
		c := NewCollection(0)
		c.Add("a", "")
		assert.False(t, c.IsValid())
	})

	t.Run("Empty source", func(t *testing.T) {
		c := NewCollection(0)
		c.Add("", "x")
		assert.False(t, c.IsValid())
	})
}

func TestDecode(t *testing.T) {
	t.Run("Object form", func(t *testing.T) {
		c, err := Decode([]byte(`{"color":"colour","size":"shoe_size"}`), 5)
		require.NoError(t, err)
		assert.Equal(t, "colour", c.TargetFor("color"))
		assert.Equal(t, "shoe_size", c.TargetFor("size"))
		assert.Equal(t, 5, c.Priority())
	})

	t.Run("Empty payload", func(t *testing.T) {
		c, err := Decode(nil, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("Legacy scalar decodes to empty mapping", func(t *testing.T) {
		c, err := Decode([]byte(`""`), 0)
		require.NoError(t, err)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("Legacy null decodes to empty mapping", func(t *testing.T) {
		c, err := Decode([]byte(`null`), 0)
		require.NoError(t, err)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("Invalid payload", func(t *testing.T) {
		_, err := Decode([]byte(`{not json`), 0)
		assert.Error(t, err)
	})
}

func TestCollection_SerializeRoundTrip(t *testing.T) {
	c := NewCollection(3)
	c.Add("size", "shoe_size")
	c.Add("color", "colour")

	first, err := c.Serialize()
	require.NoError(t, err)

	decoded, err := Decode(first, 3)
	require.NoError(t, err)
	second, err := decoded.Serialize()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
