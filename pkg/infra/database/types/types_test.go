package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_Value(t *testing.T) {
	t.Run("empty list stored as NULL", func(t *testing.T) {
		var l StringList
		v, err := l.Value()
		require.NoError(t, err)
		assert.Nil(t, v)

		v, err = StringList{}.Value()
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("elements quoted", func(t *testing.T) {
		v, err := StringList{"en", "hi-Latn"}.Value()
		require.NoError(t, err)
		assert.Equal(t, `{"en","hi-Latn"}`, v)
	})
}

func TestStringList_Scan(t *testing.T) {
	t.Run("null column", func(t *testing.T) {
		l := StringList{"stale"}
		require.NoError(t, l.Scan(nil))
		assert.Nil(t, []string(l))
	})

	t.Run("quoted and bare elements", func(t *testing.T) {
		var l StringList
		require.NoError(t, l.Scan([]byte(`{en,"hi-Latn"}`)))
		assert.Equal(t, StringList{"en", "hi-Latn"}, l)
	})

	t.Run("malformed literal", func(t *testing.T) {
		var l StringList
		err := l.Scan([]byte(`not-an-array`))
		assert.ErrorContains(t, err, "failed to scan string list")
	})
}
