package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("package and name", func(t *testing.T) {
		l, err := Parse("tools/speed:fast")
		require.NoError(t, err)
		assert.Equal(t, "tools/speed", l.Pkg)
		assert.Equal(t, "fast", l.Name)
		assert.Equal(t, "tools/speed:fast", l.String())
	})

	t.Run("leading slashes are stripped", func(t *testing.T) {
		l, err := Parse("//tools/speed:fast")
		require.NoError(t, err)
		assert.Equal(t, "tools/speed:fast", l.String())
	})

	t.Run("shorthand without colon", func(t *testing.T) {
		l, err := Parse("tools/speed")
		require.NoError(t, err)
		assert.Equal(t, "tools/speed", l.Pkg)
		assert.Equal(t, "speed", l.Name)
	})

	t.Run("root target", func(t *testing.T) {
		l, err := Parse(":top")
		require.NoError(t, err)
		assert.Equal(t, "", l.Pkg)
		assert.Equal(t, ":top", l.String())
	})

	t.Run("error cases", func(t *testing.T) {
		_, err := Parse("")
		assert.ErrorContains(t, err, "empty label")

		_, err = Parse("pkg:")
		assert.ErrorContains(t, err, "empty target name")

		_, err = Parse("a b:c")
		assert.ErrorContains(t, err, "whitespace")
	})
}

func TestGroupName(t *testing.T) {
	assert.Equal(t, "tools.speed.fast", MustParse("tools/speed:fast").GroupName())
	assert.Equal(t, "top", MustParse(":top").GroupName())
}
