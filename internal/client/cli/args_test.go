package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "abc", "0", "-3", "1.5"} {
		_, err := parseID(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseParent(t *testing.T) {
	for _, root := range []string{"root", "ROOT", "/", "-"} {
		p, err := parseParent(root)
		require.NoError(t, err)
		assert.Nil(t, p)
	}

	p, err := parseParent("5")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, int64(5), *p)

	_, err = parseParent("docs")
	assert.Error(t, err)
}

func TestOptionalParent(t *testing.T) {
	p, err := optionalParent([]string{"name"}, 1)
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = optionalParent([]string{"name", "3"}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), *p)
}
