package lheplot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntArrayFlags(t *testing.T) {
	f := IntArrayFlags{Array: []int{11, -11}}

	// The first Set discards the default.
	require.NoError(t, f.Set("6"))
	require.NoError(t, f.Set("-6"))
	assert.Equal(t, []int{6, -6}, f.Array)

	assert.Error(t, f.Set("top"))
	assert.Equal(t, "[6 -6]", f.String())
}
