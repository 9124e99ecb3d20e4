package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariation(t *testing.T) {
	v, err := ParseVariation(" XL-150 ")
	require.NoError(t, err)
	assert.Equal(t, "XL", v.Name)
	assert.Equal(t, 150.0, v.PriceDiff)

	v, err = ParseVariation("S--2.5")
	require.NoError(t, err)
	assert.Equal(t, "S", v.Name)
	assert.Equal(t, -2.5, v.PriceDiff)

	_, err = ParseVariation("XL")
	assert.Error(t, err)

	_, err = ParseVariation("XL-много")
	assert.Error(t, err)

	_, err = ParseVariation("-10")
	assert.Error(t, err)
}
