package colorutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#a0a0a0")
	require.NoError(t, err)
	assert.Equal(t, Desk, c)

	c, err = ParseHex("00ffff80")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{G: 255, B: 255, A: 128}, c)

	_, err = ParseHex("#abc")
	assert.Error(t, err)
}

func TestHexRoundTripsNamedColours(t *testing.T) {
	for _, c := range []color.RGBA{Black, White, Desk, PageShadow, Cyan} {
		got, err := ParseHex(Hex(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestLerpClamps(t *testing.T) {
	assert.Equal(t, Black, Lerp(Black, White, -1))
	assert.Equal(t, White, Lerp(Black, White, 2))
	assert.Equal(t, color.RGBA{R: 128, G: 128, B: 128, A: 255}, Lerp(Black, White, 0.5))
}
