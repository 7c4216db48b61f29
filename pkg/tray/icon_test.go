package tray

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIcon(t *testing.T) {
	actual, err := Icon(ColorActive)
	require.NoError(t, err)

	require.Greater(t, len(actual), 22)
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(actual[0:]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(actual[2:]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(actual[4:]))
	assert.Equal(t, byte(32), actual[6])
	assert.Equal(t, byte(32), actual[7])
	assert.Equal(t, uint16(32), binary.LittleEndian.Uint16(actual[12:]))
	assert.Equal(t, uint32(len(actual)-22), binary.LittleEndian.Uint32(actual[14:]))
	assert.Equal(t, uint32(22), binary.LittleEndian.Uint32(actual[18:]))

	img, err := png.Decode(bytes.NewReader(actual[22:]))
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())

	r, g, b, a := img.At(16, 4).RGBA()
	assert.Equal(t, []uint32{0xd3, 0x2f, 0x2f, 0xff}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
	_, _, _, a = img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), a)
	r, g, b, _ = img.At(16, 15).RGBA()
	assert.Equal(t, []uint32{0xff, 0xff, 0xff}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestIcon_differsByColor(t *testing.T) {
	active, err := Icon(ColorActive)
	require.NoError(t, err)
	paused, err := Icon(ColorPaused)
	require.NoError(t, err)

	assert.NotEqual(t, active, paused)
}
