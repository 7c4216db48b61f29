package tray

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

const iconSize = 32

var (
	ColorActive = color.RGBA{R: 0xd3, G: 0x2f, B: 0x2f, A: 0xff}
	ColorPaused = color.RGBA{R: 0x75, G: 0x75, B: 0x75, A: 0xff}
)

// Icon renders the tray icon in the given color as ICO file: a filled
// circle with a white bar, like a highlighted line of text.
func Icon(c color.RGBA) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	const center, radius = iconSize/2 - 0.5, iconSize/2 - 1
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			dx, dy := float64(x)-center, float64(y)-center
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			if y >= 13 && y <= 18 && x >= 8 && x <= 23 {
				img.SetRGBA(x, y, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
				continue
			}
			img.SetRGBA(x, y, c)
		}
	}

	var body bytes.Buffer
	if err := png.Encode(&body, img); err != nil {
		return nil, fmt.Errorf("cannot encode icon: %w", err)
	}
	return wrapIco(body.Bytes(), iconSize), nil
}

// wrapIco puts a single PNG image into an ICO container.
func wrapIco(pngData []byte, size int) []byte {
	var buf bytes.Buffer
	w := func(v any) {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}

	// ICONDIR
	w(uint16(0))
	w(uint16(1))
	w(uint16(1))

	// ICONDIRENTRY
	w(uint8(size % 256))
	w(uint8(size % 256))
	w(uint8(0))
	w(uint8(0))
	w(uint16(1))
	w(uint16(32))
	w(uint32(len(pngData)))
	w(uint32(6 + 16))

	buf.Write(pngData)
	return buf.Bytes()
}
