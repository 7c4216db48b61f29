package overlay

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a 0xRRGGBB value.
type Color uint32

const ColorRed = Color(0xff0000)

func (this *Color) Set(plain string) error {
	trimmed := strings.TrimPrefix(strings.TrimSpace(plain), "#")
	if len(trimmed) != 6 {
		return fmt.Errorf("illegal-color: %s", plain)
	}
	v, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return fmt.Errorf("illegal-color: %s", plain)
	}
	*this = Color(v)
	return nil
}

func (this Color) String() string {
	return fmt.Sprintf("#%06x", uint32(this))
}

func (this Color) MarshalText() ([]byte, error) {
	return []byte(this.String()), nil
}

func (this *Color) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

// ColorRef returns the value in the 0x00BBGGRR layout of GDI.
func (this Color) ColorRef() uint32 {
	r := (uint32(this) >> 16) & 0xff
	g := (uint32(this) >> 8) & 0xff
	b := uint32(this) & 0xff
	return r | g<<8 | b<<16
}
