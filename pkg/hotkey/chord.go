package hotkey

import (
	"fmt"
	"strings"
)

type Modifiers uint32

const (
	ModAlt     = Modifiers(0x0001)
	ModControl = Modifiers(0x0002)
	ModShift   = Modifiers(0x0004)
	ModWin     = Modifiers(0x0008)
)

var modifierNames = []struct {
	modifier Modifiers
	name     string
}{
	{ModControl, "ctrl"},
	{ModAlt, "alt"},
	{ModShift, "shift"},
	{ModWin, "win"},
}

// Key is a virtual key code.
type Key uint32

const (
	KeyLeft  = Key(0x25)
	KeyUp    = Key(0x26)
	KeyRight = Key(0x27)
	KeyDown  = Key(0x28)
)

var namedKeys = map[string]Key{
	"left":     KeyLeft,
	"up":       KeyUp,
	"right":    KeyRight,
	"down":     KeyDown,
	"space":    Key(0x20),
	"pageup":   Key(0x21),
	"pagedown": Key(0x22),
	"end":      Key(0x23),
	"home":     Key(0x24),
}

func (this *Key) Set(plain string) error {
	plain = strings.TrimSpace(strings.ToLower(plain))
	if v, ok := namedKeys[plain]; ok {
		*this = v
		return nil
	}
	if len(plain) == 1 {
		if c := plain[0]; (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			*this = Key(strings.ToUpper(plain)[0])
			return nil
		}
	}
	if len(plain) >= 2 && len(plain) <= 3 && plain[0] == 'f' {
		var n int
		if _, err := fmt.Sscanf(plain[1:], "%d", &n); err == nil && n >= 1 && n <= 24 {
			*this = Key(0x70 + n - 1)
			return nil
		}
	}
	return fmt.Errorf("illegal-key: %s", plain)
}

func (this Key) String() string {
	for name, k := range namedKeys {
		if k == this {
			return name
		}
	}
	switch {
	case (this >= 'A' && this <= 'Z') || (this >= '0' && this <= '9'):
		return strings.ToLower(string(rune(this)))
	case this >= 0x70 && this <= 0x87:
		return fmt.Sprintf("f%d", this-0x70+1)
	default:
		return fmt.Sprintf("0x%02x", uint32(this))
	}
}

// Chord is a key pressed together with modifiers, written as for example
// "ctrl+alt+up".
type Chord struct {
	Modifiers Modifiers
	Key       Key
}

func (this *Chord) Set(plain string) error {
	parts := strings.Split(strings.TrimSpace(strings.ToLower(plain)), "+")
	var result Chord
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if i == len(parts)-1 {
			if err := result.Key.Set(part); err != nil {
				return fmt.Errorf("illegal-hotkey: %s", plain)
			}
			continue
		}
		found := false
		for _, candidate := range modifierNames {
			if candidate.name == part || (part == "control" && candidate.modifier == ModControl) {
				result.Modifiers |= candidate.modifier
				found = true
			}
		}
		if !found {
			return fmt.Errorf("illegal-hotkey: %s", plain)
		}
	}
	if result.Modifiers == 0 {
		return fmt.Errorf("illegal-hotkey without modifier: %s", plain)
	}
	*this = result
	return nil
}

func (this Chord) String() string {
	var parts []string
	for _, candidate := range modifierNames {
		if this.Modifiers&candidate.modifier != 0 {
			parts = append(parts, candidate.name)
		}
	}
	return strings.Join(append(parts, this.Key.String()), "+")
}

func (this Chord) MarshalText() (text []byte, err error) {
	return []byte(this.String()), nil
}

func (this *Chord) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

func (this Chord) IsZero() bool {
	return this.Key == 0
}
