package sink

import (
	"fmt"
	"strings"
)

type Type uint8

const (
	TypeConsole = Type(0)
	TypeTray    = Type(1)
)

var (
	AllTypes = Types{
		TypeConsole,
		TypeTray,
	}
)

func (this *Type) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "console", "stdout":
		*this = TypeConsole
		return nil
	case "tray", "systray":
		*this = TypeTray
		return nil
	default:
		return fmt.Errorf("illegal-sink-type: %s", plain)
	}
}

func (this Type) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-sink-type-%d", this)
	}
	return string(v)
}

func (this Type) MarshalText() (text []byte, err error) {
	switch this {
	case TypeConsole:
		return []byte("console"), nil
	case TypeTray:
		return []byte("tray"), nil
	default:
		return nil, fmt.Errorf("illegal sink type: %d", this)
	}
}

func (this *Type) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type Types []Type

// Set accepts a comma separated list of types.
func (this *Types) Set(plain string) error {
	var result Types
	for _, part := range strings.Split(plain, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		var t Type
		if err := t.Set(part); err != nil {
			return err
		}
		if !result.Contains(t) {
			result = append(result, t)
		}
	}
	*this = result
	return nil
}

func (this Types) Contains(t Type) bool {
	for _, v := range this {
		if v == t {
			return true
		}
	}
	return false
}

func (this Types) Without(ts ...Type) (result Types) {
	for _, v := range this {
		if !Types(ts).Contains(v) {
			result = append(result, v)
		}
	}
	return
}

func (this Types) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Types) String() string {
	return strings.Join(this.Strings(), ",")
}
