package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/blaubaer/focus-reader/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		Traversal:    NewTraversalConfiguration(),
		SettleDelay:  50 * time.Millisecond,
		PollInterval: 100 * time.Millisecond,
	}
}

type Configuration struct {
	Traversal TraversalConfiguration `yaml:"traversal"`

	// SettleDelay is waited after a focus change before the content of the
	// element is read.
	SettleDelay time.Duration `yaml:"settleDelay"`

	// PollInterval is how often the voice is asked if it is done. It is part
	// of the speech configuration.
	PollInterval time.Duration `yaml:"-"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	this.Traversal.SetupConfiguration(using)

	using.Flag("settleDelay", "How long to wait after a focus change before the element is read.").
		Envar("FR_SETTLE_DELAY").
		DurationVar(&this.SettleDelay)
}

func NewTraversalConfiguration() TraversalConfiguration {
	return TraversalConfiguration{
		MaxDepth:      5,
		MaxChildren:   20,
		MaxElements:   200,
		MaxTextLength: 10000,
		TextRegion:    TextRegionLast,
	}
}

type TraversalConfiguration struct {
	MaxDepth      int              `yaml:"maxDepth"`
	MaxChildren   int              `yaml:"maxChildren"`
	MaxElements   int              `yaml:"maxElements"`
	MaxTextLength int              `yaml:"maxTextLength"`
	TextRegion    TextRegionPolicy `yaml:"textRegion"`
}

func (this TraversalConfiguration) Validate() error {
	for _, bound := range []struct {
		name  string
		value int
	}{
		{"maxDepth", this.MaxDepth},
		{"maxChildren", this.MaxChildren},
		{"maxElements", this.MaxElements},
		{"maxTextLength", this.MaxTextLength},
	} {
		if bound.value <= 0 {
			return fmt.Errorf("traversal.%s has to be positive, but got: %d", bound.name, bound.value)
		}
	}
	return nil
}

func (this *TraversalConfiguration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("traversal.maxDepth", "How deep the children of the focused element are read.").
		Envar("FR_TRAVERSAL_MAX_DEPTH").
		IntVar(&this.MaxDepth)
	using.Flag("traversal.maxChildren", "How many children of each element are read at most.").
		Envar("FR_TRAVERSAL_MAX_CHILDREN").
		IntVar(&this.MaxChildren)
	using.Flag("traversal.maxElements", "How many elements are read at most for one focus change.").
		Envar("FR_TRAVERSAL_MAX_ELEMENTS").
		IntVar(&this.MaxElements)
	using.Flag("traversal.maxTextLength", "How many characters are read at most for one focus change.").
		Envar("FR_TRAVERSAL_MAX_TEXT_LENGTH").
		IntVar(&this.MaxTextLength)
	using.Flag("traversal.textRegion", "Which part of a text spanning multiple lines is highlighted. Possible values: "+AllTextRegionPolicies.String()).
		Envar("FR_TRAVERSAL_TEXT_REGION").
		SetValue(&this.TextRegion)
}

// TextRegionPolicy decides which region is highlighted for a text which
// consists of more than one bounding rectangle.
type TextRegionPolicy uint8

const (
	// TextRegionLast highlights only the last rectangle.
	TextRegionLast = TextRegionPolicy(0)
	// TextRegionUnion highlights the union of all rectangles.
	TextRegionUnion = TextRegionPolicy(1)
)

var (
	AllTextRegionPolicies = TextRegionPolicies{
		TextRegionLast,
		TextRegionUnion,
	}
)

func (this *TextRegionPolicy) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "last":
		*this = TextRegionLast
		return nil
	case "union":
		*this = TextRegionUnion
		return nil
	default:
		return fmt.Errorf("illegal-text-region-policy: %s", plain)
	}
}

func (this TextRegionPolicy) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-text-region-policy-%d", this)
	}
	return string(v)
}

func (this TextRegionPolicy) MarshalText() (text []byte, err error) {
	switch this {
	case TextRegionLast:
		return []byte("last"), nil
	case TextRegionUnion:
		return []byte("union"), nil
	default:
		return nil, fmt.Errorf("illegal text region policy: %d", this)
	}
}

func (this *TextRegionPolicy) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type TextRegionPolicies []TextRegionPolicy

func (this TextRegionPolicies) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this TextRegionPolicies) String() string {
	return strings.Join(this.Strings(), ",")
}
