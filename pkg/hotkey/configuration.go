package hotkey

import (
	"github.com/blaubaer/focus-reader/pkg/common"
	"github.com/blaubaer/focus-reader/pkg/pipeline"
)

func NewConfiguration() Configuration {
	return Configuration{
		Enabled:         true,
		Parent:          Chord{ModControl | ModAlt, KeyUp},
		FirstChild:      Chord{ModControl | ModAlt, KeyDown},
		PreviousSibling: Chord{ModControl | ModAlt, KeyLeft},
		NextSibling:     Chord{ModControl | ModAlt, KeyRight},
		Redo:            Chord{ModControl | ModAlt, Key('R')},
	}
}

type Configuration struct {
	Enabled         bool  `yaml:"enabled"`
	Parent          Chord `yaml:"parent"`
	FirstChild      Chord `yaml:"firstChild"`
	PreviousSibling Chord `yaml:"previousSibling"`
	NextSibling     Chord `yaml:"nextSibling"`
	Redo            Chord `yaml:"redo"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("hotkeys.enabled", "Register global hotkeys to navigate through the elements.").
		Envar("FR_HOTKEYS_ENABLED").
		BoolVar(&this.Enabled)
	using.Flag("hotkeys.parent", "Hotkey to read the parent of the current element.").
		Envar("FR_HOTKEYS_PARENT").
		SetValue(&this.Parent)
	using.Flag("hotkeys.firstChild", "Hotkey to read the first child of the current element.").
		Envar("FR_HOTKEYS_FIRST_CHILD").
		SetValue(&this.FirstChild)
	using.Flag("hotkeys.previousSibling", "Hotkey to read the previous sibling of the current element.").
		Envar("FR_HOTKEYS_PREVIOUS_SIBLING").
		SetValue(&this.PreviousSibling)
	using.Flag("hotkeys.nextSibling", "Hotkey to read the next sibling of the current element.").
		Envar("FR_HOTKEYS_NEXT_SIBLING").
		SetValue(&this.NextSibling)
	using.Flag("hotkeys.redo", "Hotkey to read the current element again.").
		Envar("FR_HOTKEYS_REDO").
		SetValue(&this.Redo)
}

type Binding struct {
	Chord      Chord
	Navigation pipeline.Navigation
}

// Bindings returns all configured hotkeys, unset ones are skipped.
func (this Configuration) Bindings() (result []Binding) {
	for _, candidate := range []Binding{
		{this.Parent, pipeline.NavigationParent},
		{this.FirstChild, pipeline.NavigationFirstChild},
		{this.PreviousSibling, pipeline.NavigationPreviousSibling},
		{this.NextSibling, pipeline.NavigationNextSibling},
		{this.Redo, pipeline.NavigationRedo},
	} {
		if !candidate.Chord.IsZero() {
			result = append(result, candidate)
		}
	}
	return
}
