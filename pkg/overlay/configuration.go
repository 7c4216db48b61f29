package overlay

import "github.com/blaubaer/focus-reader/pkg/common"

func NewConfiguration() Configuration {
	return Configuration{
		Enabled:   true,
		Color:     ColorRed,
		Thickness: 2,
	}
}

type Configuration struct {
	Enabled   bool  `yaml:"enabled"`
	Color     Color `yaml:"color"`
	Thickness int32 `yaml:"thickness"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("overlay.enabled", "If set the element which is currently read out will be highlighted.").
		Envar("FR_OVERLAY_ENABLED").
		BoolVar(&this.Enabled)
	using.Flag("overlay.color", "Color of the highlight rectangle as #rrggbb.").
		Envar("FR_OVERLAY_COLOR").
		SetValue(&this.Color)
	using.Flag("overlay.thickness", "Line thickness of the highlight rectangle in pixels.").
		Envar("FR_OVERLAY_THICKNESS").
		Int32Var(&this.Thickness)
}
