package pointer

import (
	"time"

	"github.com/blaubaer/focus-reader/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		Enabled:        true,
		PollInterval:   50 * time.Millisecond,
		SettleDuration: 150 * time.Millisecond,
	}
}

type Configuration struct {
	Enabled bool `yaml:"enabled"`
	// PollInterval is how often the position of the pointer is sampled.
	PollInterval time.Duration `yaml:"pollInterval"`
	// SettleDuration is how long the pointer has to rest before the element
	// under it is read.
	SettleDuration time.Duration `yaml:"settleDuration"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("pointer.enabled", "Read the element under the mouse pointer.").
		Envar("FR_POINTER_ENABLED").
		BoolVar(&this.Enabled)
	using.Flag("pointer.pollInterval", "How often the position of the mouse pointer is sampled.").
		Envar("FR_POINTER_POLL_INTERVAL").
		DurationVar(&this.PollInterval)
	using.Flag("pointer.settleDuration", "How long the mouse pointer has to rest before the element under it is read.").
		Envar("FR_POINTER_SETTLE_DURATION").
		DurationVar(&this.SettleDuration)
}
