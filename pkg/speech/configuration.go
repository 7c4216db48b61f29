package speech

import (
	"fmt"
	"time"

	"github.com/blaubaer/focus-reader/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		Volume:       100,
		Rate:         0,
		PollInterval: 100 * time.Millisecond,
	}
}

type Configuration struct {
	// Volume from 0 to 100.
	Volume uint8 `yaml:"volume"`
	// Rate from -10 to 10.
	Rate         int8          `yaml:"rate"`
	PollInterval time.Duration `yaml:"pollInterval,omitempty"`

	PauseWhileMicrophoneActive bool `yaml:"pauseWhileMicrophoneActive,omitempty"`
}

func (this Configuration) Validate() error {
	if this.Volume > 100 {
		return fmt.Errorf("speech volume has to be between 0 and 100, but got: %d", this.Volume)
	}
	if this.Rate < -10 || this.Rate > 10 {
		return fmt.Errorf("speech rate has to be between -10 and 10, but got: %d", this.Rate)
	}
	return nil
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("speech.volume", "Volume of the voice from 0 to 100.").
		Envar("FR_SPEECH_VOLUME").
		Uint8Var(&this.Volume)
	using.Flag("speech.rate", "Speaking rate of the voice from -10 (slowest) to 10 (fastest).").
		Envar("FR_SPEECH_RATE").
		Int8Var(&this.Rate)
	using.Flag("speech.pollInterval", "How often the voice is asked whether it finished speaking.").
		Envar("FR_SPEECH_POLL_INTERVAL").
		DurationVar(&this.PollInterval)
	using.Flag("speech.pauseWhileMicrophoneActive", "If set nothing is read out while any application records from a microphone.").
		Envar("FR_SPEECH_PAUSE_WHILE_MICROPHONE_ACTIVE").
		BoolVar(&this.PauseWhileMicrophoneActive)
}
