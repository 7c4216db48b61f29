package sink

import (
	"github.com/blaubaer/focus-reader/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		Outputs: Types{TypeConsole, TypeTray},
	}
}

type Configuration struct {
	Outputs Types `yaml:"outputs,flow"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("outputs", "Where the texts which are read are also shown. Possible values: "+AllTypes.String()).
		Envar("FR_OUTPUTS").
		SetValue(&this.Outputs)
}
