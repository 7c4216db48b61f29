package app

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"reflect"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/blaubaer/focus-reader/pkg/common"
	"github.com/blaubaer/focus-reader/pkg/hotkey"
	"github.com/blaubaer/focus-reader/pkg/overlay"
	"github.com/blaubaer/focus-reader/pkg/pipeline"
	"github.com/blaubaer/focus-reader/pkg/pointer"
	"github.com/blaubaer/focus-reader/pkg/sink"
	"github.com/blaubaer/focus-reader/pkg/speech"
)

func NewConfiguration() Configuration {
	return Configuration{
		Pipeline: pipeline.NewConfiguration(),
		Speech:   speech.NewConfiguration(),
		Overlay:  overlay.NewConfiguration(),
		Pointer:  pointer.NewConfiguration(),
		Hotkeys:  hotkey.NewConfiguration(),
		Sink:     sink.NewConfiguration(),

		CheckInterval:   5 * time.Second,
		RefreshInterval: 10 * time.Minute,

		Microphone: common.Selection{
			Excluded: common.MustNewRegexp(`(?i)^(svchost|audiodg)\.exe$`),
		},
	}
}

type Configuration struct {
	PreventAutoSave bool `yaml:"preventAutoSave"`

	Pipeline pipeline.Configuration `yaml:",inline"`
	Speech   speech.Configuration   `yaml:"speech"`
	Overlay  overlay.Configuration  `yaml:"overlay"`
	Pointer  pointer.Configuration  `yaml:"pointer"`
	Hotkeys  hotkey.Configuration   `yaml:"hotkeys"`
	Sink     sink.Configuration     `yaml:",inline"`

	CheckInterval   time.Duration `yaml:"checkInterval,omitempty"`
	RefreshInterval time.Duration `yaml:"refreshInterval,omitempty"`

	// Processes selects the processes which elements are read.
	Processes common.Selection `yaml:"processes,omitempty"`
	// Microphone selects the processes which pause reading while they
	// record from a microphone.
	Microphone common.Selection `yaml:"microphone,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	this.Pipeline.SetupConfiguration(using)
	this.Speech.SetupConfiguration(using)
	this.Overlay.SetupConfiguration(using)
	this.Pointer.SetupConfiguration(using)
	this.Hotkeys.SetupConfiguration(using)
	this.Sink.SetupConfiguration(using)

	using.Flag("preventAutoSave", "If provided configuration will NOT automatically be saved upon changes.").
		Envar("FR_PREVENT_AUTO_SAVE").
		BoolVar(&this.PreventAutoSave)
	using.Flag("checkInterval", "How often the microphones are checked for recording applications.").
		Envar("FR_CHECK_INTERVAL").
		DurationVar(&this.CheckInterval)
	using.Flag("refreshInterval", "How often the accessibility tree and the voice are recreated.").
		Envar("FR_REFRESH_INTERVAL").
		DurationVar(&this.RefreshInterval)
	using.Flag("processes.included", "Only elements of processes with matching names are read.").
		Envar("FR_PROCESSES_INCLUDED").
		SetValue(&this.Processes.Included)
	using.Flag("processes.excluded", "Elements of processes with matching names are never read.").
		Envar("FR_PROCESSES_EXCLUDED").
		SetValue(&this.Processes.Excluded)
	using.Flag("microphone.included", "Only processes with matching names pause reading while they record.").
		Envar("FR_MICROPHONE_INCLUDED").
		SetValue(&this.Microphone.Included)
	using.Flag("microphone.excluded", "Processes with matching names never pause reading while they record.").
		Envar("FR_MICROPHONE_EXCLUDED").
		SetValue(&this.Microphone.Excluded)
}

func (this Configuration) Validate() error {
	if err := this.Speech.Validate(); err != nil {
		return err
	}
	if err := this.Pipeline.Traversal.Validate(); err != nil {
		return err
	}
	if this.CheckInterval <= 0 {
		return fmt.Errorf("check interval has to be positive, but got: %v", this.CheckInterval)
	}
	if this.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval has to be positive, but got: %v", this.RefreshInterval)
	}
	if this.Pointer.Enabled && this.Pointer.PollInterval <= 0 {
		return fmt.Errorf("pointer poll interval has to be positive, but got: %v", this.Pointer.PollInterval)
	}
	return nil
}

// mergeFrom overrides every value of this configuration which is set in
// the given one.
func (this *Configuration) mergeFrom(other Configuration) error {
	if err := mergo.Merge(this, other, mergo.WithOverride, mergo.WithTransformers(configurationTransformers{})); err != nil {
		return fmt.Errorf("cannot merge configuration: %w", err)
	}
	return nil
}

// configurationTransformers lets values without exported fields be
// overridden as a whole, but only if they are set.
type configurationTransformers struct{}

var (
	typeRegexp = reflect.TypeOf(common.Regexp{})
	typeChord  = reflect.TypeOf(hotkey.Chord{})
)

func (configurationTransformers) Transformer(t reflect.Type) func(dst, src reflect.Value) error {
	switch t {
	case typeRegexp:
		return overrideIfSet(func(v reflect.Value) bool { return v.Interface().(common.Regexp).IsZero() })
	case typeChord:
		return overrideIfSet(func(v reflect.Value) bool { return v.Interface().(hotkey.Chord).IsZero() })
	default:
		return nil
	}
}

func overrideIfSet(isZero func(reflect.Value) bool) func(dst, src reflect.Value) error {
	return func(dst, src reflect.Value) error {
		if dst.CanSet() && !isZero(src) {
			dst.Set(src)
		}
		return nil
	}
}

func (this *Configuration) loadFrom(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(this); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (this *Configuration) loadFromFile(fn string, ignoreNotFound bool) error {
	f, err := os.Open(fn)
	if os.IsNotExist(err) && ignoreNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot open configuration file %q: %w", fn, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := this.loadFrom(f); err != nil {
		return fmt.Errorf("cannot load configuration file %q: %w", fn, err)
	}

	return nil
}

func (this *Configuration) saveTo(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(this); err != nil {
		return err
	}
	return enc.Close()
}

func (this *Configuration) saveToFile(fn string) error {
	_ = os.MkdirAll(filepath.Dir(fn), 0700)

	f, err := os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("cannot open configuration file %q: %w", fn, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := this.saveTo(f); err != nil {
		return fmt.Errorf("cannot write file %q: %w", fn, err)
	}

	return nil
}

func defaultConfigurationFile() string {
	if appData := os.Getenv("APPDATA"); appData != "" {
		fs, err := os.Stat(appData)
		if err == nil && fs.IsDir() {
			return filepath.Join(appData, "focus-reader", "configuration.yml")
		}
	}

	u, err := user.Current()
	if err != nil {
		return "configuration.yml"
	}

	return filepath.Join(u.HomeDir, ".config", "focus-reader", "configuration.yml")
}
