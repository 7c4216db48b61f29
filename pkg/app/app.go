package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	log "github.com/echocat/slf4g"
	"golang.org/x/sync/errgroup"

	"github.com/blaubaer/focus-reader/pkg/accessibility"
	"github.com/blaubaer/focus-reader/pkg/audio"
	"github.com/blaubaer/focus-reader/pkg/common"
	"github.com/blaubaer/focus-reader/pkg/hotkey"
	"github.com/blaubaer/focus-reader/pkg/overlay"
	"github.com/blaubaer/focus-reader/pkg/pipeline"
	"github.com/blaubaer/focus-reader/pkg/pointer"
	"github.com/blaubaer/focus-reader/pkg/process"
	"github.com/blaubaer/focus-reader/pkg/screen"
	"github.com/blaubaer/focus-reader/pkg/sink"
	"github.com/blaubaer/focus-reader/pkg/speech"
)

type App struct {
	ConfigurationFile string

	// Sinks are used instead of new instances of the same sink type.
	Sinks []sink.Sink
	// DisabledOutputs are never used, even if they are configured.
	DisabledOutputs sink.Types

	// Providers which are nil are created for the current platform on
	// Initialize.
	Tree     accessibility.Tree
	Voice    speech.Voice
	Surface  overlay.Surface
	Devices  audio.DeviceFinder
	Locator  pointer.Locator
	Resolver *process.Resolver

	Sink     sink.Facade
	Pipeline *pipeline.Pipeline

	configFromFlags Configuration
	config          Configuration
	disposables     []func() error
	stateMutex      sync.Mutex
}

type reinitializable interface {
	Reinitialize() error
}

func (this *App) SetupConfiguration(using common.FlagHolder) {
	this.configFromFlags.SetupConfiguration(using)

	using.Flag("configuration", "Defines the file from which the configuration should be loaded and/or stored to.").
		Short('c').
		Envar("FR_CONFIGURATION").
		StringVar(&this.ConfigurationFile)
}

func (this *App) Configuration() Configuration {
	return this.config
}

func (this *App) Initialize() (rErr error) {
	success := false
	defer func() {
		if !success {
			if err := this.Dispose(); err != nil && rErr == nil {
				rErr = err
			}
		}
	}()

	if err := this.LoadConfiguration(); err != nil {
		return err
	}
	if err := this.saveConf(false); err != nil {
		return err
	}

	if err := this.initializePlatform(); err != nil {
		return err
	}
	if err := this.initializeProviders(); err != nil {
		return err
	}

	if err := this.Sink.Initialize(this.config.Sink.Outputs.Without(this.DisabledOutputs...), this.Sinks...); err != nil {
		return err
	}
	this.disposables = append(this.disposables, this.Sink.Dispose)

	conf := this.config.Pipeline
	conf.PollInterval = this.config.Speech.PollInterval
	this.Pipeline = pipeline.New(this.Tree, this.Voice, this.Surface, conf, &this.Sink)
	this.Pipeline.Player.OnItem = func(item pipeline.Item) {
		log.With("generation", item.Generation).
			With("region", item.Region).
			With("text", item.Text).
			Debug("Reading item...")
	}
	if sel := this.config.Processes; !sel.IsZero() {
		filter := process.Filter{Resolver: this.Resolver, Selection: sel}
		this.Pipeline.Dispatcher.Filter = func(tree accessibility.Tree, e accessibility.Element) bool {
			pid, err := tree.ProcessID(e)
			if err != nil {
				log.WithError(err).
					Debug("Cannot get process of element; read it anyway.")
				return true
			}
			return filter.Selects(context.Background(), pid)
		}
	}

	success = true
	return nil
}

// LoadConfiguration loads the configuration file and applies the flags on
// top of it.
func (this *App) LoadConfiguration() error {
	this.config = NewConfiguration()
	if err := this.config.loadFromFile(this.configurationFile(), true); err != nil {
		return err
	}
	if err := this.config.mergeFrom(this.configFromFlags); err != nil {
		return err
	}
	return this.config.Validate()
}

func (this *App) WriteConfiguration(w io.Writer) error {
	return this.config.saveTo(w)
}

func (this *App) SaveConfiguration() error {
	return this.saveConf(true)
}

func (this *App) initializeProviders() error {
	if this.Tree == nil {
		v, err := accessibility.NewAutomation()
		if err != nil {
			return fmt.Errorf("cannot initialize accessibility tree: %w", err)
		}
		this.Tree = v
		this.disposables = append(this.disposables, v.Dispose)
	}
	if this.Voice == nil {
		v, err := speech.NewSapi(this.config.Speech)
		if err != nil {
			return fmt.Errorf("cannot initialize voice: %w", err)
		}
		this.Voice = v
		this.disposables = append(this.disposables, v.Dispose)
	}
	if this.Surface == nil {
		if this.config.Overlay.Enabled {
			v, err := overlay.NewGdi(this.config.Overlay)
			if err != nil {
				return fmt.Errorf("cannot initialize overlay: %w", err)
			}
			this.Surface = v
		} else {
			this.Surface = overlay.Noop{}
		}
	}
	if this.Devices == nil && this.config.Speech.PauseWhileMicrophoneActive {
		var v audio.Stack
		if err := v.Initialize(); err != nil {
			return fmt.Errorf("cannot initialize audio stack: %w", err)
		}
		this.Devices = &v
		this.disposables = append(this.disposables, v.Dispose)
	}
	if this.Locator == nil {
		this.Locator = pointer.Cursor{}
	}
	if this.Resolver == nil {
		this.Resolver = process.NewResolver(time.Minute)
	}
	return nil
}

// Run blocks until ctx is done or one of the watchers fails.
func (this *App) Run(ctx context.Context) error {
	this.pauseChanged()

	g, gCtx := errgroup.WithContext(ctx)

	if conf := this.config.Pointer; conf.Enabled {
		tracker := pointer.NewTracker(this.Locator, conf, this.onPointerSettled)
		g.Go(func() error {
			return tracker.Run(gCtx)
		})
	}

	if conf := this.config.Hotkeys; conf.Enabled {
		listener := hotkey.NewListener(conf, this.onNavigation)
		g.Go(func() error {
			if err := listener.Run(gCtx); errors.Is(err, hotkey.ErrUnsupportedPlatform) {
				log.WithError(err).
					Info("Hotkeys are not available.")
			} else if err != nil {
				log.WithError(err).
					Warn("Cannot listen for hotkeys; continue without them.")
			}
			return nil
		})
	}

	if this.config.Speech.PauseWhileMicrophoneActive {
		filter := process.Filter{Resolver: this.Resolver, Selection: this.config.Microphone}
		guard := audio.Guard{
			Finder:   this.Devices,
			Interval: this.config.CheckInterval,
			Relevant: func(ctx context.Context, s audio.Session) bool {
				return filter.Selects(ctx, s.HolderPid)
			},
			OnChange: this.onMicrophoneChange,
		}
		g.Go(func() error {
			return guard.Run(gCtx)
		})
	}

	g.Go(func() error {
		return this.refreshLoop(gCtx)
	})

	return g.Wait()
}

func (this *App) refreshLoop(ctx context.Context) error {
	for {
		log.With("interval", this.config.RefreshInterval).
			Debug("Wait until the next refresh...")
		select {
		case <-ctx.Done():
			log.Debug("Refresh loop interrupted.")
			return nil
		case <-time.After(this.config.RefreshInterval):
		}
		this.refresh()
	}
}

func (this *App) refresh() {
	this.Pipeline.Reset()
	this.Resolver.Forget()

	for _, candidate := range []any{this.Tree, this.Voice} {
		if v, ok := candidate.(reinitializable); ok {
			if err := v.Reinitialize(); err != nil {
				log.WithError(err).
					Warn("Cannot reinitialize provider.")
			}
		}
	}
	log.Debug("Providers refreshed.")
}

func (this *App) onPointerSettled(ctx context.Context, p screen.Point) {
	if err := this.PointerAt(ctx, p); err != nil {
		log.WithError(err).
			With("point", p).
			Debug("Cannot read element under pointer.")
	}
}

func (this *App) onNavigation(ctx context.Context, n pipeline.Navigation) {
	if err := this.Navigate(ctx, n); err != nil {
		log.WithError(err).
			With("navigation", n).
			Debug("Cannot navigate.")
	}
}

func (this *App) onMicrophoneChange(active bool, holders audio.Sessions) {
	if active {
		log.With("holders", holders).
			Info("Microphone in use.")
		this.Pause(pipeline.PauseReasonMicrophone)
	} else {
		log.Info("Microphone released.")
		this.Resume(pipeline.PauseReasonMicrophone)
	}
}

func (this *App) PointerAt(ctx context.Context, p screen.Point) error {
	return this.Pipeline.PointerAt(ctx, p)
}

func (this *App) Navigate(ctx context.Context, n pipeline.Navigation) error {
	return this.Pipeline.Navigate(ctx, n)
}

func (this *App) Status() pipeline.Status {
	return this.Pipeline.Status()
}

func (this *App) Pause(reason pipeline.PauseReason) {
	this.stateMutex.Lock()
	defer this.stateMutex.Unlock()
	this.Pipeline.Pause(reason)
	this.pauseChangedLocked()
}

func (this *App) Resume(reason pipeline.PauseReason) {
	this.stateMutex.Lock()
	defer this.stateMutex.Unlock()
	this.Pipeline.Resume(reason)
	this.pauseChangedLocked()
}

// TogglePause pauses or resumes on behalf of the user and returns whether
// the user paused afterward.
func (this *App) TogglePause() bool {
	this.stateMutex.Lock()
	defer this.stateMutex.Unlock()
	if this.Pipeline.Dispatcher.PausedBy().Has(pipeline.PauseReasonUser) {
		this.Pipeline.Resume(pipeline.PauseReasonUser)
	} else {
		this.Pipeline.Pause(pipeline.PauseReasonUser)
	}
	this.pauseChangedLocked()
	return this.Pipeline.Dispatcher.PausedBy().Has(pipeline.PauseReasonUser)
}

func (this *App) pauseChanged() {
	this.stateMutex.Lock()
	defer this.stateMutex.Unlock()
	this.pauseChangedLocked()
}

func (this *App) pauseChangedLocked() {
	if by := this.Pipeline.Dispatcher.PausedBy(); by != 0 {
		this.Sink.Ensure(sink.StatePaused, by.String())
	} else {
		this.Sink.Ensure(sink.StateActive, "")
	}
}

func (this *App) configurationFile() string {
	if v := this.ConfigurationFile; v != "" {
		return v
	}
	return defaultConfigurationFile()
}

func (this *App) saveConf(always bool) error {
	if this.config.PreventAutoSave {
		log.Debug("Automatically save of configuration disabled.")
		return nil
	}

	fn := this.configurationFile()
	if !always {
		_, err := os.Stat(fn)
		if os.IsNotExist(err) {
			log.With("file", fn).Info("Configuration absent.")
		} else if err != nil {
			return err
		} else {
			return nil
		}
	}

	if err := this.config.saveToFile(fn); err != nil {
		return err
	}

	log.With("file", fn).Info("Configuration saved.")

	return nil
}

func (this *App) Dispose() (rErr error) {
	if v := this.Pipeline; v != nil {
		v.Close()
	}

	for i := len(this.disposables) - 1; i >= 0; i-- {
		if err := this.disposables[i](); err != nil && rErr == nil {
			rErr = err
		}
	}
	this.disposables = nil
	return rErr
}
