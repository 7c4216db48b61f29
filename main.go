package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	log "github.com/echocat/slf4g"
	"github.com/echocat/slf4g/native"
	"github.com/echocat/slf4g/native/consumer"
	"github.com/echocat/slf4g/native/facade/value"
	"github.com/echocat/slf4g/native/formatter"

	"github.com/blaubaer/focus-reader/pkg/app"
	"github.com/blaubaer/focus-reader/pkg/common"
	"github.com/blaubaer/focus-reader/pkg/console"
	"github.com/blaubaer/focus-reader/pkg/sink"
	"github.com/blaubaer/focus-reader/pkg/tray"
)

const title = "Focus reader"

func main() {
	wf := &writerFacade{delegates: []io.Writer{os.Stderr}}
	buf := common.NewRingLineBuffer(2000, 4096)
	buf.TruncateTooLongLines = true
	consumer.Default = consumer.NewWriter(wf)

	lv := value.NewProvider(native.DefaultProvider)
	lv.Consumer.Formatter.Codec = value.MappingFormatterCodec{
		"text": formatter.NewText(func(v *formatter.Text) {
			bv := true
			v.AllowMultiLineMessage = &bv
			v.MultiLineMessageAfterFields = &bv
		}),
		"json": formatter.NewJson(),
	}

	var a app.App

	cmd := kingpin.New(os.Args[0], "Reads out the element under the mouse pointer or the one navigated to.")
	a.SetupConfiguration(cmd)

	cmd.Flag("log.level", "").
		SetValue(lv.Level)
	cmd.Flag("log.format", "").
		Default("text").
		SetValue(lv.Consumer.Formatter)
	cmd.Flag("log.color", "").
		Default("always").
		SetValue(lv.Consumer.Formatter.ColorMode)

	cmd.Command("tray", "Runs in the background with an icon in the system tray.").
		Default().
		Action(func(*kingpin.ParseContext) error {
			return runTray(&a, buf, wf)
		})

	cmd.Command("console", "Runs in this terminal and accepts navigation commands.").
		Action(func(*kingpin.ParseContext) error {
			return runConsole(&a)
		})

	var save bool
	configurationCmd := cmd.Command("configuration", "Prints the effective configuration.").
		Action(func(*kingpin.ParseContext) error {
			if err := a.LoadConfiguration(); err != nil {
				return err
			}
			if save {
				return a.SaveConfiguration()
			}
			return a.WriteConfiguration(os.Stdout)
		})
	configurationCmd.Flag("save", "Saves the effective configuration instead of printing it.").
		BoolVar(&save)

	kingpin.MustParse(cmd.Parse(os.Args[1:]))
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	context.AfterFunc(ctx, func() {
		log.Info("Terminated. Going down...")
	})
	return ctx, cancel
}

func runTray(a *app.App, buf *common.RingLineBuffer, wf *writerFacade) (rErr error) {
	if err := a.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := a.Dispose(); err != nil && rErr == nil {
			rErr = err
		}
	}()

	icon, err := tray.Icon(tray.ColorActive)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	menu := tray.Menu{
		Title:       title,
		TogglePause: a.TogglePause,
		ShowConsole: func(ctx context.Context) {
			showConsole(ctx, a, buf, wf)
		},
	}
	return menu.Run(ctx, icon, func(ctx context.Context) error {
		wf.set([]io.Writer{buf})
		return a.Run(ctx)
	})
}

func runConsole(a *app.App) (rErr error) {
	a.DisabledOutputs = sink.Types{sink.TypeTray}
	a.Sinks = []sink.Sink{&sink.Console{Writer: os.Stdout}}
	if err := a.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := a.Dispose(); err != nil && rErr == nil {
			rErr = err
		}
	}()

	ctx, cancel := signalContext()
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx)
	}()

	shell := console.Shell{
		Target: a,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}
	if err := shell.Run(ctx); err != nil {
		log.WithError(err).
			Warn("Shell failed.")
	}
	cancel()
	return <-done
}

func showConsole(ctx context.Context, a *app.App, buf *common.RingLineBuffer, wf *writerFacade) {
	dc, err := console.NewDedicatedConsole(title)
	if err != nil {
		log.WithError(err).
			Warn("Cannot create console.")
		return
	}
	defer func() { _ = dc.Close() }()

	wf.set([]io.Writer{buf, dc.Stdout}, func(current, next []io.Writer) {
		_, _ = buf.WriteTo(dc.Stdout)
	})
	defer wf.set([]io.Writer{buf})

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	dc.OnClose = func() bool {
		cancelFunc()
		return true
	}

	if err := dc.Shell(a).Run(ctx); err != nil {
		log.WithError(err).
			Warn("Console shell failed.")
	}
}

type writerFacade struct {
	delegates []io.Writer
	mutex     sync.RWMutex
}

func (this *writerFacade) Write(p []byte) (n int, err error) {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	for i, w := range this.delegates {
		var nn int
		if nn, err = w.Write(p); err != nil {
			return n, err
		}
		if i == 0 {
			n = nn
		} else if n != nn {
			return n, fmt.Errorf("the previous writer wrote %d, but the current one wrote %d bytes", n, nn)
		}
	}

	return
}

func (this *writerFacade) set(next []io.Writer, whileChange ...func(current, next []io.Writer)) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	current := this.delegates
	for _, fn := range whileChange {
		fn(current, next)
	}
	this.delegates = next
}
