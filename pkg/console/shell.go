package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	log "github.com/echocat/slf4g"

	"github.com/blaubaer/focus-reader/pkg/pipeline"
	"github.com/blaubaer/focus-reader/pkg/screen"
)

// Target is what the Shell drives.
type Target interface {
	Navigate(context.Context, pipeline.Navigation) error
	PointerAt(context.Context, screen.Point) error
	Pause(pipeline.PauseReason)
	Resume(pipeline.PauseReason)
	Status() pipeline.Status
}

// Shell reads navigation commands line by line and forwards them to the
// Target.
type Shell struct {
	Target Target
	Stdin  io.ReadCloser
	Stdout io.Writer
	Prompt string
}

func (this *Shell) Run(ctx context.Context) error {
	prompt := this.Prompt
	if prompt == "" {
		prompt = "focus> "
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdin:           this.Stdin,
		Stdout:          this.Stdout,
	})
	if err != nil {
		return fmt.Errorf("cannot create shell: %w", err)
	}
	defer func() {
		_ = rl.Close()
	}()

	stop := context.AfterFunc(ctx, func() {
		_ = rl.Close()
	})
	defer stop()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("cannot read from shell: %w", err)
		}

		quit, err := this.Execute(ctx, line)
		if err != nil {
			log.WithError(err).
				With("command", line).
				Debug("Command failed.")
			_, _ = fmt.Fprintf(rl.Stdout(), "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// Execute runs a single command line. An empty line does nothing.
func (this *Shell) Execute(ctx context.Context, line string) (quit bool, _ error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	command, args := strings.ToLower(fields[0]), fields[1:]

	switch command {
	case "quit", "exit":
		return true, nil
	case "help", "?":
		_, err := io.WriteString(this.Stdout, help)
		return false, err
	case "status":
		_, err := fmt.Fprintln(this.Stdout, this.Target.Status())
		return false, err
	case "pause":
		this.Target.Pause(pipeline.PauseReasonUser)
		return false, nil
	case "resume":
		this.Target.Resume(pipeline.PauseReasonUser)
		return false, nil
	case "point":
		p, err := parsePoint(args)
		if err != nil {
			return false, err
		}
		return false, this.Target.PointerAt(ctx, p)
	}

	var n pipeline.Navigation
	if err := n.Set(command); err != nil {
		return false, fmt.Errorf("unknown command %q; try help", fields[0])
	}
	if len(args) > 0 {
		return false, fmt.Errorf("%s does not accept arguments", n)
	}
	return false, this.Target.Navigate(ctx, n)
}

func parsePoint(args []string) (screen.Point, error) {
	if len(args) != 2 {
		return screen.Point{}, fmt.Errorf("point requires exactly two arguments: <x> <y>")
	}
	x, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		return screen.Point{}, fmt.Errorf("illegal x coordinate %q: %w", args[0], err)
	}
	y, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil {
		return screen.Point{}, fmt.Errorf("illegal y coordinate %q: %w", args[1], err)
	}
	return screen.Point{X: int32(x), Y: int32(y)}, nil
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("parent"),
	readline.PcItem("child"),
	readline.PcItem("next"),
	readline.PcItem("prev"),
	readline.PcItem("redo"),
	readline.PcItem("point"),
	readline.PcItem("pause"),
	readline.PcItem("resume"),
	readline.PcItem("status"),
	readline.PcItem("help"),
	readline.PcItem("quit"),
)

const help = `Commands:
  parent, up           read the parent of the current element
  child, down          read the first child of the current element
  next, right          read the next sibling of the current element
  prev, left           read the previous sibling of the current element
  redo, repeat         read the current element again
  point <x> <y>        read the element at the given screen coordinates
  pause, resume        stop or continue reading
  status               show what is going on
  quit                 leave the shell
`
