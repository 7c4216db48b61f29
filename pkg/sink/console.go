package sink

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Console writes every announcement as one line.
type Console struct {
	Writer io.Writer

	mutex sync.Mutex
}

func (this *Console) Initialize() error {
	return nil
}

func (this *Console) Dispose() error {
	return nil
}

func (this *Console) Print(text string) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	_, err := fmt.Fprintf(this.writer(), "» %s\n", text)
	return err
}

func (this *Console) Ensure(state State, reason string) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	var err error
	if reason != "" {
		_, err = fmt.Fprintf(this.writer(), "· %v (%s)\n", state, reason)
	} else {
		_, err = fmt.Fprintf(this.writer(), "· %v\n", state)
	}
	return err
}

func (this *Console) GetType() Type {
	return TypeConsole
}

func (this *Console) writer() io.Writer {
	if v := this.Writer; v != nil {
		return v
	}
	return os.Stdout
}
