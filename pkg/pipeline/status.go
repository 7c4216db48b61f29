package pipeline

import "fmt"

// Status is a snapshot of the pipeline for humans.
type Status struct {
	State      State
	Pending    int
	Generation Generation
	PausedBy   PauseReasons
}

func (this Status) String() string {
	return fmt.Sprintf("state=%v pending=%d generation=%d paused=%v", this.State, this.Pending, this.Generation, this.PausedBy)
}

func (this *Pipeline) Status() Status {
	return Status{
		State:      this.Player.State(),
		Pending:    this.Player.Pending(),
		Generation: this.Controller.Current(),
		PausedBy:   this.Dispatcher.PausedBy(),
	}
}
