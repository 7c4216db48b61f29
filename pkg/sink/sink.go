package sink

// Sink makes the announcements and the state of the reader visible to the
// user.
type Sink interface {
	Initialize() error
	Dispose() error

	Print(text string) error
	Ensure(State, string) error

	GetType() Type
}
