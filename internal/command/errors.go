package command

import "errors"

// Failure taxonomy for parse and dispatch. All of these are local to one
// command on one connection; none of them should ever tear down a
// session or the event bus.
var (
	// ErrMalformedFrame means the wire frame could not be parsed into a
	// command at all (protocol-level failure).
	ErrMalformedFrame = errors.New("malformed command frame")

	// ErrUnknownTarget means no live player carries the requested ID.
	ErrUnknownTarget = errors.New("unknown player")

	// ErrUnknownCommand means the resolved player has no capability with
	// the requested name.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrNotSupported is the legacy-phrase outcome for phrases outside
	// the fixed table, including structurally malformed ones. The legacy
	// protocol maps it to its "command not supported" text reply.
	ErrNotSupported = errors.New("command not supported")
)

// InvocationError wraps a failure inside the capability itself: the
// operation rejected its argument or failed internally.
type InvocationError struct {
	Command string
	Player  string
	Cause   error
}

func (e *InvocationError) Error() string {
	return "command " + e.Command + " failed for player " + e.Player + ": " + e.Cause.Error()
}

func (e *InvocationError) Unwrap() error { return e.Cause }
