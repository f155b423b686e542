// Package hook implements the actions confwatch runs when a provider
// reports new data. Hooks are immutable once constructed and hold only the
// settings needed to perform their action; several hooks can run against
// the same payload without interfering with each other.
package hook

import (
	"errors"
	"fmt"
)

// ErrDeserialize marks a payload that could not be decoded in the format a
// hook declared for it.
var ErrDeserialize = errors.New("payload deserialization failed")

// ErrRender marks a template that failed to render, including failures
// inside the key lookup helper.
var ErrRender = errors.New("template rendering failed")

// CommandError reports a command hook whose child process exited non-zero.
type CommandError struct {
	Command  string
	ExitCode int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Command, e.ExitCode)
}

// Hook is a configured action executed once per detected change, given the
// new payload.
type Hook interface {
	// Name identifies the hook variant in logs and error messages.
	Name() string

	// Run performs the hook's side effect against the payload.
	Run(payload string) error
}
