package hook

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"
)

// Command fires off a shell command whenever new data arrives. With PipeData
// set, the payload is piped into the command's stdin, so configs can do
// things like `command = "cat > /etc/wireguard/wg0.conf"`.
type Command struct {
	command  string
	pipeData bool
}

// NewCommand creates a Command hook.
func NewCommand(command string, pipeData bool) *Command {
	return &Command{command: command, pipeData: pipeData}
}

func (h *Command) Name() string { return "command" }

// Run executes the command through the shell and reports a non-zero exit
// status as a CommandError.
func (h *Command) Run(payload string) error {
	cmd := exec.Command("/bin/bash", "-c", h.command)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if !h.pipeData {
		return h.wrapExit(cmd.Run())
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("opening stdin for %q: %w", h.command, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %q: %w", h.command, err)
	}

	// Write the payload fully, close stdin, then wait. The child's stdout
	// is drained by the exec package, so the write cannot deadlock against
	// a chatty child. The child is waited on even when the write fails.
	_, writeErr := io.WriteString(stdin, payload)
	closeErr := stdin.Close()

	if err := h.wrapExit(cmd.Wait()); err != nil {
		return err
	}
	// A child may exit successfully without draining its stdin; the broken
	// pipe that produces is not a hook failure. The exit status is the
	// contract.
	if writeErr != nil && !errors.Is(writeErr, syscall.EPIPE) {
		return fmt.Errorf("piping payload to %q: %w", h.command, writeErr)
	}
	return closeErr
}

func (h *Command) wrapExit(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &CommandError{Command: h.command, ExitCode: exitErr.ExitCode()}
	}
	return fmt.Errorf("running %q: %w", h.command, err)
}
