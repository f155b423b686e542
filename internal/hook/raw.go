package hook

import (
	"fmt"
	"io"
)

// Raw prints the payload to the output stream followed by a line terminator.
type Raw struct {
	out io.Writer
}

// NewRaw creates a Raw hook writing to out, normally stdout.
func NewRaw(out io.Writer) *Raw {
	return &Raw{out: out}
}

func (h *Raw) Name() string { return "raw" }

// Run writes the payload.
func (h *Raw) Run(payload string) error {
	_, err := fmt.Fprintln(h.out, payload)
	return err
}
