package hook

import (
	"fmt"

	"github.com/confwatch/confwatch/internal/fileutil"
)

// File writes the payload verbatim to a configured path, overwriting any
// existing file.
type File struct {
	outfile string
}

// NewFile creates a File hook targeting outfile. Home-directory shorthand is
// expanded once, at construction.
func NewFile(outfile string) *File {
	return &File{outfile: fileutil.ExpandTilde(outfile)}
}

func (h *File) Name() string { return "file" }

// Run writes the payload to the output file.
func (h *File) Run(payload string) error {
	if err := fileutil.AtomicWriteFile(h.outfile, []byte(payload), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", h.outfile, err)
	}
	return nil
}
