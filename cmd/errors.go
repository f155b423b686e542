package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"

	"github.com/confwatch/confwatch/internal/config"
	"github.com/confwatch/confwatch/internal/provider"
)

// BSD sysexits-style codes, so schedulers can tell a broken config apart
// from a flaky remote or a failing hook.
const (
	exitOK          = 0
	exitUnavailable = 69 // remote source unreachable
	exitSoftware    = 70 // hook or cache failure
	exitOSFile      = 72 // missing or unwritable files
	exitConfig      = 78 // malformed configuration
)

var errMissingFileFlag = errors.New("required flag \"file\" not set")

// HookFailedError wraps a failure from the hook pipeline with the name of
// the hook that failed. Hooks after the failing one never ran.
type HookFailedError struct {
	Hook string
	Err  error
}

func (e *HookFailedError) Error() string {
	return fmt.Sprintf("hook %s failed: %v", e.Hook, e.Err)
}

func (e *HookFailedError) Unwrap() error { return e.Err }

// ExitCode maps an error propagated out of a command to the process exit
// status. This is the only place exit statuses are decided; nothing below
// the command layer terminates the process.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}

	if errors.Is(err, provider.ErrUnavailable) {
		return exitUnavailable
	}

	if errors.Is(err, config.ErrMissingProvider) ||
		errors.Is(err, config.ErrAmbiguousProvider) ||
		errors.Is(err, errMissingFileFlag) {
		return exitConfig
	}
	var unknownProvider *config.UnknownProviderError
	if errors.As(err, &unknownProvider) {
		return exitConfig
	}
	var parseErr toml.ParseError
	if errors.As(err, &parseErr) {
		return exitConfig
	}

	// File problems before section problems: a section whose cause is a
	// missing file (say, a template body) reports as a file error.
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return exitOSFile
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return exitOSFile
	}

	var sectionErr *config.SectionError
	if errors.As(err, &sectionErr) {
		return exitConfig
	}

	return exitSoftware
}
