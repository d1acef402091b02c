// Package output writes the machine-readable results of the commands and
// maps errors to process exit codes.
package output

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"os"

	"github.com/klytics/contentkit/cmd/version"
	"github.com/klytics/contentkit/internal/errors"
)

// Process exit codes.
const (
	ExitOK          = 0 // success, or no file selected
	ExitUserError   = 1 // bad flags, missing sheet, invalid config or hierarchy
	ExitSystemError = 2 // a document or workbook could not be read or written
)

// Stdout is where JSON results go.
var Stdout io.Writer = os.Stdout

// JSONResult is the envelope every command prints with --json.
type JSONResult struct {
	OK      bool   `json:"ok"`
	Command string `json:"command"`
	Version string `json:"version"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// ExitCode classifies err. A nil error or a declined file selection is
// ExitOK, I/O failures are ExitSystemError and everything else is a user
// error.
func ExitCode(err error) int {
	var ioErr *errors.IOError
	switch {
	case err == nil, stderrors.Is(err, errors.ErrNoFileSelected):
		return ExitOK
	case stderrors.As(err, &ioErr):
		return ExitSystemError
	default:
		return ExitUserError
	}
}

func kind(err error) string {
	var ioErr *errors.IOError
	switch {
	case stderrors.As(err, &ioErr):
		return "io"
	case stderrors.Is(err, errors.ErrNotFound):
		return "not_found"
	case stderrors.Is(err, errors.ErrInvalidInput):
		return "invalid_input"
	}
	return ""
}

// PrintJSON writes a success envelope carrying data.
func PrintJSON(cmd string, data any) error {
	return encode(JSONResult{OK: true, Command: cmd, Version: version.Version, Data: data})
}

// PrintJSONError writes a failure envelope for err and returns its exit code.
func PrintJSONError(cmd string, err error) int {
	code := ExitCode(err)
	// Nothing sensible is left to report if stdout itself is broken.
	_ = encode(JSONResult{
		Command: cmd,
		Version: version.Version,
		Error:   err.Error(),
		Kind:    kind(err),
		Code:    code,
	})
	return code
}

func encode(v JSONResult) error {
	enc := json.NewEncoder(Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
