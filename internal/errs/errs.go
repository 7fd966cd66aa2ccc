// Package errs defines the error kinds reported by the usage report commands.
package errs

import (
	"errors"
	"fmt"
)

// Code identifies the kind of failure. Codes are strings so they read well in JSON output.
type Code string

const (
	// CodeConfiguration indicates a missing or malformed profile or setting.
	CodeConfiguration Code = "CONFIGURATION_ERROR"

	// CodeList indicates the bucket listing call failed.
	CodeList Code = "LIST_ERROR"

	// CodeDateParse indicates a date argument did not match YYYY-MM-DD.
	CodeDateParse Code = "DATE_PARSE_ERROR"

	// CodeDownload indicates a transfer or local write failed.
	CodeDownload Code = "DOWNLOAD_ERROR"

	// CodeUsage indicates the command line was misused.
	CodeUsage Code = "USAGE_ERROR"

	CodeUnknown Code = "UNKNOWN"
)

// Error carries a Code, the operation that failed and the underlying cause.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Op
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Op == "" && t.Err == nil
}

// New returns an error of the given kind with a formatted message.
func New(code Code, format string, args ...any) error {
	return &Error{Code: code, Err: fmt.Errorf(format, args...)}
}

// Wrap annotates err with a code and an operation name. A nil err stays nil.
func Wrap(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Op: op, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// Is reports whether err's chain contains an error of the given kind.
func Is(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}
