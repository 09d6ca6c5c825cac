package model

import (
	"errors"
	"strings"
)

// Error classes. Every failure raised by the tagging pipeline is marked with
// exactly one of these so callers can classify it with errors.Is.
var (
	ErrArgument        = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrEmptyResult     = errors.New("no audio files found")
	ErrImageProcessing = errors.New("image processing failed")
	ErrTagWrite        = errors.New("tag write failed")
)

// PathError records a failure against the path it concerns.
type PathError struct {
	// Kind is one of the Err* markers above.
	Kind error

	// Op is the operation that failed, e.g. "open", "decode", "save".
	Op string

	// Path is the file, folder or URL the operation targeted.
	Path string

	// Err is the underlying cause, possibly nil.
	Err error
}

func (e *PathError) Error() string {
	parts := make([]string, 0, 4)
	if e.Kind != nil {
		parts = append(parts, e.Kind.Error())
	}
	if op := strings.TrimSpace(e.Op); op != "" {
		parts = append(parts, op)
	}
	if e.Path != "" {
		parts = append(parts, "'"+e.Path+"'")
	}
	msg := strings.Join(parts, ": ")
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind marker and the underlying cause.
func (e *PathError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Wrap builds a PathError. A nil kind is treated as ErrTagWrite, the most
// generic per-file failure.
func Wrap(kind error, op, path string, err error) error {
	if kind == nil {
		kind = ErrTagWrite
	}
	return &PathError{Kind: kind, Op: op, Path: path, Err: err}
}

// Kind returns the marker of err, or nil if err carries none.
func Kind(err error) error {
	for _, k := range []error{ErrArgument, ErrNotFound, ErrEmptyResult, ErrImageProcessing, ErrTagWrite} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
