package transcode

import (
	"errors"
	"fmt"

	"github.com/BadgerOps/tclabpack/internal/codec"
)

var (
	// ErrSourceNotFound means the input path is missing or not a regular file.
	ErrSourceNotFound = errors.New("source not found")
	// ErrIO covers any read, write, close or remove failure while streaming.
	ErrIO = errors.New("i/o failure")

	ErrUnknownCodec          = codec.ErrUnknownCodec
	ErrUnrecognizedExtension = codec.ErrUnrecognizedExtension
	ErrBackendUnavailable    = codec.ErrBackendUnavailable
)

// Error is returned by Compress and Decompress. Kind is one of the package
// sentinels; Err is the underlying cause.
type Error struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil || e.Err == e.Kind {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op, path string, kind, err error) *Error {
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}

// kindOf picks the sentinel an error from the codec package already carries,
// defaulting to ErrIO.
func kindOf(err error) error {
	for _, k := range []error{ErrBackendUnavailable, ErrUnknownCodec, ErrUnrecognizedExtension} {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrIO
}
