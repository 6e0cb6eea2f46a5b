package mrd

import (
	"errors"
	"fmt"
)

// Failure kinds reported by the decoder. Match them with errors.Is; use
// errors.As with *DecodeError for the byte offsets and lengths involved.
var (
	ErrTruncatedHeader     = errors.New("truncated header")
	ErrUnknownSampleFormat = errors.New("unknown sample format")
	ErrTruncatedPayload    = errors.New("truncated payload")
	ErrDimensionOverflow   = errors.New("dimension overflow")
	ErrInvalidExtent       = errors.New("invalid extent")
)

// ErrIndexOutOfRange is the panic value of Array accessors given coordinates
// outside the array.
var ErrIndexOutOfRange = errors.New("mrd: index out of range")

// DecodeError carries the context of a malformed MRD buffer
type DecodeError struct {
	// Kind is one of the Err* sentinels above
	Kind error

	// Offset is the byte offset the failing field or section starts at
	Offset int

	// Declared is the byte length (or end offset) the header asks for
	Declared int

	// Available is the byte length actually present
	Available int

	// Code is the offending sample type code, for ErrUnknownSampleFormat
	Code int16

	// Field names the header field involved, if any
	Field string

	// Value is the offending field value, for ErrInvalidExtent
	Value int64
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case ErrTruncatedHeader:
		return fmt.Sprintf("mrd: %v: need %d bytes, have %d", e.Kind, e.Declared, e.Available)
	case ErrUnknownSampleFormat:
		return fmt.Sprintf("mrd: %v: code %d at offset %d (known codes %v)", e.Kind, e.Code, e.Offset, SampleFormatCodes())
	case ErrTruncatedPayload:
		return fmt.Sprintf("mrd: %v: data at offset %d declares end %d, file has %d bytes", e.Kind, e.Offset, e.Declared, e.Available)
	case ErrDimensionOverflow:
		return fmt.Sprintf("mrd: %v: extents overflow at field %s", e.Kind, e.Field)
	case ErrInvalidExtent:
		return fmt.Sprintf("mrd: %v: %s=%d at offset %d", e.Kind, e.Field, e.Value, e.Offset)
	}
	return fmt.Sprintf("mrd: %v", e.Kind)
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}
