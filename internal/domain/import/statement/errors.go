package statement

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a parse failed.
type ErrorKind string

const (
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	KindDecodeFailure     ErrorKind = "decode_failure"
	KindEmptyExtraction   ErrorKind = "empty_extraction"
	KindMissingCapability ErrorKind = "missing_capability"
	KindInternal          ErrorKind = "internal_extraction_error"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported statement format")
	ErrDecodeFailure     = errors.New("statement bytes could not be decoded")
	ErrEmptyExtraction   = errors.New("no usable text extracted")
	ErrMissingCapability = errors.New("format reader not available")
	ErrInternal          = errors.New("extraction failed")
)

// Sentinel returns the package-level error matching the kind.
func (k ErrorKind) Sentinel() error {
	switch k {
	case KindUnsupportedFormat:
		return ErrUnsupportedFormat
	case KindDecodeFailure:
		return ErrDecodeFailure
	case KindEmptyExtraction:
		return ErrEmptyExtraction
	case KindMissingCapability:
		return ErrMissingCapability
	default:
		return ErrInternal
	}
}

// ExtractionError is the typed error behind every failed Result.
// errors.Is matches both the kind's sentinel and the wrapped cause.
type ExtractionError struct {
	Kind   ErrorKind
	Format string
	Cause  error
}

func (e *ExtractionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %v", e.Format, e.Kind.Sentinel())
	}
	return fmt.Sprintf("%s: %v: %v", e.Format, e.Kind.Sentinel(), e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

func (e *ExtractionError) Is(target error) bool {
	return target == e.Kind.Sentinel()
}
