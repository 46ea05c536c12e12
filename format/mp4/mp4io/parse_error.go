package mp4io

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTruncated               = errors.New("mp4io: truncated")
	ErrUnsupportedExtendedSize = errors.New("mp4io: unsupported extended atom size")
	ErrHeaderMismatch          = errors.New("mp4io: header mismatch")
	ErrMissingRequiredChild    = errors.New("mp4io: missing required child")
	ErrFramingViolation        = errors.New("mp4io: framing violation")
	ErrInvalidEncoding         = errors.New("mp4io: invalid string encoding")
	ErrUnknownVariant          = errors.New("mp4io: unknown variant")
	ErrIndexOutOfRange         = errors.New("mp4io: index out of range")
)

// HeaderMismatchError reports a leaf atom whose tag is not the one its role expects.
type HeaderMismatchError struct {
	Offset   uint64
	Expected Tag
	Actual   Tag
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %q at offset %d, found %q", ErrHeaderMismatch, e.Expected, e.Offset, e.Actual)
}

func (e *HeaderMismatchError) Is(target error) bool {
	return target == ErrHeaderMismatch
}

// UnknownVariantError reports a tagged union member this package cannot parse.
type UnknownVariantError struct {
	Union  string
	Offset uint64
	Tag    Tag
}

func (e *UnknownVariantError) Error() string {
	b := e.Tag.Bytes()
	return fmt.Sprintf("%s: %s %q (% x) at offset %d", ErrUnknownVariant, e.Union, e.Tag, b[:], e.Offset)
}

func (e *UnknownVariantError) Is(target error) bool {
	return target == ErrUnknownVariant
}

// ParseError locates a failure inside the atom tree. Nested parses wrap
// each other, so Error prints the path from the outermost atom inwards.
type ParseError struct {
	Debug  string
	Offset uint64
	Err    error
}

func (p *ParseError) Error() string {
	s := []string{}
	var cause error = p
	for {
		pe, ok := cause.(*ParseError) // nolint: errorlint
		if !ok {
			break
		}
		s = append(s, fmt.Sprintf("%s:%d", pe.Debug, pe.Offset))
		cause = pe.Err
	}
	return "mp4io: parse error: " + strings.Join(s, ",") + ": " + cause.Error()
}

func (p *ParseError) Unwrap() error {
	return p.Err
}

func parseErr(debug string, offset uint64, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Debug: debug, Offset: offset, Err: err}
}
