package codepoint

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEncoding  = errors.New("codepoint: invalid encoding")
	ErrInvalidCodePoint = errors.New("codepoint: invalid code point")
)

// Reason names why a byte sequence was rejected.
type Reason string

const (
	ReasonTruncated       Reason = "truncated"
	ReasonBadContinuation Reason = "bad continuation byte"
	ReasonOverlong        Reason = "overlong encoding"
	ReasonSurrogate       Reason = "surrogate code point"
	ReasonInvalidLead     Reason = "invalid leading byte"
	ReasonOutOfRange      Reason = "code point out of range"
)

// InvalidEncodingError reports malformed UTF-8 at Offset.
type InvalidEncodingError struct {
	Offset int
	Reason Reason
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("codepoint: invalid encoding at offset %d: %s", e.Offset, e.Reason)
}

func (e *InvalidEncodingError) Is(target error) bool {
	return target == ErrInvalidEncoding
}

// InvalidCodePointError reports a rune that has no UTF-8 encoding.
type InvalidCodePointError struct {
	Index int
	Rune  rune
}

func (e *InvalidCodePointError) Error() string {
	return fmt.Sprintf("codepoint: invalid code point %#x at index %d", int32(e.Rune), e.Index)
}

func (e *InvalidCodePointError) Is(target error) bool {
	return target == ErrInvalidCodePoint
}

func invalid(offset int, reason Reason) error {
	return &InvalidEncodingError{Offset: offset, Reason: reason}
}
