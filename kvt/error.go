package kvt

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Kind classifies an [Error]. Errors of equal kind match under [errors.Is].
type Kind uint8

const (
	KindUnknown Kind = iota
	KindUnknownTypeTag
	KindUnknownArrayPrefix
	KindUnsupportedOperation
	KindInvalidTypePairing
	KindTypeMismatch
	KindNotFound
	KindLoweringFailure
	KindDecodeTruncated
	KindDecodeUnknownTag
	KindDecodeInvalid
	KindParse
	KindReadInput
	KindWriteOutput
)

var kindNames = [...]string{
	KindUnknown:              "unknown",
	KindUnknownTypeTag:       "unknown type tag",
	KindUnknownArrayPrefix:   "unknown array prefix",
	KindUnsupportedOperation: "unsupported operation",
	KindInvalidTypePairing:   "invalid type pairing",
	KindTypeMismatch:         "type mismatch",
	KindNotFound:             "not found",
	KindLoweringFailure:      "lowering failure",
	KindDecodeTruncated:      "truncated input",
	KindDecodeUnknownTag:     "unknown tag in input",
	KindDecodeInvalid:        "invalid input",
	KindParse:                "parse error",
	KindReadInput:            "failed to read input",
	KindWriteOutput:          "failed to write output",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Predefined errors (sentinel values).
var (
	ErrUnknownTypeTag       = newError(KindUnknownTypeTag)
	ErrUnknownArrayPrefix   = newError(KindUnknownArrayPrefix)
	ErrUnsupportedOperation = newError(KindUnsupportedOperation)
	ErrInvalidTypePairing   = newError(KindInvalidTypePairing)
	ErrTypeMismatch         = newError(KindTypeMismatch)
	ErrNotFound             = newError(KindNotFound)
	ErrLoweringFailure      = newError(KindLoweringFailure)
	ErrDecodeTruncated      = newError(KindDecodeTruncated)
	ErrDecodeUnknownTag     = newError(KindDecodeUnknownTag)
	ErrDecodeInvalid        = newError(KindDecodeInvalid)
	ErrParse                = newError(KindParse)
	ErrReadInput            = newError(KindReadInput)
	ErrWriteOutput          = newError(KindWriteOutput)
)

// Error is a classified error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	kind  Kind
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

func newError(kind Kind) *Error {
	return &Error{kind: kind, msg: kind.String()}
}

// WrapError converts err into an [*Error]. Errors already of that type are
// returned unchanged; others are wrapped with [KindUnknown].
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Kind returns the classification of e.
func (e *Error) Kind() Kind { return e.kind }

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an [*Error] of the same, known kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.kind != KindUnknown && t.kind == e.kind
}

// Attrs returns a copy of the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr {
	return append([]slog.Attr(nil), e.attrs...)
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error of the same kind wrapping err.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		kind:  e.kind,
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		kind:  e.kind,
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}
