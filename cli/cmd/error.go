package cmd

import (
	"errors"
	"log/slog"
)

// Error is a command failure. It names the step that failed, wraps the cause
// and carries attributes for the log record written by main.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError returns an [Error] with the given message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func (e *Error) Error() string {
	switch {
	case e.err == nil:
		return e.msg
	case e.msg == "":
		return e.err.Error()
	default:
		return e.msg + ": " + e.err.Error()
	}
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an [*Error] with the same message, so a
// sentinel matches every error derived from it by Wrap or With.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue groups the message, the attributes and the cause. A cause that is
// itself a [slog.LogValuer], such as a kvt error, is logged as a nested group
// instead of a flat string.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	attrs = append(attrs, e.attrs...)

	var lv slog.LogValuer

	switch {
	case e.err == nil:
	case errors.As(e.err, &lv):
		attrs = append(attrs, slog.Any("cause", lv))
	default:
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(attrs...)
}

// Wrap returns a copy of e with cause err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: append(e.attrs[:len(e.attrs):len(e.attrs)], attrs...),
	}
}

var (
	ErrReadSource  = NewError("read source")
	ErrWriteOutput = NewError("write output")
	ErrWriteConfig = NewError("write configuration file")
	ErrFileExists  = NewError("file exists (use --force to overwrite)")
	ErrQuery       = NewError("evaluate query")
	ErrDifferent   = NewError("trees differ")
)
