package syntax

import (
	"slices"
	"strconv"
	"strings"
)

// Error is a syntax error. Parsing stops at the first one.
type Error struct {
	Pos      Position
	Msg      string
	Expected []string // Optional expected tokens
	Source   string   // The original source input
}

func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString("syntax error at line ")
	sb.WriteString(strconv.Itoa(e.Pos.Line))
	sb.WriteString(", column ")
	sb.WriteString(strconv.Itoa(e.Pos.Column))
	sb.WriteString(": ")
	sb.WriteString(e.Msg)

	if len(e.Expected) > 0 {
		exp := make([]string, len(e.Expected))
		for i, x := range e.Expected {
			exp[i] = strconv.Quote(x)
		}

		slices.Sort(exp)

		sb.WriteString(" (expected ")
		sb.WriteString(strings.Join(exp, ", "))
		sb.WriteString(")")
	}

	return sb.String()
}

// Snippet returns the offending source line followed by a caret under the
// error column, or "" when the position lies outside the source.
func (e *Error) Snippet() string {
	lines := strings.Split(e.Source, "\n")

	if e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	line := strings.TrimRight(lines[e.Pos.Line-1], "\r")

	src.WriteString("  ")
	src.WriteString(strconv.Itoa(e.Pos.Line))
	src.WriteString(" | ")
	src.WriteString(line)
	src.WriteRune('\n')

	// 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(strconv.Itoa(e.Pos.Line))+5)

	if e.Pos.Column > 0 {
		padding += strings.Repeat(" ", e.Pos.Column-1)
	}

	src.WriteString(padding + "^\n")

	return src.String()
}
