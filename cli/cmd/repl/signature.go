package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// signatures lists the parameters of the expression builtins shown as hints
// while typing a call.
var signatures = map[string][]string{
	"len":        {"v"},
	"all":        {"array", "predicate"},
	"any":        {"array", "predicate"},
	"one":        {"array", "predicate"},
	"none":       {"array", "predicate"},
	"map":        {"array", "mapper"},
	"filter":     {"array", "predicate"},
	"find":       {"array", "predicate"},
	"findIndex":  {"array", "predicate"},
	"findLast":   {"array", "predicate"},
	"count":      {"array", "predicate"},
	"groupBy":    {"array", "mapper"},
	"sortBy":     {"array", "mapper", "order"},
	"sort":       {"array", "order"},
	"reduce":     {"array", "reducer", "initial"},
	"sum":        {"array"},
	"mean":       {"array"},
	"median":     {"array"},
	"min":        {"values"},
	"max":        {"values"},
	"first":      {"array"},
	"last":       {"array"},
	"take":       {"array", "n"},
	"reverse":    {"array"},
	"uniq":       {"array"},
	"concat":     {"arrays"},
	"flatten":    {"array"},
	"keys":       {"map"},
	"values":     {"map"},
	"join":       {"array", "separator"},
	"split":      {"string", "separator"},
	"replace":    {"string", "old", "new"},
	"repeat":     {"string", "n"},
	"indexOf":    {"string", "substring"},
	"hasPrefix":  {"string", "prefix"},
	"hasSuffix":  {"string", "suffix"},
	"trim":       {"string", "chars"},
	"trimPrefix": {"string", "prefix"},
	"trimSuffix": {"string", "suffix"},
	"upper":      {"string"},
	"lower":      {"string"},
	"abs":        {"n"},
	"ceil":       {"n"},
	"floor":      {"n"},
	"round":      {"n"},
	"int":        {"v"},
	"float":      {"v"},
	"string":     {"v"},
	"type":       {"v"},
	"toJSON":     {"v"},
	"fromJSON":   {"string"},
}

// call describes the innermost function call enclosing the cursor.
type call struct {
	name string
	arg  int
}

// enclosingCall finds the call whose argument list contains cursor. It
// reports false when the cursor is not inside the parentheses of a named
// call.
func enclosingCall(input string, cursor int) (call, bool) {
	cursor = min(max(cursor, 0), len(input))

	depth := 0
	open := -1

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')', ']', '}':
			depth++
		case '(', '[', '{':
			if depth == 0 && input[i] == '(' {
				open = i
			} else if depth > 0 {
				depth--
			} else {
				return call{}, false
			}
		}
	}

	if open < 0 {
		return call{}, false
	}

	name, _, _ := wordBounds(input, open)
	if name == "" {
		return call{}, false
	}

	c := call{name: name}
	depth = 0

	for _, ch := range input[open+1 : cursor] {
		switch ch {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				c.arg++
			}
		}
	}

	return c, true
}

var (
	signatureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	funcNameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	argStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// renderSignature renders the signature of c with its current argument
// emphasized. It returns "" for functions without a known signature.
func renderSignature(c call) string {
	params, ok := signatures[c.name]
	if !ok {
		return ""
	}

	parts := make([]string, len(params))

	for i, p := range params {
		if i == c.arg {
			parts[i] = argStyle.Render(p)
		} else {
			parts[i] = signatureStyle.Render(p)
		}
	}

	return funcNameStyle.Render(c.name) +
		signatureStyle.Render("(") +
		strings.Join(parts, signatureStyle.Render(", ")) +
		signatureStyle.Render(")")
}
