package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/Maceris/kvt/kvt"
)

// controlCommands are the commands accepted in control mode.
var controlCommands = []string{"help", "keys", "show", "edit", "clear", "quit"}

// isWordRune reports whether r can be part of an expression identifier.
func isWordRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBounds returns the identifier surrounding cursor and its byte offsets.
// The word is empty when the cursor is not touching an identifier.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain that the word at wordStart
// belongs to: "server.http" for the word "ho" in "x + server.http.ho". The
// chain is empty for a word that is not preceded by a dot.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimSuffix(prefix, ".")

	start := len(prefix)
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:start])
		if r != '.' && !isWordRune(r) {
			break
		}

		start -= size
	}

	return strings.Trim(prefix[start:], ".")
}

// candidates returns the names completing a word under parent: the keys of
// the branch parent names, or the top-level keys and expression builtins
// when parent is empty.
func candidates(root *kvt.Branch, parent string) []string {
	if root == nil {
		return nil
	}

	if parent == "" {
		names := append(root.Keys(), builtin.Names...)
		slices.Sort(names)

		return slices.Compact(names)
	}

	b := root

	for seg := range strings.SplitSeq(parent, ".") {
		if b = b.GetNode(seg); b == nil {
			return nil
		}
	}

	return b.Keys()
}

// findMatches ranks names against word. An empty word after a dot lists every
// member; an empty word elsewhere lists nothing so the hint stays visible.
func findMatches(word string, names []string, member bool) fuzzy.Matches {
	if len(names) == 0 {
		return nil
	}

	if word != "" {
		return fuzzy.Find(word, names)
	}

	if !member {
		return nil
	}

	all := make(fuzzy.Matches, len(names))
	for i, name := range names {
		all[i] = fuzzy.Match{Str: name, Index: i}
	}

	return all
}

// isFunction reports whether name is an expression builtin.
func isFunction(name string) bool {
	_, ok := builtin.Index[name]

	return ok
}

var (
	matchStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	selectedMatchStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("4")).
				Bold(true)
)

// renderBar lays out matches on one line no wider than width, ending with an
// ellipsis when some do not fit. The selected match is highlighted.
func renderBar(matches fuzzy.Matches, selected int, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const gap = "  "

	more := hintStyle.Render("...")

	var sb strings.Builder

	used := 0

	for i, m := range matches {
		item := renderMatch(m, i == selected)

		w := lipgloss.Width(item)
		if i > 0 {
			w += len(gap)
		}

		last := i == len(matches)-1
		if i > 0 && used+w+lipgloss.Width(more)+len(gap) > width && !last {
			sb.WriteString(gap + more)

			break
		}

		if i > 0 {
			sb.WriteString(gap)
		}

		sb.WriteString(item)

		used += w
	}

	return sb.String()
}

// renderMatch renders one candidate with its matched runes emphasized.
// Builtins carry a "()" suffix that is not part of the completion.
func renderMatch(m fuzzy.Match, selected bool) string {
	base, emphasis := suggestionStyle, matchStyle
	if selected {
		base, emphasis = selectedStyle, selectedMatchStyle
	}

	var sb strings.Builder

	for i, r := range m.Str {
		if slices.Contains(m.MatchedIndexes, i) {
			sb.WriteString(emphasis.Render(string(r)))
		} else {
			sb.WriteString(base.Render(string(r)))
		}
	}

	if isFunction(m.Str) {
		sb.WriteString(base.Render("()"))
	}

	return sb.String()
}
