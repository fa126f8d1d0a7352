// Package repl implements an interactive explorer for KVT trees. Expressions
// typed at the prompt are evaluated over the tree with the query package;
// control commands list, show and edit the tree.
package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Maceris/kvt/kvt"
	"github.com/Maceris/kvt/log"
	"github.com/Maceris/kvt/query"
)

// Mode selects how a submitted line is interpreted.
type Mode int

const (
	ModeExpr Mode = iota
	ModeControl
)

const (
	exprPrompt    = "➜ "
	controlPrompt = " :"
	defaultWidth  = 80
	showIndent    = 2
)

const helpText = `
: Commands (press Esc to toggle mode):

  help         Print this help
  keys [expr]  List the children of the tree, or of the branch expr yields
  show [expr]  Print the tree, or the value expr yields
  edit         Edit the tree in $EDITOR
  clear        Clear the screen
  quit         Exit

Usage:
  Type an expression to evaluate it; top-level keys are variables
  Press Tab / Shift-Tab to cycle through completions, Enter to accept
  Press Esc to toggle between expression and command modes
  Use Up/Down to walk the history
  Press Ctrl+C on an empty line or Ctrl+D to exit
`

var (
	promptStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	controlPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle      = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("4"))
)

type (
	editedMsg    struct{ root *kvt.Branch }
	editEmptyMsg struct{}
	editQuitMsg  struct{}
	editErrMsg   struct{ err error }
)

// buffer is the saved input of the inactive mode.
type buffer struct {
	text   string
	cursor int
}

type model struct {
	ctx     context.Context //nolint:containedctx
	input   textinput.Model
	root    *kvt.Branch
	logger  log.Logger
	history *History
	histIdx int

	matches   fuzzy.Matches
	wordStart int
	wordEnd   int
	selected  int // index into matches while cycling, else -1
	cycling   bool
	before    buffer // input before cycling began

	width    int
	mode     Mode
	saved    [2]buffer
	quitting bool
}

// Run explores root interactively until the user quits or ctx is done.
// Submitted lines are recorded in history.
func Run(
	ctx context.Context,
	root *kvt.Branch,
	history *History,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if root == nil {
		return ErrNoTree
	}

	if history == nil {
		history = NewHistory("")
	}

	logger.TraceContext(ctx, "repl start",
		slog.Int("keys", root.Len()),
		slog.Int("history", history.Len()),
	)

	opts := []tea.ProgramOption{tea.WithContext(ctx)}

	// The tree may have been read from a pipe.
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		opts = append(opts, tea.WithInputTTY())
	}

	_, err = tea.NewProgram(newModel(ctx, root, history, logger), opts...).Run()

	return err
}

func newModel(
	ctx context.Context,
	root *kvt.Branch,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(exprPrompt)
	ti.CharLimit = 1024
	ti.Width = defaultWidth
	ti.Focus()

	return model{
		ctx:      ctx,
		input:    ti,
		root:     root,
		logger:   logger,
		history:  history,
		histIdx:  history.Len(),
		selected: -1,
		width:    defaultWidth,
		mode:     ModeExpr,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(exprPrompt) - 2

		return m, nil

	case editedMsg:
		m.root = msg.root
		m.refresh()

		return m, tea.Println(resultStyle.Render("tree updated"))

	case editEmptyMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editQuitMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.hint() + "\n"
}

// hint returns the line shown below the input.
func (m model) hint() string {
	value := m.input.Value()

	if m.histIdx < m.history.Len() {
		return hintStyle.Render(
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.histIdx+1)) +
				"/" + strconv.Itoa(m.history.Len()),
		)
	}

	if strings.TrimSpace(value) == "" {
		if m.mode == ModeControl {
			return hintStyle.Render("Type: " + strings.Join(controlCommands, ", ") + " (press Esc to return)")
		}

		return hintStyle.Render("Type an expression or press Esc for commands")
	}

	if m.mode == ModeExpr && len(m.matches) == 0 {
		if c, ok := enclosingCall(value, m.input.Position()); ok {
			return renderSignature(c)
		}
	}

	return renderBar(m.matches, m.selected, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx, "repl key", slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.setInput("")

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.cycling {
			m.cycling = false
			m.refresh()

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		m.cycle(1)

		return m, nil

	case tea.KeyShiftTab:
		m.cycle(-1)

		return m, nil

	case tea.KeyUp:
		m.recall(m.histIdx - 1)

		return m, nil

	case tea.KeyDown:
		m.recall(m.histIdx + 1)

		return m, nil

	case tea.KeyEsc:
		if m.cycling {
			m.cycling = false
			m.input.SetValue(m.before.text)
			m.input.SetCursor(m.before.cursor)
			m.refresh()

			return m, nil
		}

		m.switchMode(1 - m.mode)

		return m, nil
	}

	var cmd tea.Cmd

	m.cycling = false
	m.histIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh()

	return m, cmd
}

// refresh recomputes the completions for the word at the cursor.
func (m *model) refresh() {
	value := m.input.Value()

	word, start, end := wordBounds(value, m.input.Position())
	m.wordStart, m.wordEnd = start, end

	if m.mode == ModeControl {
		m.matches = nil
		if start == 0 && word != "" {
			m.matches = fuzzy.Find(word, controlCommands)
		}
	} else {
		parent := parentPath(value, start)
		m.matches = findMatches(word, candidates(m.root, parent), parent != "")
	}

	if !m.cycling {
		m.selected = -1
	}
}

// cycle moves the selection by step through the matches and places the
// selected name in the input. A single match is accepted immediately.
func (m *model) cycle(step int) {
	n := len(m.matches)
	if n == 0 {
		return
	}

	if n == 1 {
		m.replaceWord(m.matches[0].Str)
		m.cycling = false
		m.refresh()

		return
	}

	if !m.cycling {
		m.cycling = true
		m.before = buffer{m.input.Value(), m.input.Position()}
		m.selected = -1

		if step < 0 {
			m.selected = 0
		}
	}

	m.selected = (m.selected + step + n) % n
	m.replaceWord(m.matches[m.selected].Str)
}

func (m *model) replaceWord(s string) {
	value := m.input.Value()

	m.input.SetValue(value[:m.wordStart] + s + value[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(s))
	m.wordEnd = m.wordStart + len(s)
}

func (m *model) setInput(s string) {
	m.cycling = false
	m.histIdx = m.history.Len()
	m.input.SetValue(s)
	m.input.SetCursor(len(s))
	m.refresh()
}

// recall loads history entry i, switching to its mode. Moving past the
// newest entry clears the input.
func (m *model) recall(i int) {
	if i < 0 {
		return
	}

	e, ok := m.history.At(i)
	if !ok {
		m.setInput("")

		return
	}

	if e.Mode != m.mode {
		m.switchMode(e.Mode)
	}

	m.histIdx = i
	m.input.SetValue(e.Line)
	m.input.SetCursor(len(e.Line))
	m.refresh()
}

// switchMode activates mode, saving the input of the current mode and
// restoring the input last seen in the new one.
func (m *model) switchMode(mode Mode) {
	m.saved[m.mode] = buffer{m.input.Value(), m.input.Position()}
	m.mode = mode

	if mode == ModeControl {
		m.input.Prompt = controlPromptStyle.Render(controlPrompt)
	} else {
		m.input.Prompt = promptStyle.Render(exprPrompt)
	}

	m.input.SetValue(m.saved[mode].text)
	m.input.SetCursor(m.saved[mode].cursor)
	m.cycling = false
	m.refresh()
}

func (m model) submit() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	if err := m.history.Add(line, m.mode); err != nil {
		m.logger.WarnContext(m.ctx, "repl history", slog.Any("error", err))
	}

	m.saved = [2]buffer{}
	m.setInput("")

	if m.mode == ModeControl {
		return m.control(line)
	}

	echo := tea.Println(promptStyle.Render(exprPrompt) + inputStyle.Render(line))

	out, err := m.evaluate(line)
	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(out)))
}

// evaluate runs an expression and renders its result on one line.
func (m model) evaluate(line string) (string, error) {
	result, err := query.Evaluate(line, m.root)

	m.logger.TraceContext(m.ctx, "repl eval",
		slog.String("expr", line),
		slog.String("type", fmt.Sprintf("%T", result)),
		slog.Bool("ok", err == nil),
	)

	if err != nil {
		return "", err
	}

	return query.Format(result), nil
}

func (m model) control(line string) (model, tea.Cmd) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	echo := tea.Println(controlPromptStyle.Render(controlPrompt) + inputStyle.Render(line))

	m.logger.TraceContext(m.ctx, "repl command",
		slog.String("command", name),
		slog.String("arg", arg),
	)

	var (
		out string
		err error
	)

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		out = helpText

	case "k", "keys":
		out, err = m.keys(arg)

	case "s", "show":
		out, err = m.show(arg)

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(errorStyle.Render("unknown command: " + name + " (try 'help')"))
	}

	if err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(out))
}

// branchOf returns root, or the branch that expr yields.
func (m model) branchOf(expr string) (*kvt.Branch, error) {
	if expr == "" {
		return m.root, nil
	}

	result, err := query.Evaluate(expr, m.root)
	if err != nil {
		return nil, err
	}

	b, ok := query.Tree(result)
	if !ok {
		return nil, fmt.Errorf("%s is %T, not a branch", expr, result)
	}

	return b, nil
}

// keys lists the children of a branch with their types.
func (m model) keys(expr string) (string, error) {
	b, err := m.branchOf(expr)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	for _, key := range b.Keys() {
		typ, _ := b.TypeOf(key)
		sb.WriteString("  " + key + " " + hintStyle.Render(typ.String()) + "\n")
	}

	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// show renders a branch as indented text, or any other result on one line.
func (m model) show(expr string) (string, error) {
	if expr != "" {
		result, err := query.Evaluate(expr, m.root)
		if err != nil {
			return "", err
		}

		b, ok := query.Tree(result)
		if !ok {
			return query.Format(result), nil
		}

		return indented(b), nil
	}

	return indented(m.root), nil
}

func indented(b *kvt.Branch) string {
	var sb strings.Builder

	_ = kvt.Format(&sb, b, kvt.WithIndent(showIndent))

	return sb.String()
}

func (m model) edit() tea.Cmd {
	c := &editCommand{ctx: m.ctx, root: m.root, logger: m.logger}

	return tea.Exec(c, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editQuitMsg{}
		case err != nil:
			return editErrMsg{err: err}
		case c.edited == nil:
			return editEmptyMsg{}
		default:
			return editedMsg{root: c.edited}
		}
	})
}
