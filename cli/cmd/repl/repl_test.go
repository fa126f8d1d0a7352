package repl

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Maceris/kvt/log"
)

func typeText(m model, s string) model {
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})

	return m
}

func press(m model, k tea.KeyType) (model, tea.Cmd) {
	return m.handleKey(tea.KeyMsg{Type: k})
}

func TestRunNoTree(t *testing.T) {
	err := Run(context.Background(), nil, nil, log.Make(io.Discard))
	if !errors.Is(err, ErrNoTree) {
		t.Errorf("Run(nil) error = %v, want %v", err, ErrNoTree)
	}
}

func TestModelCompleteSingle(t *testing.T) {
	m := typeText(testModel(t), "server.hn")
	m, _ = press(m, tea.KeyTab)

	if got, want := m.input.Value(), "server.hostname"; got != want {
		t.Errorf("input = %q, want %q", got, want)
	}

	if m.cycling {
		t.Error("single match left the model cycling")
	}
}

func TestModelCycle(t *testing.T) {
	m := typeText(testModel(t), "server.ho")
	if len(m.matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(m.matches))
	}

	first, second := m.matches[0].Str, m.matches[1].Str

	m, _ = press(m, tea.KeyTab)
	if got := m.input.Value(); got != "server."+first {
		t.Errorf("after Tab input = %q, want %q", got, "server."+first)
	}

	m, _ = press(m, tea.KeyTab)
	if got := m.input.Value(); got != "server."+second {
		t.Errorf("after second Tab input = %q, want %q", got, "server."+second)
	}

	m, _ = press(m, tea.KeyShiftTab)
	if got := m.input.Value(); got != "server."+first {
		t.Errorf("after Shift-Tab input = %q, want %q", got, "server."+first)
	}

	m, _ = press(m, tea.KeyEsc)
	if got := m.input.Value(); got != "server.ho" {
		t.Errorf("after Esc input = %q, want %q", got, "server.ho")
	}

	if m.mode != ModeExpr {
		t.Error("Esc while cycling changed mode")
	}

	m, _ = press(m, tea.KeyTab)
	m, _ = press(m, tea.KeyEnter)

	if m.cycling {
		t.Error("Enter did not accept the completion")
	}

	if got := m.input.Value(); got != "server."+first {
		t.Errorf("accepted input = %q, want %q", got, "server."+first)
	}
}

func TestModelModeToggle(t *testing.T) {
	m := typeText(testModel(t), "ratio")

	m, _ = press(m, tea.KeyEsc)
	if m.mode != ModeControl || m.input.Value() != "" {
		t.Fatalf("after Esc: mode=%v input=%q, want control with empty input",
			m.mode, m.input.Value())
	}

	m = typeText(m, "ke")
	if len(m.matches) != 1 || m.matches[0].Str != "keys" {
		t.Errorf("control matches = %v, want [keys]", m.matches)
	}

	m, _ = press(m, tea.KeyEsc)
	if m.mode != ModeExpr || m.input.Value() != "ratio" {
		t.Errorf("after second Esc: mode=%v input=%q, want expr with %q",
			m.mode, m.input.Value(), "ratio")
	}

	m, _ = press(m, tea.KeyEsc)
	if got := m.input.Value(); got != "ke" {
		t.Errorf("control input restored as %q, want %q", got, "ke")
	}
}

func TestModelHistory(t *testing.T) {
	m := typeText(testModel(t), "name")
	m, _ = press(m, tea.KeyEnter)

	if m.input.Value() != "" {
		t.Errorf("input after submit = %q, want empty", m.input.Value())
	}

	m, _ = press(m, tea.KeyEsc)
	m = typeText(m, "keys")
	m, _ = press(m, tea.KeyEnter)
	m, _ = press(m, tea.KeyEsc)

	if m.history.Len() != 2 {
		t.Fatalf("history len = %d, want 2", m.history.Len())
	}

	steps := []struct {
		key   tea.KeyType
		input string
		mode  Mode
	}{
		{tea.KeyUp, "keys", ModeControl},
		{tea.KeyUp, "name", ModeExpr},
		{tea.KeyUp, "name", ModeExpr},
		{tea.KeyDown, "keys", ModeControl},
		{tea.KeyDown, "", ModeControl},
	}

	for i, s := range steps {
		m, _ = press(m, s.key)

		if m.input.Value() != s.input || m.mode != s.mode {
			t.Errorf("step %d: input=%q mode=%v, want %q mode=%v",
				i, m.input.Value(), m.mode, s.input, s.mode)
		}
	}
}

func TestModelQuit(t *testing.T) {
	m := typeText(testModel(t), "name")

	m, _ = press(m, tea.KeyCtrlC)
	if m.quitting || m.input.Value() != "" {
		t.Fatalf("Ctrl-C with input: quitting=%v input=%q", m.quitting, m.input.Value())
	}

	m, cmd := press(m, tea.KeyCtrlC)
	if !m.quitting || cmd == nil {
		t.Error("Ctrl-C on empty input did not quit")
	}

	if m.View() != "" {
		t.Errorf("View after quit = %q, want empty", m.View())
	}
}

func TestModelHint(t *testing.T) {
	m := testModel(t)
	if got := plain(m.hint()); !strings.Contains(got, "Type an expression") {
		t.Errorf("empty hint = %q", got)
	}

	m = typeText(m, "len(")
	if got := plain(m.hint()); got != "len(v)" {
		t.Errorf("call hint = %q, want %q", got, "len(v)")
	}

	m, _ = press(m, tea.KeyEsc)
	if got := plain(m.hint()); !strings.Contains(got, "keys") {
		t.Errorf("control hint = %q, want command list", got)
	}
}

func TestModelEvaluate(t *testing.T) {
	m := testModel(t)

	tests := []struct {
		expr    string
		want    string
		wantErr bool
	}{
		{"server.port + 1", "81", false},
		{"name + \"!\"", "kvt!", false},
		{"len(ports)", "2", false},
		{"missing", "", true},
		{"ports[", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := m.evaluate(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("evaluate error = %v, wantErr %v", err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("evaluate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModelKeys(t *testing.T) {
	m := testModel(t)

	got, err := m.keys("")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}

	want := "  name STRING\n  ports INTEGER_ARRAY\n  ratio DOUBLE\n  server NODE"
	if plain(got) != want {
		t.Errorf("keys() =\n%s\nwant\n%s", plain(got), want)
	}

	got, err = m.keys("server")
	if err != nil {
		t.Fatalf("keys(server): %v", err)
	}

	if plain(got) != "  host STRING\n  hostname STRING\n  port INTEGER" {
		t.Errorf("keys(server) = %q", plain(got))
	}

	if _, err := m.keys("name"); err == nil {
		t.Error("keys(name) succeeded on a string")
	}
}

func TestModelShow(t *testing.T) {
	m := testModel(t)

	tests := []struct {
		expr string
		want string
	}{
		{"server", "{\n  host: \"h\",\n  hostname: \"hn\",\n  port: 80\n}"},
		{"ports", "[80 443]"},
		{"name", "kvt"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := m.show(tt.expr)
			if err != nil {
				t.Fatalf("show: %v", err)
			}

			if got != tt.want {
				t.Errorf("show(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}

	if got, _ := m.show(""); !strings.HasPrefix(got, "{\n  name: \"kvt\",") {
		t.Errorf("show() = %q", got)
	}
}

func TestModelEdited(t *testing.T) {
	m := testModel(t)
	next := testTree(t)

	updated, cmd := m.Update(editedMsg{root: next})
	if cmd == nil {
		t.Error("Update(editedMsg) returned no command")
	}

	if updated.(model).root != next {
		t.Error("edited tree not installed")
	}

	updated, _ = m.Update(editQuitMsg{})
	if !updated.(model).quitting {
		t.Error("declined edit did not quit")
	}
}
