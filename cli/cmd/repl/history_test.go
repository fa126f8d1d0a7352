package repl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistoryAdd(t *testing.T) {
	h := NewHistory("")

	for _, e := range []Entry{
		{"a + 1", ModeExpr},
		{"keys", ModeControl},
		{"a + 1", ModeExpr},
		{"a + 1", ModeExpr},
		{"  ", ModeExpr},
		{"keys", ModeExpr},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q): %v", e.Line, err)
		}
	}

	want := []Entry{
		{"keys", ModeControl},
		{"a + 1", ModeExpr},
		{"keys", ModeExpr},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("Entries mismatch (-want +got):\n%s", diff)
	}

	if _, ok := h.At(3); ok {
		t.Error("At(3) reported an entry past the end")
	}

	if e, ok := h.At(0); !ok || e.Mode != ModeControl {
		t.Errorf("At(0) = (%+v, %v), want control entry", e, ok)
	}
}

func TestHistoryPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFile)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load missing file: %v", err)
	}

	if h.Len() != 0 {
		t.Fatalf("Len = %d, want 0", h.Len())
	}

	_ = h.Add("name", ModeExpr)
	_ = h.Add("show server", ModeControl)
	_ = h.Add("name", ModeExpr)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if got, want := string(data), "C:show server\nE:name\n"; got != want {
		t.Errorf("history file = %q, want %q", got, want)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff(h.Entries(), reloaded.Entries()); diff != "" {
		t.Errorf("reloaded mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeEntry(t *testing.T) {
	tests := []struct {
		line string
		want Entry
	}{
		{"C:quit", Entry{"quit", ModeControl}},
		{"E:a.b", Entry{"a.b", ModeExpr}},
		{"legacy", Entry{"legacy", ModeExpr}},
	}

	for _, tt := range tests {
		if got := decodeEntry(tt.line); got != tt.want {
			t.Errorf("decodeEntry(%q) = %+v, want %+v", tt.line, got, tt.want)
		}

		if tt.line != "legacy" && tt.want.encode() != tt.line {
			t.Errorf("encode(%+v) = %q, want %q", tt.want, tt.want.encode(), tt.line)
		}
	}
}
