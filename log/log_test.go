package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level info, got %v", logger.Level())
	}
	if logger.caller {
		t.Error("expected caller disabled by default")
	}
	if logger.Format() != FormatJSON {
		t.Errorf("expected default format json, got %v", logger.Format())
	}
}

func TestLogger_Make_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelDebug))

	logger.Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message not logged at debug level")
	}

	buf.Reset()
	logger = Make(&buf, WithLevel(LevelError))
	logger.Info("info message")
	if buf.Len() > 0 {
		t.Error("info message logged at error level")
	}

	logger.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at error level")
	}
}

func TestLogger_Trace_RendersTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelTrace))

	logger.Trace("deep")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if rec["level"] != "TRACE" {
		t.Errorf("expected level TRACE, got %v", rec["level"])
	}
}

func TestLogger_Make_WithTimeLayout(t *testing.T) {
	tests := []struct {
		name     string
		layout   string
		wantTime bool
		contains string
	}{
		{"rfc3339 named", "RFC3339", true, "T"},
		{"rfc3339 nano named", "rfc3339nano", true, "."},
		{"none", "none", false, ""},
		{"empty", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithTimeLayout(tt.layout))
			logger.Info("test")

			var rec map[string]any
			if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
				t.Fatalf("invalid json %q: %v", buf.String(), err)
			}

			ts, ok := rec["time"].(string)
			if ok != tt.wantTime {
				t.Fatalf("time present = %v, want %v (%s)", ok, tt.wantTime, buf.String())
			}
			if ok && !strings.Contains(ts, tt.contains) {
				t.Errorf("expected time %q to contain %q", ts, tt.contains)
			}
		})
	}
}

func TestLogger_Make_WithCaller_IncludesSource(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithCaller(true), WithFormat(FormatText))
	logger.Info("test message")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected source to point at the caller, got: %s", buf.String())
	}
}

func TestLogger_Wrap_KeepsReceiver(t *testing.T) {
	var a, b bytes.Buffer

	base := Make(&a, WithLevel(LevelWarn))
	wrapped := base.Wrap(WithOutput(&b), WithLevel(LevelDebug))

	base.Info("hidden")
	wrapped.Debug("shown")

	if a.Len() != 0 {
		t.Errorf("base logger wrote below its level: %s", a.String())
	}
	if !strings.Contains(b.String(), "shown") {
		t.Errorf("wrapped logger missing message: %s", b.String())
	}
	if base.Level() != LevelWarn {
		t.Errorf("Wrap modified receiver level to %v", base.Level())
	}
}

func TestLogger_With_AddsAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf).With(slog.String("file", "a.kvt"))
	logger.Info("read")

	if !strings.Contains(buf.String(), `"file":"a.kvt"`) {
		t.Errorf("expected attr in output, got: %s", buf.String())
	}
}

func TestLogger_ZeroValue_Discards(t *testing.T) {
	var logger Logger

	logger.Error("nothing happens")

	if got := logger.With(slog.Int("n", 1)); got.Logger != nil {
		t.Error("With on zero logger should stay zero")
	}
	if logger.Level() != DefaultLevel {
		t.Errorf("zero logger level = %v", logger.Level())
	}
}

func TestLogger_Pretty_WritesLines(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   []string
	}{
		{"text", FormatText, []string{"msg=hello", " count=3", "node.key=x"}},
		{"json", FormatJSON, []string{`"msg": hello`, `"count": 3`, `"node.key": x`}},
	}

	saved := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = saved })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithPretty(true), WithFormat(tt.format))
			logger = logger.With(slog.Int("count", 3))
			logger.Logger = logger.WithGroup("node")
			logger.Info("hello", slog.String("key", "x"))

			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("expected %q in %q", w, out)
				}
			}
		})
	}
}

func TestLogger_ConcurrentUse(t *testing.T) {
	var buf syncBuffer

	logger := Make(&buf, WithFormat(FormatText))

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			logger.Info("concurrent", slog.Int("i", i))
		}()
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "concurrent"); n != 16 {
		t.Errorf("expected 16 messages, got %d", n)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}
