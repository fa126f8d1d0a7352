package cmd

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/Maceris/kvt/kvt"
)

var ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")

func TestNative_Run(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		indent int
		want   string
	}{
		{
			name:   "single_line",
			input:  "{b: 2s, a: 1}",
			indent: 0,
			want:   "{a: 1, b: 2s}\n",
		},
		{
			name:   "indented",
			input:  `{n: {z: [Z: true]}, "a b": "x"}`,
			indent: 2,
			want:   "{\n  \"a b\": \"x\",\n  n: {\n    z: [Z: true]\n  }\n}\n",
		},
		{
			name:   "empty",
			input:  "{}",
			indent: 2,
			want:   "{}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testContext(t)

			native := &Native{
				Indent: tt.indent,
				Source: writeTemp(t, "in.kvt", []byte(tt.input)),
			}

			if err := native.Run(ctx); err != nil {
				t.Fatalf("Native.Run() error = %v", err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("Native.Run() output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNative_Color(t *testing.T) {
	ctx, out := testContext(t)

	native := &Native{
		Color:  true,
		Source: writeTemp(t, "in.kvt", []byte(`{a: "x"}`)),
	}

	if err := native.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if !ansi.MatchString(out.String()) {
		t.Errorf("output %q has no color", out.String())
	}

	if got := ansi.ReplaceAllString(out.String(), ""); got != "{a: \"x\"}\n" {
		t.Errorf("uncolored output = %q", got)
	}
}

func TestFmt_InvalidSyntax(t *testing.T) {
	inputs := []string{
		"{a 1}",
		"{a: }",
		"{a: [Q: 1]",
		"a: 1",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			path := writeTemp(t, "in.kvt", []byte(input))

			cmds := map[string]interface {
				Run(ctx context.Context) error
			}{
				"native": &Native{Source: path},
				"json":   &JSON{Source: path},
				"yaml":   &YAML{Source: path},
				"ast":    &AST{Source: path},
			}

			for name, c := range cmds {
				ctx, out := testContext(t)

				err := c.Run(ctx)
				if !errors.Is(err, kvt.ErrParse) {
					t.Errorf("%s: Run() error = %v, want ErrParse", name, err)
				}

				if out.Len() != 0 {
					t.Errorf("%s: wrote %q on error", name, out.String())
				}
			}
		})
	}
}

func TestJSON_Run(t *testing.T) {
	ctx, out := testContext(t)

	j := &JSON{
		Indent: 0,
		Source: writeTemp(t, "in.kvt", []byte(`{s: "x", l: [L: 1, 2], a: 1b}`)),
	}

	if err := j.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got, want := out.String(), `{"a":1,"l":[1,2],"s":"x"}`+"\n"; got != want {
		t.Errorf("JSON.Run() output = %q, want %q", got, want)
	}
}

func TestYAML_Run(t *testing.T) {
	ctx, out := testContext(t)

	y := &YAML{
		Indent: 2,
		Source: writeTemp(t, "in.kvt", []byte(`{n: {a: 1}, s: "x"}`)),
	}

	if err := y.Run(ctx); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"n:", "a: 1", "s: x"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("YAML.Run() output %q does not contain %q", out.String(), want)
		}
	}
}

func TestAST_Run(t *testing.T) {
	ctx, out := testContext(t)

	a := &AST{Source: writeTemp(t, "in.kvt", []byte(`{a: 1}`))}

	if err := a.Run(ctx); err != nil {
		t.Fatal(err)
	}

	want := "Node 1:1-1:7\n  Entry 1:2-1:6 key=a\n    Literal 1:5-1:6 integer 1\n"
	if got := out.String(); got != want {
		t.Errorf("AST.Run() output = %q, want %q", got, want)
	}
}
