package repl

import "testing"

func TestEnclosingCall(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cursor int
		want   call
		wantOK bool
	}{
		{"first_arg", "len(", 4, call{"len", 0}, true},
		{"second_arg", "filter(l, # > ", 14, call{"filter", 1}, true},
		{"nested", "map(l, len(x", 12, call{"len", 0}, true},
		{"after_nested", "map(l, len(x), ", 15, call{"map", 2}, true},
		{"array_literal", "join([1, 2], ", 13, call{"join", 1}, true},
		{"member_call", "a.b(", 4, call{"b", 0}, true},
		{"no_call", "a + b", 5, call{}, false},
		{"bare_paren", "(a", 2, call{}, false},
		{"inside_index", "l[1, ", 5, call{}, false},
		{"closed", "len(x)", 6, call{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := enclosingCall(tt.input, tt.cursor)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("enclosingCall(%q, %d) = (%+v, %v), want (%+v, %v)",
					tt.input, tt.cursor, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRenderSignature(t *testing.T) {
	tests := []struct {
		c    call
		want string
	}{
		{call{"len", 0}, "len(v)"},
		{call{"filter", 1}, "filter(array, predicate)"},
		{call{"reduce", 5}, "reduce(array, reducer, initial)"},
		{call{"custom", 0}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.c.name, func(t *testing.T) {
			if got := plain(renderSignature(tt.c)); got != tt.want {
				t.Errorf("renderSignature(%+v) = %q, want %q", tt.c, got, tt.want)
			}
		})
	}
}
