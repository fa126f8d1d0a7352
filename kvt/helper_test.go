package kvt

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Maceris/kvt/log"
)

// sampleTree returns a tree holding every node type, including nested
// branches and node arrays.
func sampleTree(t *testing.T) *Branch {
	t.Helper()

	root := NewBranch()

	must := func(err error) {
		t.Helper()

		if err != nil {
			t.Fatalf("building sample tree: %v", err)
		}
	}

	must(root.Put("bool", Bool(true)))
	must(root.Put("byte", Byte(-7)))
	must(root.Put("short", Short(1234)))
	must(root.Put("int", Int(-56789)))
	must(root.Put("long", Long(math.MaxInt64)))
	must(root.Put("float", Float(1.5)))
	must(root.Put("double", Double(-0.125)))
	must(root.Put("string", String("tab\there \"quoted\" ünïcode")))

	must(root.Put("bools", BoolArray{true, false, true}))
	must(root.Put("bytes", ByteArray{math.MinInt8, 0, math.MaxInt8}))
	must(root.Put("shorts", ShortArray{math.MinInt16, math.MaxInt16}))
	must(root.Put("ints", IntArray{1, 2, 3}))
	must(root.Put("longs", LongArray{math.MinInt64, 0}))
	must(root.Put("floats", FloatArray{0.1, float32(math.Inf(1))}))
	must(root.Put("doubles", DoubleArray{1e300, math.NaN(), 2}))
	must(root.Put("strings", StringArray{"", "a b", "{x: 1}"}))
	must(root.Put("empty", IntArray{}))

	child, err := root.Add("child")
	must(err)
	must(child.Put("key with spaces", String("v")))
	must(child.Put("a.b", Int(1)))

	grand, err := child.Add("grand")
	must(err)
	must(grand.Put("deep", Long(-1)))

	n1 := NewBranch()
	must(n1.Put("x", Int(1)))

	n2 := NewBranch()
	inner, err := n2.Add("inner")
	must(err)
	must(inner.Put("y", DoubleArray{3.25}))

	must(root.Put("nodes", NodeArray{n1, NewBranch(), n2}))

	return root
}

// treeDiff compares two trees through their native form.
func treeDiff(want, got *Branch) string {
	if want.Equal(got) {
		return ""
	}

	diff := cmp.Diff(Native(want), Native(got),
		cmp.Comparer(func(a, b float64) bool { return floatEqual(a, b) }),
		cmp.Comparer(func(a, b float32) bool {
			return floatEqual(float64(a), float64(b))
		}),
	)
	if diff == "" {
		diff = "trees differ: " + MarshalText(want) + " != " + MarshalText(got)
	}

	return diff
}

// captureLogger returns a text logger writing warnings to buf.
func captureLogger(buf *bytes.Buffer) Option {
	return WithLogger(log.Make(buf, log.WithFormat(log.FormatText), log.WithLevel(log.LevelWarn)))
}
