package repl

import (
	"context"
	"io"
	"regexp"
	"testing"

	"github.com/Maceris/kvt/kvt"
	"github.com/Maceris/kvt/log"
)

const testSource = `{
  name: "kvt",
  ratio: 1.5,
  server: {host: "h", hostname: "hn", port: 80},
  ports: [I: 80, 443]
}`

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string { return ansi.ReplaceAllString(s, "") }

func testTree(t *testing.T) *kvt.Branch {
	t.Helper()

	root, err := kvt.Parse(context.Background(), testSource)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	return root
}

func testModel(t *testing.T) model {
	t.Helper()

	return newModel(context.Background(), testTree(t), NewHistory(""), log.Make(io.Discard))
}
