package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/Maceris/kvt/kvt"
	"github.com/Maceris/kvt/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It writes the tree to a temporary
// file, opens $EDITOR on it and parses the result strictly, offering to edit
// again after a parse error.
type editCommand struct {
	ctx    context.Context //nolint:containedctx
	root   *kvt.Branch
	logger log.Logger
	edited *kvt.Branch // nil when the user emptied the file

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. Declining to edit again after a parse error
// returns [ErrEditDeclined].
func (c *editCommand) Run() error {
	var buf bytes.Buffer

	if err := kvt.Format(&buf, c.root, kvt.WithIndent(2)); err != nil {
		return err
	}

	buf.WriteByte('\n')

	f, err := os.CreateTemp("", "kvt-repl-*.kvt")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	content := buf.Bytes()

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		if err := c.runEditor(path); err != nil {
			return err
		}

		if content, err = os.ReadFile(path); err != nil {
			return err
		}

		if len(bytes.TrimSpace(content)) == 0 {
			return nil
		}

		root, perr := kvt.Parse(c.ctx, string(content),
			kvt.WithStrict(true),
			kvt.WithLogger(c.logger),
		)

		c.logger.TraceContext(c.ctx, "editor parse attempt",
			slog.Int("source_bytes", len(content)),
			slog.Bool("success", perr == nil),
		)

		if perr == nil {
			c.edited = root

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%v\n", perr)
		fmt.Fprint(c.stdout, "Edit again? [Y/n] ")

		if !confirm(c.stdin) {
			return ErrEditDeclined
		}
	}
}

func (c *editCommand) runEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(c.ctx, editor, path)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	return cmd.Run()
}

// confirm reads one answer from r. Anything but "n" or "no" is a yes; end of
// input is a no.
func confirm(r io.Reader) bool {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(sc.Text())) {
	case "n", "no":
		return false
	default:
		return true
	}
}
