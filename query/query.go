// Package query evaluates expr-lang expressions over KVT trees.
//
// The top-level keys of a tree are the variables of an expression. Branches
// appear as map[string]any, NODE_ARRAY children as []any of maps and every
// other child as the host value [kvt.Node.Get] would return, so that
//
//	server.port > 1024 && len(server.hosts) > 0
//
// evaluates against a tree holding a server branch with those children.
package query

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/Maceris/kvt/kvt"
)

var (
	ErrCompile = errors.New("compile query")
	ErrRun     = errors.New("run query")
)

// Query is a compiled expression.
type Query struct {
	source  string
	program *vm.Program
}

// Compile type-checks input against the variables of root. The result may be
// run against any tree of the same shape.
func Compile(input string, root *kvt.Branch) (*Query, error) {
	program, err := expr.Compile(input, expr.Env(Env(root)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}

	return &Query{source: input, program: program}, nil
}

// String returns the source of q.
func (q *Query) String() string { return q.source }

// Run evaluates q with the top-level keys of root as variables.
func (q *Query) Run(root *kvt.Branch) (any, error) {
	result, err := expr.Run(q.program, Env(root))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRun, err)
	}

	return result, nil
}

// Evaluate compiles input and runs it against root.
func Evaluate(input string, root *kvt.Branch) (any, error) {
	q, err := Compile(input, root)
	if err != nil {
		return nil, err
	}

	return q.Run(root)
}

// Env returns the expression variables of root.
func Env(root *kvt.Branch) map[string]any {
	if root == nil {
		return map[string]any{}
	}

	return kvt.Native(root)
}

// Tree converts a map result back into a tree. It reports false for any
// other result or a map that holds values no node type can carry.
func Tree(result any) (*kvt.Branch, bool) {
	m, ok := result.(map[string]any)
	if !ok {
		return nil, false
	}

	b, err := kvt.FromNative(m)
	if err != nil {
		return nil, false
	}

	return b, true
}

// Format renders a result on one line: maps as KVT text, anything else with
// its default format.
func Format(result any) string {
	if b, ok := Tree(result); ok {
		return b.String()
	}

	return fmt.Sprint(result)
}
