package repl

import "errors"

// Sentinel errors.
var (
	ErrNoTree       = errors.New("no tree to explore")
	ErrEditDeclined = errors.New("decline edit")
)
