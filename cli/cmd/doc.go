// Package cmd implements the kvt subcommands. They convert trees between the
// text, binary, JSON and YAML formats, compare, query and explore them, and
// write the default configuration file.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file. It is also the key of the branch holding flag
	// values inside that file.
	ConfigIdentifier = "config"
)
