package kvt

import "github.com/Maceris/kvt/log"

// DefaultMaxDepth bounds the nesting of branches and arrays accepted by the
// text parser and the binary decoder.
const DefaultMaxDepth = 512

type options struct {
	logger   log.Logger
	maxDepth int
	strict   bool
	cache    bool
}

// Option configures parsing, lowering and decoding.
type Option func(*options)

// WithLogger sets the logger receiving lowering warnings and trace output.
// Without this option the package default logger of [log] is used.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxDepth sets the maximum nesting depth. Values below 1 select
// [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithStrict makes the first lowering failure abort [Parse] with
// [ErrLoweringFailure] instead of being logged and skipped.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithCache enables or disables the source cache of [ParseReader].
func WithCache(enable bool) Option {
	return func(o *options) {
		o.cache = enable
	}
}

func makeOptions(opts ...Option) options {
	o := options{
		logger:   log.Default(),
		maxDepth: DefaultMaxDepth,
		cache:    true,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.maxDepth < 1 {
		o.maxDepth = DefaultMaxDepth
	}

	return o
}
