package kvt

import (
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// treeCache stores lowered trees keyed by a hash of source and options.
// Only trees that lowered without failures are stored, so a cache hit never
// hides a warning the caller would otherwise see.
var treeCache sync.Map

// cacheEntry is filled once per key; concurrent callers wait on once.
type cacheEntry struct {
	once sync.Once
	root *Branch
	err  error
	ok   bool
}

// hashOptions hashes the options that affect the lowered tree.
func hashOptions(o options) uint64 {
	var buf [9]byte

	binary.BigEndian.PutUint64(buf[:8], uint64(o.maxDepth))

	if o.strict {
		buf[8] = 1
	}

	return xxh3.Hash(buf[:])
}

// cacheKey combines the hashes of source and the options into a map key.
func cacheKey(source string, o options) string {
	return strconv.FormatUint(xxh3.HashString(source)^hashOptions(o), 36)
}

func parseCached(ctx context.Context, source string, o options) (*Branch, error) {
	key := cacheKey(source, o)

	value, hit := treeCache.LoadOrStore(key, new(cacheEntry))

	entry, _ := value.(*cacheEntry)

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("key", key),
		slog.Int("source_bytes", len(source)),
		slog.Bool("cache_hit", hit),
	)

	fresh := false

	entry.once.Do(func() {
		fresh = true

		root, failures, err := parse(ctx, source, o)

		entry.root, entry.err = root, err
		entry.ok = err == nil && failures == 0
	})

	switch {
	case fresh:
		if !entry.ok {
			treeCache.Delete(key)
		}

		if entry.err != nil {
			return nil, entry.err
		}

		return entry.root.Clone(), nil

	case entry.ok:
		return entry.root.Clone(), nil

	default:
		// Another caller's parse failed or warned; parse again so this caller
		// sees the same errors and warnings.
		root, _, err := parse(ctx, source, o)

		return root, err
	}
}

// ClearCache removes every cached tree.
func ClearCache() {
	treeCache.Clear()
}

// readAll reads r to the end through an asynchronous read-ahead buffer.
func readAll(r io.Reader) ([]byte, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	return io.ReadAll(ra)
}
