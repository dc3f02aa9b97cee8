package uritemplate

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/urit/log"
)

// globalCache stores parsed templates keyed by source hash. Templates
// are immutable values, so a cached parse is shared freely.
var globalCache sync.Map

// state tracks the one-time parse result for a source text.
type state struct {
	once     sync.Once
	template Template
	err      error
}

// ParseCached parses template text, memoizing the result by content
// hash. Every later call with the same text returns the cached template
// without reparsing. Options do not change the parsed value, so they
// take effect only on the call that populates the cache.
func ParseCached(input string, opts ...Option) (Template, error) {
	p := &parser{logger: log.With()}

	for _, opt := range opts {
		opt(p)
	}

	// xxh3 keyed in base 36 keeps cache keys short and printable.
	key := strconv.FormatUint(xxh3.Hash([]byte(input)), 36)

	entry := new(state)

	value, hit := globalCache.LoadOrStore(key, entry)

	cached, ok := value.(*state)
	if !ok {
		return Template{}, ErrParse.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	p.logger.Trace(
		"cache lookup",
		slog.String("source_hash", key),
		slog.Bool("cache_hit", hit),
	)

	cached.once.Do(func() {
		cached.template, cached.err = Parse(input, opts...)
	})

	return cached.template, cached.err
}

// ParseReader parses template text from an io.Reader. The result is
// cached the same way as [ParseCached].
//
// A single trailing newline is trimmed before parsing, so template
// files written by editors parse cleanly.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (Template, error) {
	// Wrap the reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return Template{}, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	p := &parser{logger: log.With()}

	for _, opt := range opts {
		opt(p)
	}

	p.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	input := strings.TrimSuffix(string(data), "\n")
	input = strings.TrimSuffix(input, "\r")

	return ParseCached(input, opts...)
}

// ClearCache removes every memoized template. This is primarily useful
// for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache = sync.Map{}
}
