// Package ingest drives the tokenizer over a corpus and counts its triplets.
package ingest

import (
	"time"

	"github.com/homier/tripletmap"
	"github.com/homier/tripletmap/arena"
	"github.com/homier/tripletmap/internal/tokenize"
	"go.uber.org/zap"
)

type Options struct {
	// Initial table capacity, 0 selects tripletmap.DefaultCapacity.
	Capacity int
	// Load factor in percent, 0 selects tripletmap.DefaultLoadFactor.
	LoadFactor int
	// Arena block size, 0 selects arena.DefaultBlockSize.
	BlockSize int

	// Nil selects tripletmap.Hash.
	Hash tripletmap.HashFunc

	Logger *zap.Logger
}

type Summary struct {
	Words    int
	Triplets int
	// Triplets too long to be addressed by an entry.
	Skipped int
	Unique  int
	Grows   int
	Elapsed time.Duration

	Stats tripletmap.Stats
}

// Index normalizes buf in place and counts every triplet in it. The
// returned map refers to buf, which must outlive it.
func Index(buf []byte, opts Options) (*tripletmap.Map, Summary) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mapOpts := []tripletmap.Option{
		tripletmap.WithArena(arena.New(opts.BlockSize)),
	}
	if opts.Capacity > 0 {
		mapOpts = append(mapOpts, tripletmap.WithCapacity(opts.Capacity))
	}
	if opts.LoadFactor > 0 {
		mapOpts = append(mapOpts, tripletmap.WithLoadFactor(opts.LoadFactor))
	}
	if opts.Hash != nil {
		mapOpts = append(mapOpts, tripletmap.WithHashFunc(opts.Hash))
	}

	start := time.Now()
	m := tripletmap.New(buf, mapOpts...)
	scanner := tokenize.NewScanner(buf)

	var summary Summary
	for span := range scanner.Spans() {
		summary.Triplets++

		if !tripletmap.Addressable(span.Offset, span.Length) {
			summary.Skipped++
			logger.Debug("skipping oversized triplet",
				zap.Int("offset", span.Offset),
				zap.Int("length", span.Length),
			)

			continue
		}

		m.Merge(uint32(span.Offset), uint16(span.Length), m.Hash(buf[span.Offset:span.Offset+span.Length]))
	}

	summary.Words = scanner.Words()
	summary.Elapsed = time.Since(start)
	summary.Stats = m.Stats()
	summary.Unique = summary.Stats.Size
	summary.Grows = summary.Stats.Grows

	RecordStats(summary)

	logger.Info("indexed corpus",
		zap.Int("bytes", len(buf)),
		zap.Int("words", summary.Words),
		zap.Int("triplets", summary.Triplets),
		zap.Int("unique", summary.Unique),
		zap.Int("skipped", summary.Skipped),
		zap.Int("capacity", summary.Stats.Capacity),
		zap.Int("grows", summary.Grows),
		zap.Int("max_probe_distance", summary.Stats.MaxProbeDistance),
		zap.Duration("elapsed", summary.Elapsed),
	)

	return m, summary
}
