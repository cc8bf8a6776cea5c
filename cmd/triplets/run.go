package main

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"runtime/pprof"
	"slices"
	"strconv"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/homier/tripletmap"
	"github.com/homier/tripletmap/arena"
	"github.com/homier/tripletmap/internal/corpus"
	"github.com/homier/tripletmap/internal/ingest"
	"github.com/homier/tripletmap/internal/rank"
	"github.com/homier/tripletmap/internal/reference"
	"github.com/homier/tripletmap/internal/report"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var errVerifyFailed = errors.New("triplet counts differ from the reference")

func run(a args, stdout io.Writer, logger *zap.Logger) (err error) {
	hash, err := tripletmap.ParseHashFunc(a.Hash)
	if err != nil {
		return fmt.Errorf("invalid --hash: %w", err)
	}
	if !slices.Contains(report.Formats(), a.Format) {
		return fmt.Errorf("invalid --format: %w: %q", report.ErrUnknownFormat, a.Format)
	}
	if a.Top < 0 {
		return fmt.Errorf("invalid --top: %d", a.Top)
	}

	if a.CPUProfile != "" {
		stop, err := startCPUProfile(a.CPUProfile)
		if err != nil {
			return err
		}
		defer stop()
	}

	if a.MetricsFile != "" {
		defer func() {
			if werr := prometheus.WriteToTextfile(a.MetricsFile, prometheus.DefaultGatherer); werr != nil {
				err = errors.Join(err, fmt.Errorf("failed to write metrics: %w", werr))
			}
		}()
	}

	c, err := corpus.Open(a.Path, corpus.Options{NoMmap: a.NoMmap, Logger: logger})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			logger.Warn("failed to close corpus", zap.String("path", a.Path), zap.Error(cerr))
		}
	}()

	// Indexing normalizes the buffer in place, the reference needs the
	// original text.
	var want *reference.Counts
	if a.Verify {
		want = reference.Count(c.Data, arena.New(a.ArenaBlock))
	}

	m, summary := ingest.Index(c.Data, ingest.Options{
		Capacity:   a.Capacity,
		LoadFactor: a.LoadFactor,
		BlockSize:  a.ArenaBlock,
		Hash:       hash,
		Logger:     logger,
	})
	if summary.Skipped > 0 {
		logger.Warn("skipped oversized triplets", zap.Int("skipped", summary.Skipped))
	}

	if want != nil {
		if err := verify(m, want); err != nil {
			return err
		}
		logger.Info("verified triplet counts", zap.Int("unique", want.Len()))
	}

	return report.Write(stdout, a.Format, rank.Top(m.Counts(), a.Top))
}

func startCPUProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create cpu profile: %w", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to start cpu profile: %w", err)
	}

	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

// verify compares every count of m against the reference and returns a
// unified diff of the sorted listings when they differ.
func verify(m *tripletmap.Map, want *reference.Counts) error {
	got := listing(m.Counts())
	expected := listing(want.All())
	if got == expected {
		return nil
	}

	edits := myers.ComputeEdits(span.URIFromPath("reference"), expected, got)
	diff := fmt.Sprint(gotextdiff.ToUnified("reference", "tripletmap", expected, edits))

	return fmt.Errorf("%w:\n%s", errVerifyFailed, diff)
}

func listing(counts iter.Seq2[[]byte, int]) string {
	var lines []string
	for text, count := range counts {
		lines = append(lines, string(text)+"\t"+strconv.Itoa(count)+"\n")
	}
	slices.Sort(lines)

	return strings.Join(lines, "")
}
