package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type args struct {
	Path string `arg:"positional,required" help:"corpus file, optionally compressed (.gz, .zst, .lz4, .br, .sz)"`

	Top    int    `arg:"--top" default:"3" help:"number of triplets to print"`
	Format string `arg:"--format" default:"text" help:"output format: text, json or table"`

	Capacity   int    `arg:"--capacity" default:"262144" help:"initial number of table slots"`
	LoadFactor int    `arg:"--load-factor" default:"90" help:"table occupancy in percent that triggers growth"`
	ArenaBlock int    `arg:"--arena-block" default:"4194304" help:"arena block size in bytes"`
	Hash       string `arg:"--hash" default:"fnv4" help:"hash function: fnv4, fnv1a, xxhash or xxh3"`

	NoMmap      bool   `arg:"--no-mmap" help:"read the corpus into memory instead of mapping it"`
	Verify      bool   `arg:"--verify" help:"check every count against a map based reference counter"`
	MetricsFile string `arg:"--metrics-file" help:"write Prometheus metrics to this file on exit"`
	CPUProfile  string `arg:"--cpu-profile" help:"write a CPU profile to this file"`
	Verbose     bool   `arg:"-v,--verbose" help:"log debug messages"`
}

func (args) Description() string {
	return "triplets prints the most frequent sequences of three consecutive words in a text."
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	config.OutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	)
}

func main() {
	var a args
	arg.MustParse(&a)

	logger, err := newLogger(a.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to construct logger: %v\n", err)
		os.Exit(1)
	}
	_ = zap.ReplaceGlobals(logger)

	err = run(a, os.Stdout, logger)
	_ = logger.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "triplets: %v\n", err)
		os.Exit(1)
	}
}
