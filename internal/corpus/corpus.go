// Package corpus loads a text corpus into a single mutable buffer.
//
// Plain files are memory mapped with a private copy-on-write mapping, so the
// buffer can be normalized in place without touching the file. Compressed
// files, recognized by their extension, are decompressed into memory.
package corpus

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"go.uber.org/zap"
)

// MaxSize is the largest corpus a triplet table can address.
const MaxSize = math.MaxUint32

var ErrTooLarge = errors.New("corpus is larger than 4GiB")

type Options struct {
	// Read the file into memory instead of mapping it.
	NoMmap bool

	Logger *zap.Logger
}

type Corpus struct {
	Path string
	Data []byte

	// Whether Data is a memory mapping that Close releases.
	Mapped bool

	unmap func([]byte) error
}

// Open loads the corpus at path. The caller owns Data and may modify it
// until Close is called.
func Open(path string, opts Options) (*Corpus, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer f.Close()

	c := &Corpus{Path: path}

	if codec, ok := CodecFor(path); ok {
		c.Data, err = decompress(codec, f)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
		}

		logger.Debug("decompressed corpus", zap.String("path", path), zap.String("codec", codec.String()), zap.Int("bytes", len(c.Data)))
		return c, nil
	}

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat corpus: %w", err)
	}
	if err := checkSize(info.Size()); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	size := int(info.Size())
	if size == 0 {
		c.Data = []byte{}
		return c, nil
	}

	if !opts.NoMmap {
		data, err := mmap(f, size, logger)
		if err == nil {
			c.Data = data
			c.Mapped = true
			c.unmap = munmap

			logger.Debug("mapped corpus", zap.String("path", path), zap.Int("bytes", size))
			return c, nil
		}

		logger.Warn("failed to mmap corpus, reading it instead", zap.String("path", path), zap.Error(err))
	}

	c.Data = make([]byte, size)
	if _, err := io.ReadFull(f, c.Data); err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	logger.Debug("read corpus", zap.String("path", path), zap.Int("bytes", size))
	return c, nil
}

// Close releases the mapping, if any. Data must not be used afterwards.
func (c *Corpus) Close() error {
	data := c.Data
	c.Data = nil

	if !c.Mapped {
		return nil
	}

	c.Mapped = false
	if err := c.unmap(data); err != nil {
		return fmt.Errorf("failed to unmap corpus: %w", err)
	}

	return nil
}

func checkSize(size int64) error {
	if size > MaxSize {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}

	return nil
}

func decompress(codec Codec, r io.Reader) ([]byte, error) {
	zr, err := codec.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	data, err := io.ReadAll(io.LimitReader(zr, MaxSize+1))
	if err != nil {
		return nil, err
	}
	if err := checkSize(int64(len(data))); err != nil {
		return nil, err
	}

	return data, nil
}
