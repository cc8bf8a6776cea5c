package corpus

import (
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec decompresses corpora stored with a given file extension.
type Codec interface {
	// Returns a human-readable name for the codec.
	String() string

	NewReader(r io.Reader) (io.ReadCloser, error)

	NewWriter(w io.Writer) (io.WriteCloser, error)
}

var codecs = map[string]Codec{
	".gz":  gzipCodec{},
	".zst": zstdCodec{},
	".lz4": lz4Codec{},
	".br":  brotliCodec{},
	".sz":  snappyCodec{},
}

// CodecFor returns the codec matching the extension of path.
func CodecFor(path string) (Codec, bool) {
	codec, ok := codecs[strings.ToLower(filepath.Ext(path))]
	return codec, ok
}

// Extensions returns the recognized compressed file extensions.
func Extensions() []string {
	exts := make([]string, 0, len(codecs))
	for ext := range codecs {
		exts = append(exts, ext)
	}
	slices.Sort(exts)

	return exts
}

type gzipCodec struct{}

func (gzipCodec) String() string { return "GZIP" }

func (gzipCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

func (gzipCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

type zstdCodec struct{}

func (zstdCodec) String() string { return "ZSTD" }

func (zstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	z, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return z.IOReadCloser(), nil
}

func (zstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
}

type lz4Codec struct{}

func (lz4Codec) String() string { return "LZ4" }

func (lz4Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

func (lz4Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

type brotliCodec struct{}

func (brotliCodec) String() string { return "BROTLI" }

func (brotliCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(brotli.NewReader(r)), nil
}

func (brotliCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return brotli.NewWriter(w), nil
}

type snappyCodec struct{}

func (snappyCodec) String() string { return "SNAPPY" }

func (snappyCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(snappy.NewReader(r)), nil
}

func (snappyCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return snappy.NewBufferedWriter(w), nil
}
