//go:build !(linux || darwin || freebsd)

package corpus

import (
	"errors"
	"os"

	"go.uber.org/zap"
)

var errMmapUnsupported = errors.New("mmap is not supported on this platform")

func mmap(f *os.File, size int, logger *zap.Logger) ([]byte, error) {
	return nil, errMmapUnsupported
}

func munmap(data []byte) error {
	return errMmapUnsupported
}
