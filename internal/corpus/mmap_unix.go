//go:build linux || darwin || freebsd

package corpus

import (
	"os"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

func mmap(f *os.File, size int, logger *zap.Logger) ([]byte, error) {
	// Private and writable: in-place normalization stays in this process.
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}

	if err := unix.Madvise(data, unix.MADV_SEQUENTIAL); err != nil {
		logger.Debug("failed to madvise corpus mapping", zap.String("filename", f.Name()), zap.Error(err))
	}

	return data, nil
}

func munmap(data []byte) error {
	return unix.Munmap(data)
}
