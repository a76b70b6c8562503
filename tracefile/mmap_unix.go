//go:build unix

package tracefile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// withFileBytes maps path read-only and hands the mapping to fn. The slice
// is only valid until fn returns.
func withFileBytes(path string, fn func([]byte) error) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	size := info.Size()
	if size == 0 {
		// mmap rejects zero-length mappings
		return fn(nil)
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("failed to map file: %w", err)
	}
	defer unix.Munmap(data)

	return fn(data)
}
