//go:build !unix

package tracefile

import "os"

func withFileBytes(path string, fn func([]byte) error) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return fn(data)
}
