//go:build windows

package process

import "os"

// IsExecutable reports whether path exists as a regular file.
// Windows has no execute bit.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
