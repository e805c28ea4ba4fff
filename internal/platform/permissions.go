package platform

import (
	"os"
	"runtime"
)

// DefaultFileMode and DefaultDirMode are used when an archive entry carries
// no permission bits.
const (
	DefaultFileMode os.FileMode = 0644
	DefaultDirMode  os.FileMode = 0755
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// FileMode keeps only the permission bits of an archive mode, falling back
// to DefaultFileMode when none are set.
func FileMode(mode int64) os.FileMode {
	perm := os.FileMode(mode).Perm()
	if perm == 0 {
		return DefaultFileMode
	}
	return perm
}
