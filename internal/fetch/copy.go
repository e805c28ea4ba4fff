package fetch

import (
	"os"
	"path/filepath"

	"github.com/coldsurfers/create-mvp-surf/internal/platform"
)

// excludedNames are never copied out of a clone.
var excludedNames = map[string]bool{
	".git": true,
}

// copyTree recursively copies src into dst and returns the number of files
// copied. Symlinks are skipped.
func copyTree(src, dst string, logf func(msg string, keyvals ...interface{})) (int, error) {
	if err := os.MkdirAll(dst, platform.DefaultDirMode); err != nil {
		return 0, err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		if excludedNames[entry.Name()] {
			continue
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			n, err := copyTree(srcPath, dstPath, logf)
			count += n
			if err != nil {
				return count, err
			}
		} else if entry.Type().IsRegular() {
			if err := copyFile(srcPath, dstPath); err != nil {
				return count, err
			}
			logf("copied", "file", dstPath)
			count++
		}
	}

	return count, nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	return writeEntry(dst, in, info.Mode().Perm())
}
