package platform

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// CreateSymlink creates a symbolic link at link pointing to target.
// On Windows it attempts os.Symlink first (requires developer mode), then
// falls back to copying the target file.
func CreateSymlink(target, link string) error {
	if runtime.GOOS != "windows" {
		return os.Symlink(target, link)
	}

	if err := os.Symlink(target, link); err == nil {
		return nil
	}

	if err := copyFileForSymlink(target, link); err != nil {
		return fmt.Errorf("symlink fallback (copy) failed: %w", err)
	}
	return nil
}

// WithinDir reports whether path, after cleaning, stays inside root.
func WithinDir(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// LinkStaysWithin reports whether a symlink at link pointing to target
// resolves to a location inside root. Absolute targets never do.
func LinkStaysWithin(root, link, target string) bool {
	if filepath.IsAbs(target) {
		return false
	}
	return WithinDir(root, filepath.Join(filepath.Dir(link), target))
}

// copyFileForSymlink copies src to dst. Relative targets resolve against the
// directory containing dst.
func copyFileForSymlink(src, dst string) error {
	resolvedSrc := src
	if !filepath.IsAbs(src) {
		resolvedSrc = filepath.Join(filepath.Dir(dst), src)
	}

	in, err := os.Open(resolvedSrc)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
