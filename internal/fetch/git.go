package fetch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// fetchGit shallow-clones src into a temporary directory and copies the
// tree, minus .git, into dest.
func (f *Fetcher) fetchGit(ctx context.Context, src Source, dest string) (int, error) {
	if err := ensureGit(); err != nil {
		return 0, err
	}

	tmpDir, err := os.MkdirTemp("", "create-mvp-surf-clone-*")
	if err != nil {
		return 0, fmt.Errorf("creating temporary clone directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	repoDir := filepath.Join(tmpDir, src.Name)
	args := []string{"clone", "--depth=1", "--quiet"}
	if src.Ref != "" && src.Ref != DefaultRef {
		args = append(args, "--branch", src.Ref)
	}
	args = append(args, f.cloneURL(src), repoDir)

	f.info("cloning template", "url", f.cloneURL(src), "ref", src.Ref)
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	if output, err := cmd.CombinedOutput(); err != nil {
		return 0, fmt.Errorf("cloning %s: %w\n%s", src, err, strings.TrimSpace(string(output)))
	}

	root := repoDir
	if src.Subdir != "" {
		root = filepath.Join(repoDir, filepath.FromSlash(src.Subdir))
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			return 0, fmt.Errorf("%w: no directory %q in %s", ErrEmptyTemplate, src.Subdir, src)
		}
	}

	count, err := copyTree(root, dest, f.info)
	if err != nil {
		return count, fmt.Errorf("copying template files: %w", err)
	}
	return count, nil
}

// ensureGit checks that git is available on PATH.
func ensureGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git is required for the git fetch mode but was not found in PATH")
	}
	return nil
}
