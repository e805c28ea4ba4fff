package updater

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/coldsurfers/create-mvp-surf/internal/platform"
)

const (
	checkFileName = "release-check.json"
	// DefaultCheckMaxAge is how long a release check stays fresh.
	DefaultCheckMaxAge = 24 * time.Hour
)

// ReleaseCheck records the latest release of Repo as seen by the binary
// running CurrentVersion. It only answers for that repo and version.
type ReleaseCheck struct {
	Repo            string    `json:"repo"`
	CurrentVersion  string    `json:"current_version"`
	LatestVersion   string    `json:"latest_version"`
	ReleaseURL      string    `json:"release_url,omitempty"`
	CheckedAt       time.Time `json:"checked_at"`
	UpdateAvailable bool      `json:"update_available"`
}

// ReadCheck reads the last release check from dir.
// Returns nil, nil before the first check.
func ReadCheck(dir string) (*ReleaseCheck, error) {
	data, err := os.ReadFile(filepath.Join(dir, checkFileName))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading release check: %w", err)
	}

	var check ReleaseCheck
	if err := json.Unmarshal(data, &check); err != nil {
		return nil, fmt.Errorf("parsing release check: %w", err)
	}
	return &check, nil
}

// WriteCheck stores check in dir. The file is replaced in one rename so a
// concurrent run never reads half of it.
func WriteCheck(dir string, check *ReleaseCheck) error {
	if err := os.MkdirAll(dir, platform.DefaultDirMode); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(check, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding release check: %w", err)
	}

	tmp, err := os.CreateTemp(dir, checkFileName+".*")
	if err != nil {
		return fmt.Errorf("writing release check: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing release check: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing release check: %w", err)
	}
	if err := os.Chmod(tmp.Name(), platform.DefaultFileMode); err != nil {
		return fmt.Errorf("writing release check: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, checkFileName)); err != nil {
		return fmt.Errorf("writing release check: %w", err)
	}
	return nil
}

// appliesTo reports whether c was recorded for repo by the given version.
func (c *ReleaseCheck) appliesTo(repo, version string) bool {
	return c != nil && c.Repo == repo && c.CurrentVersion == version
}

// Expired is true when c is nil or older than maxAge.
func (c *ReleaseCheck) Expired(maxAge time.Duration) bool {
	if c == nil {
		return true
	}
	return time.Since(c.CheckedAt) > maxAge
}
