package updater

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// IsUpdateAvailable reports whether latest is newer than current. Either may
// carry a leading "v", as release tags usually do.
func IsUpdateAvailable(current, latest string) (bool, error) {
	cv, err := parseSemver(current)
	if err != nil {
		return false, fmt.Errorf("parsing current version %q: %w", current, err)
	}
	lv, err := parseSemver(latest)
	if err != nil {
		return false, fmt.Errorf("parsing latest version %q: %w", latest, err)
	}
	return lv.GreaterThan(cv), nil
}

func parseSemver(version string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimSpace(version))
}
