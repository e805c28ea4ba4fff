package updater

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/coldsurfers/create-mvp-surf/internal/branding"
)

// CheckAndPrintBanner prints the update banner from the last release check
// and reports whether that check needs a refresh. It never touches the
// network. A check recorded for another repo or another binary version is
// ignored and refreshed.
func (u *Updater) CheckAndPrintBanner(w io.Writer, dir string) (stale bool) {
	if !u.Enabled() {
		return false
	}
	check, err := ReadCheck(dir)
	if err != nil {
		return true
	}
	if !check.appliesTo(u.repo, u.currentVersion) {
		return true
	}

	if check.UpdateAvailable {
		PrintUpdateBanner(w, check.CurrentVersion, check.LatestVersion, check.ReleaseURL)
	}
	return check.Expired(DefaultCheckMaxAge)
}

// PrintUpdateBanner prints the update notification to w.
func PrintUpdateBanner(w io.Writer, current, latest, url string) {
	color.New(color.FgYellow).Fprintf(w, "\nUpdate available for %s: %s -> %s\n", branding.CLIName(), current, latest)
	if url != "" {
		fmt.Fprintf(w, "    %s\n", url)
	}
	fmt.Fprintln(w)
}

// Refresh checks the latest release and rewrites the release check. Errors are
// returned for logging only; callers never fail on them.
func (u *Updater) Refresh(ctx context.Context, dir string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	release, err := u.LatestRelease(ctx)
	if err != nil {
		return err
	}

	available, err := IsUpdateAvailable(u.currentVersion, release.Version)
	if err != nil {
		return err
	}

	return WriteCheck(dir, &ReleaseCheck{
		Repo:            u.repo,
		CurrentVersion:  u.currentVersion,
		LatestVersion:   release.Version,
		ReleaseURL:      release.HTMLURL,
		CheckedAt:       time.Now(),
		UpdateAvailable: available,
	})
}
