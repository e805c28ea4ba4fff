package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/coldsurfers/create-mvp-surf/internal/config"
	"github.com/coldsurfers/create-mvp-surf/internal/fetch"
	"github.com/coldsurfers/create-mvp-surf/internal/installer"
	"github.com/coldsurfers/create-mvp-surf/internal/prompt"
	"github.com/coldsurfers/create-mvp-surf/internal/scaffold"
	"github.com/coldsurfers/create-mvp-surf/internal/updater"
)

// newRunContext builds the collaborators of one scaffolding run from the
// resolved settings.
func newRunContext(s config.Settings, logger *log.Logger, in io.Reader, out, errOut io.Writer) (*scaffold.RunContext, error) {
	src, err := fetch.ParseSource(s.Template)
	if err != nil {
		return nil, fmt.Errorf("invalid template %q: %w", s.Template, err)
	}
	mode, err := fetch.ParseMode(s.Mode)
	if err != nil {
		return nil, err
	}

	logger.Debug("settings", "template", src.String(), "mode", mode, "cache", s.Cache)

	fetcher := fetch.New(
		fetch.Options{Cache: s.Cache, Force: true, Verbose: s.Verbose, Mode: mode},
		fetch.WithCacheDir(config.CacheDir()),
		fetch.WithLogger(logger),
		fetch.WithProgress(errOut),
	)

	// The prompter buffers in, so the install child reads the process stdin
	// directly rather than whatever the buffer has not handed out yet.
	return &scaffold.RunContext{
		Stdout:   out,
		Stderr:   errOut,
		Prompter: prompt.New(in, out),
		Fetcher:  fetcher,
		Runner:   &installer.ExecRunner{Stdout: out, Stderr: errOut},
		Logger:   logger,
		Template: src,
	}, nil
}

// updateCheck is a release check running alongside the flow.
type updateCheck struct {
	done chan struct{}
}

func (c *updateCheck) wait() {
	if c.done != nil {
		<-c.done
	}
}

// startUpdateCheck prints a cached update banner and, when the cache is
// stale, refreshes it in the background for the next run.
func startUpdateCheck(ctx context.Context, w io.Writer, s config.Settings, logger *log.Logger) *updateCheck {
	check := &updateCheck{}
	if !s.Notify {
		return check
	}

	u := updater.New(buildVersion)
	if !u.CheckAndPrintBanner(w, config.Dir()) {
		return check
	}

	check.done = make(chan struct{})
	go func() {
		defer close(check.done)
		if err := u.Refresh(ctx, config.Dir()); err != nil {
			logger.Debug("update check failed", "err", err)
		}
	}()
	return check
}
