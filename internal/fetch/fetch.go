package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
)

// Mode selects how a template is retrieved.
type Mode string

// Supported modes.
const (
	ModeTar Mode = "tar"
	ModeGit Mode = "git"
)

// ParseMode validates a mode name. An empty string selects ModeTar.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeTar:
		return ModeTar, nil
	case ModeGit:
		return ModeGit, nil
	default:
		return "", fmt.Errorf("unknown fetch mode %q: must be %q or %q", s, ModeTar, ModeGit)
	}
}

var (
	// ErrNotFound means the repository or ref does not exist (or is private).
	ErrNotFound = errors.New("repository or ref not found")
	// ErrUnauthorized means the host rejected the request's credentials.
	ErrUnauthorized = errors.New("access denied")
	// ErrDestNotEmpty means the destination has files and Force is off.
	ErrDestNotEmpty = errors.New("destination directory is not empty")
	// ErrEmptyTemplate means the source produced no files.
	ErrEmptyTemplate = errors.New("template contains no files")
)

// Options control a fetch.
type Options struct {
	// Cache keeps downloaded archives and reuses them on later runs.
	Cache bool
	// Force writes into a non-empty destination, overwriting files.
	Force bool
	// Verbose logs each step at info level instead of debug.
	Verbose bool
	Mode    Mode
}

// Fetcher downloads templates.
type Fetcher struct {
	opts       Options
	httpClient *http.Client
	cacheDir   string
	logger     *log.Logger
	progress   io.Writer
	archiveURL func(Source) string
	cloneURL   func(Source) string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithCacheDir sets the directory used when Options.Cache is on.
func WithCacheDir(dir string) Option {
	return func(f *Fetcher) {
		f.cacheDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// WithProgress sets where the download spinner is drawn.
func WithProgress(w io.Writer) Option {
	return func(f *Fetcher) {
		f.progress = w
	}
}

// WithArchiveURL overrides how archive URLs are built (useful for testing
// against a local server).
func WithArchiveURL(fn func(Source) string) Option {
	return func(f *Fetcher) {
		f.archiveURL = fn
	}
}

// WithCloneURL overrides how git clone URLs are built.
func WithCloneURL(fn func(Source) string) Option {
	return func(f *Fetcher) {
		f.cloneURL = fn
	}
}

// New creates a Fetcher.
func New(opts Options, options ...Option) *Fetcher {
	if opts.Mode == "" {
		opts.Mode = ModeTar
	}
	f := &Fetcher{
		opts:       opts,
		httpClient: http.DefaultClient,
		progress:   os.Stderr,
		archiveURL: Source.ArchiveURL,
		cloneURL:   Source.CloneURL,
	}
	for _, opt := range options {
		opt(f)
	}
	if f.logger == nil {
		f.logger = log.Default()
	}
	return f
}

// Fetch writes the files of src into dest, creating dest if needed.
// A failure can leave dest partially written.
func (f *Fetcher) Fetch(ctx context.Context, src Source, dest string) error {
	if err := f.prepareDest(dest); err != nil {
		return err
	}

	var (
		count int
		err   error
	)
	switch f.opts.Mode {
	case ModeGit:
		count, err = f.fetchGit(ctx, src, dest)
	default:
		count, err = f.fetchTarball(ctx, src, dest)
	}
	if err != nil {
		return err
	}
	if count == 0 {
		if src.Subdir != "" {
			return fmt.Errorf("%w: no files under %q in %s", ErrEmptyTemplate, src.Subdir, src)
		}
		return fmt.Errorf("%w: %s", ErrEmptyTemplate, src)
	}

	f.info("cloned template", "source", src.String(), "dest", dest, "files", count)
	return nil
}

// prepareDest enforces the Force option. dest itself is created only once
// the template has been retrieved, so a failed download leaves nothing behind.
func (f *Fetcher) prepareDest(dest string) error {
	if !f.opts.Force {
		entries, err := os.ReadDir(dest)
		if err == nil && len(entries) > 0 {
			return fmt.Errorf("%w: %s (use force to override)", ErrDestNotEmpty, dest)
		}
	}
	return nil
}

// info logs at info level when verbose, debug otherwise.
func (f *Fetcher) info(msg string, keyvals ...interface{}) {
	if f.opts.Verbose {
		f.logger.Info(msg, keyvals...)
		return
	}
	f.logger.Debug(msg, keyvals...)
}
