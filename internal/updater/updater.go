package updater

import (
	"net/http"
	"time"

	"github.com/coldsurfers/create-mvp-surf/internal/branding"
)

const defaultAPIBase = "https://api.github.com"

// Release is the subset of a GitHub release the notice needs.
type Release struct {
	Version   string    `json:"tag_name"`
	Published time.Time `json:"published_at"`
	HTMLURL   string    `json:"html_url"`
}

// Updater checks for releases newer than the running binary.
type Updater struct {
	currentVersion string
	httpClient     *http.Client
	apiBase        string
	repo           string
}

// Option configures an Updater.
type Option func(*Updater)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(u *Updater) {
		u.httpClient = c
	}
}

// WithAPIBase points the updater at a different GitHub API host.
func WithAPIBase(base string) Option {
	return func(u *Updater) {
		u.apiBase = base
	}
}

// WithRepo overrides the "owner/repo" whose releases are checked.
func WithRepo(repo string) Option {
	return func(u *Updater) {
		u.repo = repo
	}
}

// New creates an Updater for the given running version.
func New(currentVersion string, opts ...Option) *Updater {
	u := &Updater{
		currentVersion: currentVersion,
		httpClient:     &http.Client{Timeout: 5 * time.Second},
		apiBase:        defaultAPIBase,
		repo:           branding.ReleaseRepo(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// CurrentVersion returns the version this updater was created with.
func (u *Updater) CurrentVersion() string {
	return u.currentVersion
}

// Enabled reports whether the running version can be compared at all.
// Development builds never show the banner.
func (u *Updater) Enabled() bool {
	_, err := parseSemver(u.currentVersion)
	return err == nil
}
