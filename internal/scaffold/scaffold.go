package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/coldsurfers/create-mvp-surf/internal/branding"
	"github.com/coldsurfers/create-mvp-surf/internal/fetch"
	"github.com/coldsurfers/create-mvp-surf/internal/installer"
	"github.com/coldsurfers/create-mvp-surf/internal/logging"
	"github.com/coldsurfers/create-mvp-surf/internal/manifest"
	"github.com/coldsurfers/create-mvp-surf/internal/prompt"
)

// Session is the state of one run.
type Session struct {
	ProjectName      string
	TargetDir        string
	InstallRequested bool
	// Install is the command that ran, empty when installation was declined.
	Install string
	// InstallErr is set when the install command failed.
	InstallErr *InstallError
	// ManifestSkipped is true when the template has no package.json.
	ManifestSkipped bool
}

// Fetcher materializes a template source into a directory.
type Fetcher interface {
	Fetch(ctx context.Context, src fetch.Source, dest string) error
}

// RunContext carries everything the flow touches outside its own logic.
type RunContext struct {
	// Cwd is the directory the project is created in. Defaults to os.Getwd.
	Cwd    string
	Stdout io.Writer
	Stderr io.Writer

	Prompter prompt.Prompter
	Fetcher  Fetcher
	Runner   installer.Runner
	Logger   *log.Logger

	Template fetch.Source
	// Rules and Fallback select the install command. Default to
	// installer.DefaultRules and installer.DefaultFallback.
	Rules    []installer.Rule
	Fallback installer.Command
}

func (rc *RunContext) setDefaults() error {
	if rc.Cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}
		rc.Cwd = wd
	}
	if rc.Stdout == nil {
		rc.Stdout = os.Stdout
	}
	if rc.Stderr == nil {
		rc.Stderr = os.Stderr
	}
	if rc.Logger == nil {
		rc.Logger = logging.NewNop()
	}
	if rc.Rules == nil {
		rc.Rules = installer.DefaultRules
	}
	if rc.Fallback.Name == "" {
		rc.Fallback = installer.DefaultFallback
	}
	if rc.Prompter == nil || rc.Fetcher == nil || rc.Runner == nil {
		return errors.New("run context needs a prompter, a fetcher and a runner")
	}
	return nil
}

type flow struct {
	rc     *RunContext
	report *reporter
	state  State
}

func (f *flow) enter(s State) {
	f.rc.Logger.Debug("state", "from", f.state, "to", s)
	f.state = s
}

// Run executes the whole flow. The returned error is fatal (exit 1); an
// install failure is reported and recorded on the session instead.
func Run(ctx context.Context, rc *RunContext) (*Session, error) {
	if err := rc.setDefaults(); err != nil {
		return nil, err
	}
	f := &flow{
		rc:     rc,
		report: &reporter{out: rc.Stdout, err: rc.Stderr},
		state:  StateCollectingName,
	}

	session, err := f.run(ctx)
	if err != nil {
		f.enter(StateFailed)
		return session, err
	}
	f.enter(StateDone)
	return session, nil
}

func (f *flow) run(ctx context.Context) (*Session, error) {
	f.report.welcome(branding.DisplayName())

	session, err := f.collectName(ctx)
	if err != nil {
		return nil, err
	}

	f.enter(StateFetching)
	if err := f.fetch(ctx, session); err != nil {
		return session, err
	}

	f.enter(StatePatchingManifest)
	if err := f.patchManifest(session); err != nil {
		return session, err
	}

	f.enter(StateOfferingInstall)
	if err := f.offerInstall(ctx, session); err != nil {
		return session, err
	}

	f.report.done(session.ProjectName)
	return session, nil
}

func validateName(v string) error {
	if strings.TrimSpace(v) == "" {
		return &prompt.ValidationError{Message: "Please enter a name"}
	}
	return nil
}

func (f *flow) collectName(ctx context.Context) (*Session, error) {
	answer, err := f.rc.Prompter.AskText(ctx, prompt.TextQuestion{
		Message:  "Project folder name",
		Initial:  branding.DefaultProjectName(),
		Validate: validateName,
	})
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(answer)
	session := &Session{
		ProjectName: name,
		TargetDir:   filepath.Join(f.rc.Cwd, name),
	}

	if _, err := os.Stat(session.TargetDir); err == nil {
		return nil, &DirectoryExistsError{Name: name, Path: session.TargetDir}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking %s: %w", session.TargetDir, err)
	}

	f.rc.Logger.Debug("target resolved", "name", name, "dir", session.TargetDir)
	return session, nil
}

func (f *flow) fetch(ctx context.Context, s *Session) error {
	f.report.downloading(s.ProjectName)

	src := f.rc.Template
	if err := f.rc.Fetcher.Fetch(ctx, src, s.TargetDir); err != nil {
		return &FetchError{Source: src.String(), Err: err}
	}
	return nil
}

func (f *flow) patchManifest(s *Session) error {
	result, err := manifest.Patch(s.TargetDir, s.ProjectName)
	if err != nil {
		if errors.Is(err, manifest.ErrMalformed) {
			return &ManifestParseError{Path: filepath.Join(s.TargetDir, manifest.FileName), Err: err}
		}
		return fmt.Errorf("updating %s: %w", manifest.FileName, err)
	}

	if result.Skipped {
		s.ManifestSkipped = true
		f.rc.Logger.Debug("no manifest in template", "path", result.Path)
		return nil
	}
	f.report.warnings(manifest.FileName, result.Warnings)
	return nil
}

func (f *flow) offerInstall(ctx context.Context, s *Session) error {
	install, err := f.rc.Prompter.AskConfirm(ctx, prompt.ConfirmQuestion{
		Message:  "Install dependencies now?",
		Initial:  true,
		Active:   "yes",
		Inactive: "later",
	})
	if err != nil {
		return err
	}
	s.InstallRequested = install

	if !install {
		f.enter(StateSkipped)
		return nil
	}

	f.enter(StateInstalling)
	cmd := installer.Select(s.TargetDir, f.rc.Rules, f.rc.Fallback)
	s.Install = cmd.String()
	f.report.installing(s.Install)

	if err := f.rc.Runner.Run(ctx, s.TargetDir, cmd); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("installing dependencies: %w", ctx.Err())
		}
		s.InstallErr = &InstallError{Command: s.Install, Err: err}
		f.rc.Logger.Debug("install failed", "command", s.Install, "err", err)
		f.report.installFailed(s.InstallErr)
	}
	return nil
}
