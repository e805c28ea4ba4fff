package scaffold

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coldsurfers/create-mvp-surf/internal/fetch"
	"github.com/coldsurfers/create-mvp-surf/internal/installer"
	"github.com/coldsurfers/create-mvp-surf/internal/prompt"
)

// fakePrompter answers text questions from a queue, running the validator
// like a terminal would.
type fakePrompter struct {
	texts    []string
	confirm  bool
	err      error
	asked    []string
	rejected int
}

func (p *fakePrompter) AskText(ctx context.Context, q prompt.TextQuestion) (string, error) {
	p.asked = append(p.asked, q.Message)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for len(p.texts) > 0 {
		answer := p.texts[0]
		p.texts = p.texts[1:]
		if answer == "" {
			answer = q.Initial
		}
		if q.Validate != nil {
			if err := q.Validate(answer); err != nil {
				p.rejected++
				continue
			}
		}
		return answer, nil
	}
	return "", prompt.ErrAborted
}

func (p *fakePrompter) AskConfirm(ctx context.Context, q prompt.ConfirmQuestion) (bool, error) {
	p.asked = append(p.asked, q.Message)
	if p.err != nil {
		return false, p.err
	}
	return p.confirm, nil
}

// fakeFetcher writes a fixed set of files into dest.
type fakeFetcher struct {
	files map[string]string
	err   error
	calls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, src fetch.Source, dest string) error {
	f.calls = append(f.calls, dest)
	if f.err != nil {
		return f.err
	}
	for name, content := range f.files {
		path := filepath.Join(dest, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

type fakeRunner struct {
	err  error
	runs []string
	dirs []string
}

func (r *fakeRunner) Run(ctx context.Context, dir string, cmd installer.Command) error {
	r.runs = append(r.runs, cmd.String())
	r.dirs = append(r.dirs, dir)
	return r.err
}

const templateManifest = `{
  "name": "mvp-surf-template",
  "version": "0.1.0",
  "private": true,
  "scripts": {
    "start": "vite"
  }
}
`

type harness struct {
	rc       *RunContext
	prompter *fakePrompter
	fetcher  *fakeFetcher
	runner   *fakeRunner
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
}

func newHarness(t *testing.T, answers ...string) *harness {
	t.Helper()
	src, err := fetch.ParseSource("coldsurfers/create-mvp-surf#main")
	if err != nil {
		t.Fatal(err)
	}
	h := &harness{
		prompter: &fakePrompter{texts: answers, confirm: true},
		fetcher: &fakeFetcher{files: map[string]string{
			"package.json": templateManifest,
			"src/main.ts":  "console.log('surf')\n",
		}},
		runner: &fakeRunner{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	h.rc = &RunContext{
		Cwd:      t.TempDir(),
		Stdout:   h.stdout,
		Stderr:   h.stderr,
		Prompter: h.prompter,
		Fetcher:  h.fetcher,
		Runner:   h.runner,
		Template: src,
	}
	return h
}

func readManifestName(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		t.Fatal(err)
	}
	marker := `"name": "`
	i := strings.Index(string(data), marker)
	if i < 0 {
		t.Fatalf("no name in manifest:\n%s", data)
	}
	rest := string(data[i+len(marker):])
	return rest[:strings.Index(rest, `"`)]
}

func TestRunDefaultName(t *testing.T) {
	h := newHarness(t, "")

	session, err := Run(context.Background(), h.rc)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if session.ProjectName != "mvp-surf-app" {
		t.Errorf("ProjectName = %q, want %q", session.ProjectName, "mvp-surf-app")
	}
	if session.TargetDir != filepath.Join(h.rc.Cwd, "mvp-surf-app") {
		t.Errorf("TargetDir = %q", session.TargetDir)
	}
	if got := readManifestName(t, session.TargetDir); got != "mvp-surf-app" {
		t.Errorf("manifest name = %q", got)
	}
	if len(h.runner.runs) != 1 || h.runner.runs[0] != "npm install" {
		t.Errorf("runs = %v, want [npm install]", h.runner.runs)
	}
	if h.runner.dirs[0] != session.TargetDir {
		t.Errorf("install ran in %q, want %q", h.runner.dirs[0], session.TargetDir)
	}

	out := h.stdout.String()
	for _, want := range []string{"Project created", "  cd mvp-surf-app", "  npm run start"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestRunTrimsAndKeepsInnerSpaces(t *testing.T) {
	h := newHarness(t, "  my app  ")

	session, err := Run(context.Background(), h.rc)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if session.ProjectName != "my app" {
		t.Errorf("ProjectName = %q, want %q", session.ProjectName, "my app")
	}
	if got := readManifestName(t, session.TargetDir); got != "my app" {
		t.Errorf("manifest name = %q, want %q", got, "my app")
	}
	if !strings.Contains(h.stdout.String(), "  cd my app") {
		t.Errorf("stdout missing cd line:\n%s", h.stdout.String())
	}
	// "my app" is not a valid npm package name; that is a warning only.
	if !strings.Contains(h.stderr.String(), "package.json") {
		t.Errorf("expected a manifest warning on stderr, got %q", h.stderr.String())
	}
}

func TestRunBlankNameReprompts(t *testing.T) {
	h := newHarness(t, "   ", "surf")

	session, err := Run(context.Background(), h.rc)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if h.prompter.rejected != 1 {
		t.Errorf("rejected = %d, want 1", h.prompter.rejected)
	}
	if session.ProjectName != "surf" {
		t.Errorf("ProjectName = %q", session.ProjectName)
	}
}

func TestRunDirectoryExists(t *testing.T) {
	h := newHarness(t, "taken")
	if err := os.Mkdir(filepath.Join(h.rc.Cwd, "taken"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := Run(context.Background(), h.rc)

	var dirErr *DirectoryExistsError
	if !errors.As(err, &dirErr) {
		t.Fatalf("err = %v, want DirectoryExistsError", err)
	}
	if dirErr.Name != "taken" {
		t.Errorf("Name = %q", dirErr.Name)
	}
	if len(h.fetcher.calls) != 0 {
		t.Error("fetcher must not run when the directory exists")
	}
	if len(h.prompter.asked) != 1 {
		t.Errorf("asked %v, want only the name prompt", h.prompter.asked)
	}
}

func TestRunFetchFailure(t *testing.T) {
	h := newHarness(t, "app")
	h.fetcher.err = fetch.ErrNotFound

	_, err := Run(context.Background(), h.rc)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("err = %v, want FetchError", err)
	}
	if !errors.Is(err, fetch.ErrNotFound) {
		t.Error("FetchError should unwrap to the fetch error")
	}
	if fetchErr.Source != "github:coldsurfers/create-mvp-surf#main" {
		t.Errorf("Source = %q", fetchErr.Source)
	}
	if len(h.runner.runs) != 0 {
		t.Error("installer must not run after a fetch failure")
	}
}

func TestRunMalformedManifest(t *testing.T) {
	h := newHarness(t, "app")
	h.fetcher.files["package.json"] = `{"name": `

	_, err := Run(context.Background(), h.rc)

	var manifestErr *ManifestParseError
	if !errors.As(err, &manifestErr) {
		t.Fatalf("err = %v, want ManifestParseError", err)
	}
	if filepath.Base(manifestErr.Path) != "package.json" {
		t.Errorf("Path = %q", manifestErr.Path)
	}
	if len(h.prompter.asked) != 1 {
		t.Error("install must not be offered after a manifest failure")
	}
}

func TestRunWithoutManifest(t *testing.T) {
	h := newHarness(t, "app")
	delete(h.fetcher.files, "package.json")

	session, err := Run(context.Background(), h.rc)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !session.ManifestSkipped {
		t.Error("ManifestSkipped = false")
	}
	if _, err := os.Stat(filepath.Join(session.TargetDir, "package.json")); !os.IsNotExist(err) {
		t.Error("package.json must not be created")
	}
}

func TestRunInstallFailureStillCompletes(t *testing.T) {
	h := newHarness(t, "app")
	h.fetcher.files["yarn.lock"] = ""
	h.runner.err = errors.New("exit status 1")

	session, err := Run(context.Background(), h.rc)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if session.InstallErr == nil || session.InstallErr.Command != "yarn" {
		t.Errorf("InstallErr = %v, want yarn failure", session.InstallErr)
	}
	if !strings.Contains(h.stderr.String(), "Installing packages failed") {
		t.Errorf("stderr missing install warning:\n%s", h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), "Project created") {
		t.Error("completion message must still be printed")
	}
}

func TestRunInstallDeclined(t *testing.T) {
	h := newHarness(t, "app")
	h.prompter.confirm = false

	session, err := Run(context.Background(), h.rc)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if session.InstallRequested {
		t.Error("InstallRequested = true")
	}
	if len(h.runner.runs) != 0 {
		t.Errorf("runner ran %v", h.runner.runs)
	}
	if !strings.Contains(h.stdout.String(), "  cd app") {
		t.Error("completion message must be printed")
	}
}

func TestRunPnpmLockfile(t *testing.T) {
	h := newHarness(t, "app")
	h.fetcher.files["pnpm-lock.yaml"] = "lockfileVersion: '9.0'\n"
	h.fetcher.files["yarn.lock"] = ""

	if _, err := Run(context.Background(), h.rc); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(h.runner.runs) != 1 || h.runner.runs[0] != "pnpm install" {
		t.Errorf("runs = %v, want [pnpm install]", h.runner.runs)
	}
}

func TestRunInterruptedInstall(t *testing.T) {
	h := newHarness(t, "app")
	ctx, cancel := context.WithCancel(context.Background())
	h.runner.err = errors.New("signal: interrupt")
	h.rc.Runner = runnerFunc(func(context.Context, string, installer.Command) error {
		cancel()
		return h.runner.err
	})

	_, err := Run(ctx, h.rc)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRunAbortedPrompt(t *testing.T) {
	h := newHarness(t)

	_, err := Run(context.Background(), h.rc)
	if !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}
	var unexpected *UnexpectedError
	if !errors.As(Classify(err), &unexpected) {
		t.Error("an aborted prompt is reported as unexpected")
	}
}

func TestRunInterruptedPrompt(t *testing.T) {
	h := newHarness(t, "app")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, h.rc)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(h.fetcher.calls) != 0 {
		t.Errorf("fetch ran after the prompt was interrupted: %v", h.fetcher.calls)
	}
}

type runnerFunc func(ctx context.Context, dir string, cmd installer.Command) error

func (f runnerFunc) Run(ctx context.Context, dir string, cmd installer.Command) error {
	return f(ctx, dir, cmd)
}
