//go:build integration

package integration_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/coldsurfers/create-mvp-surf/internal/fetch"
	"github.com/coldsurfers/create-mvp-surf/internal/installer"
	"github.com/coldsurfers/create-mvp-surf/internal/logging"
	"github.com/coldsurfers/create-mvp-surf/internal/prompt"
	"github.com/coldsurfers/create-mvp-surf/internal/scaffold"
)

// templateFiles is the content of the fake remote template, relative to the
// archive's top-level directory.
var templateFiles = map[string]string{
	"package.json": `{
  "name": "mvp-surf",
  "version": "0.0.1",
  "private": true,
  "scripts": {
    "start": "vite"
  },
  "dependencies": {
    "react": "^19.0.0"
  }
}
`,
	"index.html":     "<!doctype html>\n",
	"src/main.tsx":   "export {}\n",
	"pnpm-lock.yaml": "lockfileVersion: '9.0'\n",
}

// tarballServer serves templateFiles as a GitHub-style tarball and counts
// the downloads.
type tarballServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newTarballServer(t *testing.T) *tarballServer {
	t.Helper()
	archive := buildTemplateArchive(t)
	s := &tarballServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if r.URL.Path != "/coldsurfers/create-mvp-surf/main.tar.gz" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/x-gzip")
		w.Write(archive)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *tarballServer) archiveURL(src fetch.Source) string {
	return s.URL + "/" + src.Repo() + "/" + src.Ref + ".tar.gz"
}

func buildTemplateArchive(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	names := make([]string, 0, len(templateFiles))
	for name := range templateFiles {
		names = append(names, name)
	}
	sort.Strings(names)

	const root = "create-mvp-surf-main/"
	if err := tw.WriteHeader(&tar.Header{Name: root, Typeflag: tar.TypeDir, Mode: 0755}); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		body := templateFiles[name]
		hdr := &tar.Header{Name: root + name, Typeflag: tar.TypeReg, Mode: 0644, Size: int64(len(body))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// testEnv is one sandboxed run of the scaffolder.
type testEnv struct {
	Cwd      string
	CacheDir string
	Server   *tarballServer
	Stdout   *bytes.Buffer
	Stderr   *bytes.Buffer
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		Cwd:      t.TempDir(),
		CacheDir: filepath.Join(t.TempDir(), "cache"),
		Server:   newTarballServer(t),
		Stdout:   &bytes.Buffer{},
		Stderr:   &bytes.Buffer{},
	}
}

// runContext wires real collaborators: a terminal prompter reading input,
// a tarball fetcher pointed at the test server and a process runner.
func (e *testEnv) runContext(t *testing.T, input string, opts fetch.Options, install installer.Command) *scaffold.RunContext {
	t.Helper()
	src, err := fetch.ParseSource("coldsurfers/create-mvp-surf#main")
	if err != nil {
		t.Fatal(err)
	}
	e.Stdout.Reset()
	e.Stderr.Reset()

	logger := logging.NewWithWriter(e.Stderr, true)
	return &scaffold.RunContext{
		Cwd:      e.Cwd,
		Stdout:   e.Stdout,
		Stderr:   e.Stderr,
		Prompter: prompt.New(strings.NewReader(input), e.Stdout),
		Fetcher: fetch.New(opts,
			fetch.WithCacheDir(e.CacheDir),
			fetch.WithLogger(logger),
			fetch.WithProgress(e.Stderr),
			fetch.WithArchiveURL(e.Server.archiveURL),
		),
		Runner:   &installer.ExecRunner{Stdin: strings.NewReader(""), Stdout: e.Stdout, Stderr: e.Stderr},
		Logger:   logger,
		Template: src,
		Rules:    []installer.Rule{{Marker: "pnpm-lock.yaml", Command: install}},
		Fallback: installer.Command{Name: "false"},
	}
}

func shell(script string) installer.Command {
	return installer.Command{Name: "sh", Args: []string{"-c", script}}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
