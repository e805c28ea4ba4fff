package fetch

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/coldsurfers/create-mvp-surf/internal/logging"
)

// tarEntry describes one archive member. Dirs end with "/".
type tarEntry struct {
	Name     string
	Body     string
	Mode     int64
	Linkname string
}

// buildArchive returns a gzipped tarball of entries.
func buildArchive(t *testing.T, entries []tarEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for _, e := range entries {
		hdr := &tar.Header{Name: e.Name, Mode: e.Mode}
		switch {
		case e.Linkname != "":
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = e.Linkname
		case strings.HasSuffix(e.Name, "/"):
			hdr.Typeflag = tar.TypeDir
			if hdr.Mode == 0 {
				hdr.Mode = 0755
			}
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.Body))
			if hdr.Mode == 0 {
				hdr.Mode = 0644
			}
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("writing tar header %s: %v", e.Name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(e.Body)); err != nil {
				t.Fatalf("writing tar body %s: %v", e.Name, err)
			}
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

// templateArchive is a small template as served by codeload.
func templateArchive(t *testing.T) []byte {
	return buildArchive(t, []tarEntry{
		{Name: "create-mvp-surf-main/"},
		{Name: "create-mvp-surf-main/package.json", Body: `{"name": "create-mvp-surf", "version": "0.1.0"}`},
		{Name: "create-mvp-surf-main/src/"},
		{Name: "create-mvp-surf-main/src/index.ts", Body: "export {}\n"},
		{Name: "create-mvp-surf-main/scripts/dev.sh", Body: "#!/bin/sh\n", Mode: 0755},
		{Name: "create-mvp-surf-main/.git/HEAD", Body: "ref: refs/heads/main\n"},
	})
}

// archiveServer serves body for every request and counts hits.
func archiveServer(t *testing.T, status int, body []byte) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(status)
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

// newTestFetcher builds a Fetcher that downloads from srv.
func newTestFetcher(srv *httptest.Server, opts Options, extra ...Option) *Fetcher {
	options := []Option{
		WithHTTPClient(srv.Client()),
		WithLogger(logging.NewNop()),
		WithProgress(&bytes.Buffer{}),
		WithArchiveURL(func(s Source) string { return srv.URL + "/" + s.Repo() + "/tar.gz/" + s.Ref }),
	}
	return New(opts, append(options, extra...)...)
}

var testSource = Source{Site: "github", User: "coldsurfers", Name: "create-mvp-surf", Ref: "main"}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected %s not to exist", path)
	}
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}

func join(elem ...string) string { return filepath.Join(elem...) }
