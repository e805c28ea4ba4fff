package fetch

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"

	"github.com/coldsurfers/create-mvp-surf/internal/platform"
)

const userAgent = "create-mvp-surf"

// fetchTarball downloads (or reuses) the archive of src and extracts it.
func (f *Fetcher) fetchTarball(ctx context.Context, src Source, dest string) (int, error) {
	archive, cleanup, err := f.obtainArchive(ctx, src)
	if err != nil {
		return 0, err
	}
	defer cleanup()

	return f.extractTarGz(archive, dest, src.Subdir)
}

// obtainArchive returns a local path to the archive of src. The cleanup
// function removes temporary downloads and leaves cached archives alone.
func (f *Fetcher) obtainArchive(ctx context.Context, src Source) (string, func(), error) {
	noop := func() {}

	if f.opts.Cache && f.cacheDir != "" {
		if cached, ok := cachedArchive(f.cacheDir, src); ok {
			f.info("using cached archive", "source", src.String(), "path", cached)
			return cached, noop, nil
		}

		dir := repoCacheDir(f.cacheDir, src)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", noop, fmt.Errorf("creating cache directory: %w", err)
		}
		name := archiveFileName(src.Ref)
		destPath := filepath.Join(dir, name)
		if err := f.download(ctx, src, destPath); err != nil {
			_ = os.Remove(destPath)
			return "", noop, err
		}
		if err := recordArchive(f.cacheDir, src, name); err != nil {
			f.logger.Warn("could not update template cache", "err", err)
		}
		return destPath, noop, nil
	}

	tmp, err := os.CreateTemp("", "create-mvp-surf-*.tar.gz")
	if err != nil {
		return "", noop, fmt.Errorf("creating temporary archive: %w", err)
	}
	tmp.Close()
	cleanup := func() { _ = os.Remove(tmp.Name()) }

	if err := f.download(ctx, src, tmp.Name()); err != nil {
		cleanup()
		return "", noop, err
	}
	return tmp.Name(), cleanup, nil
}

// download fetches the archive of src into destPath.
func (f *Fetcher) download(ctx context.Context, src Source, destPath string) error {
	url := f.archiveURL(src)
	f.info("downloading template", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	// Support an optional GitHub token for private templates.
	if src.Site == SiteGitHub {
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			req.Header.Set("Authorization", "token "+token)
		}
	}

	// Verbose runs log each file instead.
	if !f.opts.Verbose {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(f.progress))
		s.Suffix = " Downloading " + src.Repo()
		s.Start()
		defer s.Stop()
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", src, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("could not find ref %q of %s: %w", src.Ref, src.URL(), ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("downloading %s returned status %d (set GITHUB_TOKEN for private repositories): %w", src.URL(), resp.StatusCode, ErrUnauthorized)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("download of %s returned status %d", src.URL(), resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating download file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("reading download stream: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("writing download file: %w", err)
	}
	return nil
}

// extractTarGz writes the archive's files into dest. The archive's single
// top-level directory is stripped; when subdir is set only entries below it
// are written, relative to it. Returns the number of files written.
func (f *Fetcher) extractTarGz(archivePath, dest, subdir string) (int, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return 0, fmt.Errorf("opening archive: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return 0, fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gz.Close()

	if err := os.MkdirAll(dest, platform.DefaultDirMode); err != nil {
		return 0, fmt.Errorf("creating destination directory: %w", err)
	}

	count := 0
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("reading tar entry: %w", err)
		}

		rel, ok := entryPath(hdr.Name, subdir)
		if !ok {
			continue
		}

		target := filepath.Join(dest, filepath.FromSlash(rel))
		if !platform.WithinDir(dest, target) {
			return count, fmt.Errorf("archive entry %q escapes the destination directory", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, platform.DefaultDirMode); err != nil {
				return count, fmt.Errorf("creating directory %s: %w", rel, err)
			}

		case tar.TypeReg:
			if err := writeEntry(target, tr, platform.FileMode(hdr.Mode)); err != nil {
				return count, fmt.Errorf("extracting %s: %w", rel, err)
			}
			f.info("extracted", "file", rel)
			count++

		case tar.TypeSymlink:
			if !platform.LinkStaysWithin(dest, target, hdr.Linkname) {
				f.logger.Debug("skipping symlink outside template", "file", rel, "target", hdr.Linkname)
				continue
			}
			if err := os.MkdirAll(filepath.Dir(target), platform.DefaultDirMode); err != nil {
				return count, fmt.Errorf("creating directory for %s: %w", rel, err)
			}
			_ = os.Remove(target)
			if err := platform.CreateSymlink(hdr.Linkname, target); err != nil {
				return count, fmt.Errorf("linking %s: %w", rel, err)
			}
			count++
		}
	}

	return count, nil
}

// entryPath maps an archive entry name to a path relative to the
// destination. It reports false for entries that are not written: the
// top-level directory, pax headers, VCS metadata and anything outside subdir.
func entryPath(name, subdir string) (string, bool) {
	name = strings.TrimSuffix(strings.TrimPrefix(name, "./"), "/")

	idx := strings.Index(name, "/")
	if idx < 0 {
		return "", false
	}
	rel := name[idx+1:]

	if subdir != "" {
		if rel == subdir || !strings.HasPrefix(rel, subdir+"/") {
			return "", false
		}
		rel = strings.TrimPrefix(rel, subdir+"/")
	}

	first, _, _ := strings.Cut(rel, "/")
	if rel == "" || first == ".git" {
		return "", false
	}
	return rel, true
}

// writeEntry writes r to target, creating parent directories and applying mode.
func writeEntry(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), platform.DefaultDirMode); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	// OpenFile ignores mode for files that already existed.
	return platform.Chmod(target, mode)
}
