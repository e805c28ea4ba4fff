package fetch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const cacheIndexFile = "map.json"

// CacheEntry records one cached archive.
type CacheEntry struct {
	Archive   string    `json:"archive"`
	FetchedAt time.Time `json:"fetched_at"`
}

// CacheIndex maps refs to cached archives for one repository.
type CacheIndex map[string]CacheEntry

// repoCacheDir returns <cacheDir>/<site>/<user>/<repo>.
func repoCacheDir(cacheDir string, src Source) string {
	return filepath.Join(cacheDir, src.Site, src.User, src.Name)
}

// archiveFileName turns a ref into a flat file name ("feature/x" -> "feature_x.tar.gz").
func archiveFileName(ref string) string {
	return strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(ref) + ".tar.gz"
}

// LoadCacheIndex reads the cache index of a repository.
// Returns an empty index if the file does not exist (first run).
func LoadCacheIndex(dir string) (CacheIndex, error) {
	path := filepath.Join(dir, cacheIndexFile)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return CacheIndex{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache index: %w", err)
	}

	index := CacheIndex{}
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("parsing cache index: %w", err)
	}
	return index, nil
}

// SaveCacheIndex writes the cache index of a repository.
func SaveCacheIndex(dir string, index CacheIndex) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache index: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, cacheIndexFile), data, 0644); err != nil {
		return fmt.Errorf("writing cache index: %w", err)
	}
	return nil
}

// cachedArchive returns the path of a cached archive for src, if one exists.
func cachedArchive(cacheDir string, src Source) (string, bool) {
	dir := repoCacheDir(cacheDir, src)
	index, err := LoadCacheIndex(dir)
	if err != nil {
		return "", false
	}
	entry, ok := index[src.Ref]
	if !ok {
		return "", false
	}
	path := filepath.Join(dir, entry.Archive)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// recordArchive adds src's archive to the repository's cache index.
func recordArchive(cacheDir string, src Source, fileName string) error {
	dir := repoCacheDir(cacheDir, src)
	index, err := LoadCacheIndex(dir)
	if err != nil {
		// A corrupt index is replaced rather than blocking the fetch.
		index = CacheIndex{}
	}
	index[src.Ref] = CacheEntry{Archive: fileName, FetchedAt: time.Now()}
	return SaveCacheIndex(dir, index)
}
