package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const fileSuffix = ".json"

// FileBackend stores one JSON file per domain under a directory, so cached
// payloads survive process restarts. A populated file cache from an earlier
// deployment is what makes the legacy-data migration path reachable.
type FileBackend struct {
	dir string
}

// NewFileBackend creates the directory if needed and returns the backend.
func NewFileBackend(dir string) (*FileBackend, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("cache: file backend requires a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(domain string) (string, error) {
	if domain == "" || strings.ContainsAny(domain, `/\.`) {
		return "", fmt.Errorf("cache: invalid domain %q", domain)
	}
	return filepath.Join(b.dir, domain+fileSuffix), nil
}

// Load reads the domain's file.
func (b *FileBackend) Load(domain string) ([]byte, bool, error) {
	path, err := b.path(domain)
	if err != nil {
		return nil, false, err
	}

	blob, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return blob, true, nil
}

// Store writes the blob atomically via a temp file and rename.
func (b *FileBackend) Store(domain string, blob []byte) error {
	path, err := b.path(domain)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.dir, domain+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// Remove deletes the domain's file.
func (b *FileBackend) Remove(domain string) error {
	path, err := b.path(domain)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Domains lists every domain with a stored file.
func (b *FileBackend) Domains() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, err
	}

	domains := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		domains = append(domains, strings.TrimSuffix(name, fileSuffix))
	}
	return domains, nil
}
