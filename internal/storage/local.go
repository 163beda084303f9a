package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

type LocalStorage struct {
	cacheDir string
}

func NewLocalStorage(cacheDir string) *LocalStorage {
	return &LocalStorage{cacheDir: cacheDir}
}

// Resolve returns the absolute path of an existing local video file.
func (s *LocalStorage) Resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to read video file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", abs)
	}

	return abs, nil
}

func (s *LocalStorage) EnsureDirectories(dirs ...string) error {
	for _, dir := range append([]string{s.cacheDir}, dirs...) {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
