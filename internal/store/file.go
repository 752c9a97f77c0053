package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileKV stores each key as a JSON file under a root directory. Keys may
// contain "/" separators, which map onto subdirectories.
type FileKV struct {
	rootPath string
}

// NewFileKV creates a file-backed key-value store rooted at rootPath. An
// empty rootPath defaults to ~/.promptpad.
func NewFileKV(rootPath string) (*FileKV, error) {
	if rootPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		rootPath = filepath.Join(homeDir, ".promptpad")
	}

	if err := os.MkdirAll(rootPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &FileKV{rootPath: rootPath}, nil
}

// pathFor maps a key to its file on disk
func (f *FileKV) pathFor(key string) string {
	return filepath.Join(f.rootPath, filepath.FromSlash(key)+".json")
}

// Get returns the value stored under key, or ErrKeyNotFound
func (f *FileKV) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(f.pathFor(key))
	if os.IsNotExist(err) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Set writes value under key, creating parent directories as needed
func (f *FileKV) Set(key string, value []byte) error {
	fullPath := f.pathFor(key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(fullPath, value, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}

// Remove deletes key; missing keys are a no-op
func (f *FileKV) Remove(key string) error {
	err := os.Remove(f.pathFor(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// ListKeys walks the root directory and returns every key with the given
// prefix.
func (f *FileKV) ListKeys(prefix string) ([]string, error) {
	var keys []string

	err := filepath.Walk(f.rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		if info.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}

		relPath, err := filepath.Rel(f.rootPath, path)
		if err != nil {
			return nil
		}

		key := strings.TrimSuffix(filepath.ToSlash(relPath), ".json")
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	return keys, nil
}
