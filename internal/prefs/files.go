// Package prefs persists small JSON values as one file per key under the
// user config directory.
package prefs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const ext = ".json"

// FileStore keeps each key in <Dir>/<key>.json.
type FileStore struct {
	Dir string
}

// DefaultDir is the per-user directory used when no dir is configured.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cardcraft", "data"), nil
}

func (s FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("prefs: invalid key %q", key)
	}
	return filepath.Join(s.Dir, key+ext), nil
}

// Get returns nil, nil when the key has never been written.
func (s FileStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Set replaces the value atomically via a temp file and rename.
func (s FileStore) Set(_ context.Context, key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("mkdir prefs dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s FileStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
