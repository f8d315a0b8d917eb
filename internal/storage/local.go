// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes uploaded files to a directory on disk. Used in
// development when no S3 credentials are configured; the router serves
// the directory under /uploads/.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocal creates a disk-backed store rooted at dir. Files are served
// under baseURL (for example "/uploads").
func NewLocal(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload writes the file under the store's directory and returns its URL.
// The key may contain forward slashes; intermediate directories are
// created as needed. Keys must not escape the root directory.
func (l *LocalStore) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	path, err := l.safePath(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("local upload %s: %w", key, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("local upload %s: %w", key, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("local upload %s: %w", key, err)
	}

	return l.baseURL + "/" + key, nil
}

// Delete removes a stored file. Deleting a missing file is not an error.
func (l *LocalStore) Delete(ctx context.Context, key string) error {
	path, err := l.safePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("local delete %s: %w", key, err)
	}
	return nil
}

// Dir returns the root directory files are stored under.
func (l *LocalStore) Dir() string {
	return l.dir
}

// safePath resolves a key to an absolute path inside the root directory,
// rejecting traversal attempts.
func (l *LocalStore) safePath(key string) (string, error) {
	path := filepath.Join(l.dir, filepath.FromSlash(key))
	rel, err := filepath.Rel(l.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return path, nil
}
