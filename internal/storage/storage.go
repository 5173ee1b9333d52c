// Package storage persists evidence attachments. The workflow core only keeps
// the returned object key; bytes never flow back through it.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// EvidenceStore is the blob store behind points-claim attachments.
type EvidenceStore interface {
	// Save stores the attachment and returns its object key.
	Save(ctx context.Context, filename string, r io.Reader, size int64) (string, error)

	// Exists reports whether an object key resolves to a stored attachment.
	Exists(ctx context.Context, key string) (bool, error)
}

// objectKey derives a collision-free key that keeps the original extension.
func objectKey(filename string) string {
	return uuid.NewString() + path.Ext(filename)
}

// LocalStore keeps attachments in a directory on disk.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(_ context.Context, filename string, r io.Reader, _ int64) (string, error) {
	key := objectKey(filename)

	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", fmt.Errorf("failed to create evidence file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write evidence file: %w", err)
	}

	return key, nil
}

func (s *LocalStore) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
