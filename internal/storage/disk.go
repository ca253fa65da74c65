package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskStore writes uploads beneath Root, one subdirectory per purpose.
// References are the URL paths under which the upload area is served
// statically ("/uploads/<purpose>/<name>").
type DiskStore struct {
	Root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{Root: root}
}

func (d *DiskStore) Save(ctx context.Context, purpose Purpose, filename string, r io.Reader) (string, error) {
	dir := filepath.Join(d.Root, string(purpose))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	// Client filenames are untrusted; only the extension survives.
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return "/uploads/" + string(purpose) + "/" + name, nil
}

var _ BlobStore = (*DiskStore)(nil)
