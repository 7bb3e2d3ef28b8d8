package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PublicPrefix is the URL path under which disk blobs are served.
const PublicPrefix = "/uploads"

// DiskStore keeps blobs as plain files in one directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the upload directory if needed and returns a store
// rooted there.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the directory blobs live in, for static serving.
func (s *DiskStore) Dir() string { return s.dir }

func (s *DiskStore) Put(ctx context.Context, r io.Reader, originalName string) (string, error) {
	// The name carries millisecond time plus a random component, so a
	// collision means two Puts in the same millisecond drew the same
	// number. Retry with a fresh name rather than overwrite.
	for attempt := 0; attempt < 5; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		name := NewStorageName(originalName)
		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", fmt.Errorf("create blob: %w", err)
		}
		if _, err := io.Copy(f, r); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", fmt.Errorf("write blob: %w", err)
		}
		if err := f.Close(); err != nil {
			os.Remove(f.Name())
			return "", fmt.Errorf("close blob: %w", err)
		}
		return name, nil
	}
	return "", fmt.Errorf("could not generate a unique storage name")
}

func (s *DiskStore) Delete(ctx context.Context, storageName string) (bool, error) {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(storageName)))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete blob: %w", err)
	}
	return true, nil
}

func (s *DiskStore) Resolve(storageName string) string {
	return PublicPrefix + "/" + storageName
}
