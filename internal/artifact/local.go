package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"housepoints/internal/domain"
)

// LocalStore keeps artifacts as files under a directory. Used for
// development and tests; production deployments use S3Store.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create artifact dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Store(_ context.Context, data []byte) (string, error) {
	ref := domain.NewID()
	if err := os.WriteFile(filepath.Join(s.dir, ref), data, 0o640); err != nil {
		return "", fmt.Errorf("write artifact %q: %w", ref, err)
	}
	return ref, nil
}

func (s *LocalStore) Fetch(_ context.Context, ref string) ([]byte, error) {
	// Refs are generated UUIDs; reject anything that walks out of the dir.
	if strings.Contains(ref, "/") || strings.Contains(ref, "..") {
		return nil, fmt.Errorf("invalid artifact ref %q", ref)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, ref)) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("read artifact %q: %w", ref, err)
	}
	return data, nil
}
