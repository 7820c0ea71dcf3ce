package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore persists blobs on the local filesystem under an uploads
// directory and serves them from a configurable base URL path.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates the uploads directory if needed.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create uploads dir: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Save streams r into a uniquely named file and returns its public URL.
// The extension must include the leading dot.
func (s *LocalStore) Save(ctx context.Context, r io.Reader, extension string) (string, error) {
	name := fmt.Sprintf("image-%s%s", strings.ReplaceAll(uuid.New().String(), "-", ""), extension)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("blob: create %s: %w", name, err)
	}

	// Copy in fixed-size chunks so large images never sit in memory whole.
	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(f, r, buf); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("blob: write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("blob: close %s: %w", name, err)
	}

	return s.baseURL + "/" + name, nil
}
