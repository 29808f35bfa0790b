package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// LocalStore writes images under a base directory that the app serves at
// a URL prefix. Keys are date-partitioned with a short random prefix so
// re-uploads never collide: thumbnails/YYYY/MM/xxxxxxxx-name.
type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocal returns a LocalStore rooted at dir, served at urlPrefix.
func NewLocal(dir, urlPrefix string) *LocalStore {
	return &LocalStore{dir: dir, urlPrefix: urlPrefix}
}

func (s *LocalStore) PutImage(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	key := objectKey(name)

	full := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("media: create dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("media: create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("media: write file: %w", err)
	}

	return s.urlPrefix + "/" + key, nil
}

// objectKey builds thumbnails/YYYY/MM/uuid8-name.
func objectKey(name string) string {
	now := time.Now().UTC()
	dateDir := fmt.Sprintf("thumbnails/%04d/%02d", now.Year(), now.Month())
	unique := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeName(name))
	return path.Join(dateDir, unique)
}
