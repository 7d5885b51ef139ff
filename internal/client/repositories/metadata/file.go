package metadata

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/dmitrijs2005/pinvault/internal/filex"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9_.-]*$`)

// FileRepository keeps one file per key inside dir. Writes go through
// filex.WriteFileAtomic. Update is serialised within the process only.
type FileRepository struct {
	dir string
	mu  sync.Mutex
}

func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

func (r *FileRepository) path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(r.dir, key), nil
}

func (r *FileRepository) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := r.path(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return b, nil
}

func (r *FileRepository) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.set(key, value)
}

func (r *FileRepository) set(key string, value []byte) error {
	p, err := r.path(key)
	if err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(p, value, 0o600); err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *FileRepository) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	return r.set(key, next)
}

func (r *FileRepository) Delete(ctx context.Context, key string) error {
	p, err := r.path(key)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}
