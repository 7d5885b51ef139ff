// Package catalog owns the ordered list of imported file records and keeps
// it in the persisted-state store as one JSON array.
//
// Every mutation rewrites the whole array in a single Set call; the store
// guarantees that Set is atomic, so a crash leaves either the previous or
// the new catalog. Mutations are serialised by a mutex, which makes the
// store the single writer for the catalog key.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/pinvault/internal/client/models"
	"github.com/dmitrijs2005/pinvault/internal/logging"
)

// StorageKey is the persisted-state key holding the catalog.
const StorageKey = "vaultFiles"

var (
	ErrCorruptCatalog = errors.New("corrupt catalog")
	ErrDuplicate      = errors.New("duplicate catalog record")
)

// Repository is the part of the persisted-state store the catalog needs.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type Store struct {
	repo   Repository
	logger logging.Logger

	// mu guards files and serialises persisted writes.
	mu    sync.Mutex
	files []models.VaultFile
}

func NewStore(repo Repository, logger logging.Logger) *Store {
	return &Store{repo: repo, logger: logger.With("component", "catalog")}
}

// Decode parses a persisted catalog. Missing or empty input and JSON null
// are an empty catalog.
func Decode(data []byte) ([]models.VaultFile, error) {
	if len(data) == 0 {
		return []models.VaultFile{}, nil
	}

	var files []models.VaultFile
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCatalog, err)
	}
	if files == nil {
		return []models.VaultFile{}, nil
	}

	if err := checkUnique(files); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCatalog, err)
	}
	for _, f := range files {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptCatalog, err)
		}
	}
	return files, nil
}

func Encode(files []models.VaultFile) ([]byte, error) {
	if files == nil {
		files = []models.VaultFile{}
	}
	return json.Marshal(files)
}

func checkUnique(files []models.VaultFile) error {
	ids := make(map[string]struct{}, len(files))
	uris := make(map[string]struct{}, len(files))
	for _, f := range files {
		if _, dup := ids[f.ID]; dup {
			return fmt.Errorf("%w: id %s", ErrDuplicate, f.ID)
		}
		if _, dup := uris[f.URI]; dup {
			return fmt.Errorf("%w: uri %s", ErrDuplicate, f.URI)
		}
		ids[f.ID] = struct{}{}
		uris[f.URI] = struct{}{}
	}
	return nil
}

// Load replaces the in-memory catalog with the persisted one. If the stored
// bytes do not parse, the in-memory catalog becomes empty and an error
// wrapping ErrCorruptCatalog is returned; callers continue with the empty
// catalog. A store read failure leaves the in-memory catalog untouched.
func (s *Store) Load(ctx context.Context) ([]models.VaultFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.repo.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	files, err := Decode(data)
	if err != nil {
		s.files = []models.VaultFile{}
		s.logger.Warn(ctx, "catalog reset to empty", "error", err)
		return []models.VaultFile{}, err
	}

	s.files = files
	s.logger.Debug(ctx, "catalog loaded", "files", len(files))
	return clone(files), nil
}

// Add appends records in order and persists the full catalog. Nothing
// changes if any record is invalid, collides with an existing id or uri, or
// the write fails.
func (s *Store) Add(ctx context.Context, records ...models.VaultFile) error {
	if len(records) == 0 {
		return nil
	}
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.VaultFile, 0, len(s.files)+len(records))
	next = append(next, s.files...)
	next = append(next, records...)

	if err := checkUnique(next); err != nil {
		return err
	}
	if err := s.persist(ctx, next); err != nil {
		return err
	}

	s.files = next
	s.logger.Info(ctx, "records added", "count", len(records), "total", len(next))
	return nil
}

// Remove deletes the record with id and persists the result. It reports
// false without writing when no such record exists.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}

	next := make([]models.VaultFile, 0, len(s.files)-1)
	next = append(next, s.files[:idx]...)
	next = append(next, s.files[idx+1:]...)

	if err := s.persist(ctx, next); err != nil {
		return false, err
	}

	s.files = next
	s.logger.Info(ctx, "record removed", "id", id, "total", len(next))
	return true, nil
}

func (s *Store) persist(ctx context.Context, files []models.VaultFile) error {
	data, err := Encode(files)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := s.repo.Set(ctx, StorageKey, data); err != nil {
		s.logger.Error(ctx, "catalog write failed", "error", err)
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, f := range s.files {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// Get returns the record with id.
func (s *Store) Get(id string) (models.VaultFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		return s.files[i], true
	}
	return models.VaultFile{}, false
}

// Snapshot returns a copy of the catalog in insertion order.
func (s *Store) Snapshot() []models.VaultFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.files)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

func clone(files []models.VaultFile) []models.VaultFile {
	out := make([]models.VaultFile, len(files))
	copy(out, files)
	return out
}
