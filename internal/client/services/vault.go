package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pinvault/internal/client/importer"
	"github.com/dmitrijs2005/pinvault/internal/client/models"
	"github.com/dmitrijs2005/pinvault/internal/client/query"
	"github.com/dmitrijs2005/pinvault/internal/client/session"
	"github.com/dmitrijs2005/pinvault/internal/common"
	"github.com/dmitrijs2005/pinvault/internal/logging"
)

var (
	ErrLocked   = fmt.Errorf("vault is locked: %w", session.ErrNotAuthenticated)
	ErrNotFound = fmt.Errorf("vault file %w", common.ErrNotFound)

	// ErrPartialDelete means the stored copy is gone but the catalog still
	// lists the record. Deleting it again completes the removal.
	ErrPartialDelete = errors.New("file removed from storage but catalog update failed")
)

// Gate reports whether vault contents may be touched.
type Gate interface {
	IsUnlocked() bool
}

// Catalog is the record store. *catalog.Store implements it.
type Catalog interface {
	Load(ctx context.Context) ([]models.VaultFile, error)
	Add(ctx context.Context, records ...models.VaultFile) error
	Remove(ctx context.Context, id string) (bool, error)
	Get(id string) (models.VaultFile, bool)
	Snapshot() []models.VaultFile
	Len() int
}

// Storage holds the stored copies. *importer.Importer implements it.
type Storage interface {
	ImportFrom(ctx context.Context, src importer.Source) (models.VaultFile, error)
	Purge(ctx context.Context, f models.VaultFile) error
	Inspect(ctx context.Context, f models.VaultFile) (importer.FileState, error)
	Usage(ctx context.Context, files []models.VaultFile) importer.Usage
}

// VaultService defines the file operations for the CLI. Every method except
// Load fails with ErrLocked unless the gate is open.
type VaultService interface {
	Load(ctx context.Context) (int, error)
	Import(ctx context.Context, sources ...importer.Source) ([]models.VaultFile, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, category query.Category, term string) ([]models.VaultFile, error)
	Counts(ctx context.Context) (map[query.Category]int, error)
	Get(ctx context.Context, id string) (models.VaultFile, error)
	Inspect(ctx context.Context, id string) (models.VaultFile, importer.FileState, error)
	Usage(ctx context.Context) (importer.Usage, error)
}

type vaultService struct {
	gate    Gate
	catalog Catalog
	storage Storage
	logger  logging.Logger
}

func NewVaultService(gate Gate, catalog Catalog, storage Storage, logger logging.Logger) VaultService {
	return &vaultService{
		gate:    gate,
		catalog: catalog,
		storage: storage,
		logger:  logger.With("component", "vault"),
	}
}

func (s *vaultService) open() error {
	if !s.gate.IsUnlocked() {
		return ErrLocked
	}
	return nil
}

// Load restores the catalog from the state store and returns the number of
// records. A corrupt catalog is reported but leaves an empty, usable vault.
func (s *vaultService) Load(ctx context.Context) (int, error) {
	_, err := s.catalog.Load(ctx)
	return s.catalog.Len(), err
}

// Import copies every source into the vault and registers the copies with a
// single catalog write. Sources that fail to copy are reported in the joined
// error; the others are still imported. If the catalog write fails, the
// fresh copies are purged and nothing is returned.
func (s *vaultService) Import(ctx context.Context, sources ...importer.Source) ([]models.VaultFile, error) {
	if err := s.open(); err != nil {
		return nil, err
	}

	var errs []error
	imported := make([]models.VaultFile, 0, len(sources))

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		f, err := s.storage.ImportFrom(ctx, src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		imported = append(imported, f)
	}

	if len(imported) == 0 {
		return nil, errors.Join(errs...)
	}

	if err := s.catalog.Add(ctx, imported...); err != nil {
		for _, f := range imported {
			if perr := s.storage.Purge(ctx, f); perr != nil {
				s.logger.Warn(ctx, "orphaned copy left in vault", "id", f.ID, "error", perr)
			}
		}
		errs = append(errs, fmt.Errorf("register imported files: %w", err))
		return nil, errors.Join(errs...)
	}

	s.logger.Info(ctx, "files imported", "count", len(imported), "failed", len(errs))
	return imported, errors.Join(errs...)
}

// Delete removes the stored copy first and the catalog record second. A
// purge failure leaves both in place.
func (s *vaultService) Delete(ctx context.Context, id string) error {
	if err := s.open(); err != nil {
		return err
	}

	f, ok := s.catalog.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := s.storage.Purge(ctx, f); err != nil {
		return err
	}

	if _, err := s.catalog.Remove(ctx, id); err != nil {
		s.logger.Error(ctx, "catalog update after purge failed", "id", id, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrPartialDelete, id, err)
	}

	s.logger.Info(ctx, "file deleted", "id", id)
	return nil
}

func (s *vaultService) List(ctx context.Context, category query.Category, term string) ([]models.VaultFile, error) {
	if err := s.open(); err != nil {
		return nil, err
	}
	return query.Filter(s.catalog.Snapshot(), category, term), nil
}

func (s *vaultService) Counts(ctx context.Context) (map[query.Category]int, error) {
	if err := s.open(); err != nil {
		return nil, err
	}
	return query.Counts(s.catalog.Snapshot()), nil
}

func (s *vaultService) Get(ctx context.Context, id string) (models.VaultFile, error) {
	if err := s.open(); err != nil {
		return models.VaultFile{}, err
	}

	f, ok := s.catalog.Get(id)
	if !ok {
		return models.VaultFile{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return f, nil
}

// Inspect returns the record together with the current state of its stored
// copy.
func (s *vaultService) Inspect(ctx context.Context, id string) (models.VaultFile, importer.FileState, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return models.VaultFile{}, importer.FileState{}, err
	}

	st, err := s.storage.Inspect(ctx, f)
	if err != nil {
		return f, st, fmt.Errorf("inspect %s: %w", id, err)
	}
	return f, st, nil
}

func (s *vaultService) Usage(ctx context.Context) (importer.Usage, error) {
	if err := s.open(); err != nil {
		return importer.Usage{}, err
	}
	return s.storage.Usage(ctx, s.catalog.Snapshot()), nil
}
