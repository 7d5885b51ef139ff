// Package importer copies source files into the vault directory, derives
// their catalog metadata and removes stored copies again.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/pinvault/internal/client/models"
	"github.com/dmitrijs2005/pinvault/internal/filex"
	"github.com/dmitrijs2005/pinvault/internal/logging"
	"github.com/google/uuid"
)

// DirName is the vault directory created under the data directory.
const DirName = "vault"

var (
	ErrCopyFailed  = errors.New("failed to copy file to vault storage")
	ErrPurgeFailed = errors.New("failed to delete file from vault storage")
)

// Source is what a picker hands over for import.
type Source struct {
	Locator  string
	Name     string
	MimeType string
	Size     uint64
}

// FileSystem is the set of byte-level primitives the importer relies on.
// filex.OS implements it for the local disk.
type FileSystem interface {
	Copy(ctx context.Context, src, dst string) error
	Remove(path string) error
	Exists(path string) (bool, error)
	Size(path string) (int64, error)
}

type Importer struct {
	dir    string
	fs     FileSystem
	logger logging.Logger

	newID func() string
	now   func() time.Time
}

// New creates the vault directory under baseDir and returns an importer
// storing files there.
func New(baseDir string, fsys FileSystem, logger logging.Logger) (*Importer, error) {
	dir, err := filex.EnsureDir(baseDir, DirName)
	if err != nil {
		return nil, fmt.Errorf("vault directory: %w", err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("vault directory: %w", err)
	}

	return &Importer{
		dir:    abs,
		fs:     fsys,
		logger: logger.With("component", "importer"),
		newID:  uuid.NewString,
		now:    time.Now,
	}, nil
}

func (im *Importer) Dir() string {
	return im.dir
}

// ImportFrom copies src into the vault and returns the record describing the
// copy. On failure the error wraps ErrCopyFailed and no record exists.
func (im *Importer) ImportFrom(ctx context.Context, src Source) (models.VaultFile, error) {
	id := im.newID()
	dst := filepath.Join(im.dir, UniqueFilename(src.Name, id))

	if err := im.fs.Copy(ctx, src.Locator, dst); err != nil {
		im.logger.Warn(ctx, "copy into vault failed", "name", src.Name, "error", err)
		return models.VaultFile{}, fmt.Errorf("%w: %s: %v", ErrCopyFailed, src.Name, err)
	}

	f := models.VaultFile{
		ID:         id,
		Name:       src.Name,
		Kind:       KindFromMIME(src.MimeType),
		Size:       src.Size,
		UploadDate: im.now().UTC().Round(0),
		URI:        dst,
		MimeType:   src.MimeType,
	}

	im.logger.Debug(ctx, "file copied into vault", "id", f.ID, "kind", f.Kind)
	return f, nil
}

// Purge deletes the stored copy of f. A copy that is already gone counts as
// deleted. A URI outside the vault directory is refused and left untouched.
func (im *Importer) Purge(ctx context.Context, f models.VaultFile) error {
	if !im.Contains(f.URI) {
		im.logger.Warn(ctx, "refusing to purge outside the vault", "id", f.ID)
		return fmt.Errorf("%w: %s: uri is outside vault storage", ErrPurgeFailed, f.ID)
	}

	ok, err := im.fs.Exists(f.URI)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPurgeFailed, f.ID, err)
	}
	if !ok {
		im.logger.Debug(ctx, "stored copy already absent", "id", f.ID)
		return nil
	}

	if err := im.fs.Remove(f.URI); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		im.logger.Warn(ctx, "purge failed", "id", f.ID, "error", err)
		return fmt.Errorf("%w: %s: %v", ErrPurgeFailed, f.ID, err)
	}
	return nil
}

// Contains reports whether uri points inside the vault directory.
func (im *Importer) Contains(uri string) bool {
	rel, err := filepath.Rel(im.dir, filepath.Clean(uri))
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// KindFromMIME classifies a MIME type. Prefixes are checked first, then the
// document keywords anywhere in the string.
func KindFromMIME(mime string) models.Kind {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return models.KindImage
	case strings.HasPrefix(mime, "video/"):
		return models.KindVideo
	case strings.HasPrefix(mime, "audio/"):
		return models.KindAudio
	case strings.Contains(mime, "pdf"),
		strings.Contains(mime, "document"),
		strings.Contains(mime, "text"):
		return models.KindDocument
	}
	return models.KindOther
}

// UniqueFilename builds "<stem>_<id><ext>" where stem is the name before the
// last '.' and ext is the rest including the dot. Characters outside
// [A-Za-z0-9_-] are replaced with '_' in both parts so the result is a plain
// file name.
func UniqueFilename(original, id string) string {
	stem, ext := original, ""
	if i := strings.LastIndex(original, "."); i >= 0 {
		stem, ext = original[:i], "."+sanitize(original[i+1:])
	}
	return sanitize(stem) + "_" + id + ext
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
