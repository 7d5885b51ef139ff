// Package picker turns local files into import sources. It stands in for a
// platform document picker: the name, MIME type and size it reports are what
// the importer records.
package picker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/pinvault/internal/client/importer"
	"github.com/gabriel-vasile/mimetype"
)

var ErrNotRegular = errors.New("not a regular file")

// FromPath describes the file at path. The MIME type is sniffed from the
// content, falling back to the extension-agnostic default
// application/octet-stream.
func FromPath(path string) (importer.Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return importer.Source{}, fmt.Errorf("resolve %s: %w", path, err)
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return importer.Source{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		return importer.Source{}, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}

	mt, err := mimetype.DetectFile(abs)
	if err != nil {
		return importer.Source{}, fmt.Errorf("detect type of %s: %w", path, err)
	}

	return importer.Source{
		Locator:  abs,
		Name:     fi.Name(),
		MimeType: mt.String(),
		Size:     uint64(fi.Size()),
	}, nil
}

// FromPaths describes each path in order. Paths that cannot be described are
// skipped and reported together in the returned error.
func FromPaths(paths []string) ([]importer.Source, error) {
	var errs []error
	out := make([]importer.Source, 0, len(paths))
	for _, p := range paths {
		src, err := FromPath(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, src)
	}
	return out, errors.Join(errs...)
}
