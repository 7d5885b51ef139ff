package importer

import (
	"context"

	"github.com/dmitrijs2005/pinvault/internal/client/models"
)

// FileState is the on-disk condition of one record's stored copy.
type FileState struct {
	Exists bool
	// ActualSize is the stored copy's size; zero when it is missing.
	ActualSize int64
	// SizeMatches compares ActualSize with the size reported at import.
	SizeMatches bool
}

// Inspect stats the stored copy of f.
func (im *Importer) Inspect(ctx context.Context, f models.VaultFile) (FileState, error) {
	ok, err := im.fs.Exists(f.URI)
	if err != nil || !ok {
		return FileState{}, err
	}

	n, err := im.fs.Size(f.URI)
	if err != nil {
		return FileState{Exists: true}, err
	}

	return FileState{Exists: true, ActualSize: n, SizeMatches: n >= 0 && uint64(n) == f.Size}, nil
}

// Usage summarises vault storage for a set of records.
type Usage struct {
	FileCount int
	// ReportedSize sums the sizes recorded at import.
	ReportedSize uint64
	// StoredSize sums the sizes measured on disk.
	StoredSize uint64
	// Missing counts records whose stored copy could not be found.
	Missing int
}

// Usage measures files on disk. Files that cannot be inspected are skipped
// silently apart from the Missing counter.
func (im *Importer) Usage(ctx context.Context, files []models.VaultFile) Usage {
	u := Usage{FileCount: len(files)}

	for _, f := range files {
		u.ReportedSize += f.Size

		st, err := im.Inspect(ctx, f)
		if err != nil {
			im.logger.Debug(ctx, "usage: stat failed", "id", f.ID, "error", err)
			continue
		}
		if !st.Exists {
			u.Missing++
			continue
		}
		u.StoredSize += uint64(st.ActualSize)
	}

	return u
}
