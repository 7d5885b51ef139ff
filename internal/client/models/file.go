// Package models defines the records the vault persists: imported file
// metadata and the session record.
package models

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies an imported file. It is derived once from the MIME type at
// import and never recomputed.
type Kind string

const (
	KindDocument Kind = "document"
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindOther    Kind = "other"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindDocument, KindImage, KindVideo, KindAudio, KindOther}

var ErrUnknownKind = errors.New("unknown file kind")

func (k Kind) Valid() bool {
	switch k {
	case KindDocument, KindImage, KindVideo, KindAudio, KindOther:
		return true
	}
	return false
}

func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// VaultFile describes one file held in vault storage. The JSON field names
// are the persisted catalog schema; UploadDate travels as RFC 3339.
type VaultFile struct {
	// ID is the sole catalog key, generated at import.
	ID string `json:"id"`
	// Name is the original display name. It is not filesystem safe.
	Name string `json:"name"`
	Kind Kind   `json:"type"`
	// Size is what the source reported at import time; the stored copy is
	// not re-measured.
	Size       uint64    `json:"size"`
	UploadDate time.Time `json:"uploadDate"`
	// URI locates the stored copy inside the vault directory.
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
}

// Validate checks the fields every persisted record must carry.
func (f VaultFile) Validate() error {
	switch {
	case f.ID == "":
		return errors.New("empty id")
	case f.URI == "":
		return fmt.Errorf("record %s: empty uri", f.ID)
	case !f.Kind.Valid():
		return fmt.Errorf("record %s: %w: %q", f.ID, ErrUnknownKind, f.Kind)
	}
	return nil
}
