// Package storage is the file side of the publishing pipeline: one
// upload per request, stored under a purpose-segregated location, with
// an opaque reference string handed back for the owning record.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// Purpose segregates uploads by what they are for. The value doubles
// as the directory (or object prefix) name.
type Purpose string

const (
	PurposePostFile Purpose = "files"
	PurposeAvatar   Purpose = "avatars"
)

// DefaultAvatarRef is the reference used in feed output for authors
// who registered without an avatar.
const DefaultAvatarRef = "/uploads/avatars/default.png"

var (
	ErrTooLarge        = errors.New("upload too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// BlobStore persists a single uploaded file and returns the reference
// to store on the post or user row. Save blocks until the file is
// fully written; the record is only created afterwards.
type BlobStore interface {
	Save(ctx context.Context, purpose Purpose, filename string, r io.Reader) (string, error)
}

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// CheckConstraints validates an upload before it is handed to a
// BlobStore. Post attachments accept any type; avatars must look like
// images. maxBytes <= 0 disables the size check.
func CheckConstraints(purpose Purpose, filename string, size, maxBytes int64) error {
	if maxBytes > 0 && size > maxBytes {
		return ErrTooLarge
	}
	if purpose == PurposeAvatar {
		ext := strings.ToLower(filepath.Ext(filename))
		if !imageExts[ext] {
			return ErrUnsupportedType
		}
	}
	return nil
}
