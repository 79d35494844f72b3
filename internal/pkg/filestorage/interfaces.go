package filestorage

import (
	"errors"
	"mime/multipart"
)

// ErrUnsupportedType is returned for uploads whose extension is not allowed
var ErrUnsupportedType = errors.New("unsupported file type")

// ErrTooLarge is returned for uploads over the size limit
var ErrTooLarge = errors.New("file too large")

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFileWithPath stores the upload under a subdirectory and returns its public URL
	SaveFileWithPath(fileHeader *multipart.FileHeader, path string) (string, error)

	// DeleteFile removes a file previously returned by SaveFileWithPath
	DeleteFile(fileURL string) error

	// GetFullPath returns the filesystem path for a public URL, or "" if it is not ours
	GetFullPath(fileURL string) string
}
