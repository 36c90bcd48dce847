package secondary

import (
	"io"

	"gitlab.com/fcv-2025.net/fileget/internal/domain"
)

// FileStore opens files requested by clients
type FileStore interface {
	// Open returns the file content positioned at its start together with
	// its wire metadata.
	Open(name string) (io.ReadCloser, domain.FileMeta, error)
}
