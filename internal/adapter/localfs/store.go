package localfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/fileget/internal/domain"
	"gitlab.com/fcv-2025.net/fileget/internal/static/errs"
)

var _ secondary.FileStore = (*Store)(nil)

// Store serves files from a directory on the local filesystem. Only names
// that stay inside root are served: absolute names and names climbing out
// with ".." are answered as not found. Symbolic links inside root are
// followed.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	if root == "" {
		root = "."
	}
	return &Store{root: root}
}

func (s *Store) Root() string {
	return s.root
}

// Open opens name for reading. Every failure wraps errs.ErrNotFound; callers
// do not distinguish missing files from unreadable ones.
func (s *Store) Open(name string) (io.ReadCloser, domain.FileMeta, error) {
	if !filepath.IsLocal(name) {
		return nil, domain.FileMeta{}, fmt.Errorf("%w: %q is outside the serve root", errs.ErrNotFound, name)
	}

	f, err := os.Open(filepath.Join(s.root, name))
	if err != nil {
		return nil, domain.FileMeta{}, fmt.Errorf("%w: %w", errs.ErrNotFound, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, domain.FileMeta{}, fmt.Errorf("%w: stat %s: %w", errs.ErrNotFound, name, err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, domain.FileMeta{}, fmt.Errorf("%w: %s is not a regular file", errs.ErrNotFound, name)
	}

	meta, ok := domain.NewFileMeta(info.Size(), info.ModTime())
	if !ok {
		f.Close()
		return nil, domain.FileMeta{}, fmt.Errorf("%w: %w: %s", errs.ErrNotFound, errs.ErrFileTooLarge, name)
	}

	return f, meta, nil
}
