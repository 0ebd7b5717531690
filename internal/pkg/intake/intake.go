// Package intake stores multipart uploads on local disk until they have been
// registered with the retrieval service.
package intake

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var ErrNoFile = errors.New("no file uploaded")

type Upload struct {
	Path         string
	OriginalName string
	Size         int64
	ContentType  string
}

type Store struct {
	dir  string
	keep bool
}

// NewStore creates dir when missing. keep disables Remove.
func NewStore(dir string, keep bool) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir failed: %w", err)
	}
	return &Store{dir: dir, keep: keep}, nil
}

// Save copies the uploaded part to a randomly named file in the store dir.
func (s *Store) Save(header *multipart.FileHeader) (*Upload, error) {
	if header == nil {
		return nil, ErrNoFile
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file failed: %w", err)
	}
	defer src.Close()

	path := filepath.Join(s.dir, uuid.NewString())
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create temp file failed: %w", err)
	}
	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write temp file failed: %w", err)
	}

	return &Upload{
		Path:         path,
		OriginalName: header.Filename,
		Size:         written,
		ContentType:  header.Header.Get("Content-Type"),
	}, nil
}

// Remove deletes the temp file unless the store keeps uploads.
func (s *Store) Remove(u *Upload) error {
	if s.keep || u == nil {
		return nil
	}
	if err := os.Remove(u.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove temp file failed: %w", err)
	}
	return nil
}
