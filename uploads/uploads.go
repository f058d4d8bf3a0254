// Package uploads stores advertisement photos in a local directory and
// rejects oversized or non-image files before anything is written.
package uploads

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxFileSize is the upload cap in bytes.
const MaxFileSize = 5 << 20

// ErrTooLarge and ErrBadType map to 400 responses in the handlers.
var (
	ErrTooLarge = errors.New("file exceeds the 5MB limit")
	ErrBadType  = errors.New("file must be a JPEG, PNG, GIF or WebP image")
)

// extensions allowed on the client-supplied filename, and the canonical
// extension for each sniffed content type.
var (
	allowedExts = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	}
	extByType = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/gif":  ".gif",
		"image/webp": ".webp",
	}
)

type Store struct {
	Dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{Dir: dir}, nil
}

// Save validates and persists one multipart file, returning the stored name.
// The content type is sniffed from the first bytes, so a text file disguised
// with an image extension is rejected.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxFileSize {
		return "", ErrTooLarge
	}
	if !allowedExts[strings.ToLower(filepath.Ext(fh.Filename))] {
		return "", ErrBadType
	}

	file, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	ext, ok := extByType[http.DetectContentType(head[:n])]
	if !ok {
		return "", ErrBadType
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// Remove deletes a stored file. A missing file is not an error; the document
// is already gone or never had a photo.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
