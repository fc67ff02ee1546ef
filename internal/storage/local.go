package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFileName = errors.New("invalid file name")
)

// FileStore persists uploaded images and serves them back by name.
type FileStore interface {
	Save(file *multipart.FileHeader, prefix string) (string, error)
	Open(name string) (io.ReadCloser, error)
	Remove(name string) error
}

// LocalStore keeps files in a single directory on disk. Stored names embed
// an upload timestamp so re-uploads never collide.
type LocalStore struct {
	dir   string
	clock func() time.Time
}

// NewLocalStore creates the directory if needed and returns the store.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStore{dir: dir, clock: time.Now}, nil
}

// Save writes the uploaded file under a generated name and returns that name.
func (s *LocalStore) Save(file *multipart.FileHeader, prefix string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := s.generateName(file.Filename, prefix)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// Open returns a reader over a stored file.
func (s *LocalStore) Open(name string) (io.ReadCloser, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return f, nil
}

// Remove deletes a stored file. Removing an absent file is not an error.
func (s *LocalStore) Remove(name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resolve rejects names that would escape the storage directory.
func (s *LocalStore) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrInvalidFileName
	}
	return filepath.Join(s.dir, name), nil
}

func (s *LocalStore) generateName(original, prefix string) string {
	ext := strings.ToLower(filepath.Ext(original))
	stamp := s.clock().UTC().Format("20060102150405.000000000")
	stamp = strings.ReplaceAll(stamp, ".", "")
	if prefix == "" {
		prefix = "file"
	}
	return fmt.Sprintf("%s-%s%s", prefix, stamp, ext)
}
