package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ObjectStorage is where customer photos live. Save returns the public URL
// of the stored object.
type ObjectStorage interface {
	Save(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, objectPath string) error
}

// LocalStorage keeps objects on the local filesystem under BaseDir and
// serves them from the static /uploads mount.
type LocalStorage struct {
	BaseDir   string
	PublicURL string
}

func NewLocalStorage(baseDir, publicURL string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir, PublicURL: strings.TrimSuffix(publicURL, "/")}
}

// resolve maps an object path onto BaseDir. The path comes from the request,
// so anything that would land outside BaseDir is rejected.
func (s *LocalStorage) resolve(objectPath string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(objectPath))
	if filepath.IsAbs(rel) || rel == "." || rel == ".." ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("object path %q escapes the storage root", objectPath)
	}
	return filepath.Join(s.BaseDir, rel), nil
}

func (s *LocalStorage) Save(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	fullpath, err := s.resolve(objectPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullpath), 0755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}

	f, err := os.Create(fullpath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return s.PublicURL + "/" + objectPath, nil
}

func (s *LocalStorage) Delete(_ context.Context, objectPath string) error {
	fullpath, err := s.resolve(objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(fullpath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
