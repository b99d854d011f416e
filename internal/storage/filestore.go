package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Subdirectories under the upload root.
const (
	PetPhotoDir = "pets"
	AvatarDir   = "avatars"
)

var extByMime = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// FileStore is the blob-store capability the controllers depend on: put a
// file, get back an opaque relative reference; delete by reference.
type FileStore interface {
	Put(subdir string, file *multipart.FileHeader) (string, error)
	Delete(ref string) error
}

// DiskStore stores uploads on the local filesystem under a root directory,
// keyed by random UUID names so references never collide.
type DiskStore struct {
	root     string
	maxBytes int64
}

// NewDiskStore constructs a store rooted at root.
func NewDiskStore(root string, maxBytes int64) *DiskStore {
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	return &DiskStore{root: root, maxBytes: maxBytes}
}

// Put writes the upload and returns its reference of the form
// "/uploads/<subdir>/<uuid>.<ext>".
func (s *DiskStore) Put(subdir string, file *multipart.FileHeader) (string, error) {
	ext, ok := extByMime[strings.ToLower(file.Header.Get("Content-Type"))]
	if !ok {
		return "", fmt.Errorf("unsupported file type %q", file.Header.Get("Content-Type"))
	}
	if file.Size > s.maxBytes {
		return "", fmt.Errorf("file exceeds %d bytes", s.maxBytes)
	}

	dir := filepath.Join(s.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s.%s", uuid.NewString(), ext)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return "/" + s.rootBase() + "/" + subdir + "/" + name, nil
}

// Delete removes the file behind ref. Unknown references are rejected rather
// than resolved outside the root.
func (s *DiskStore) Delete(ref string) error {
	prefix := "/" + s.rootBase() + "/"
	if !strings.HasPrefix(ref, prefix) || strings.Contains(ref, "..") {
		return fmt.Errorf("invalid file reference %q", ref)
	}
	rel := strings.TrimPrefix(ref, prefix)
	return os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
}

func (s *DiskStore) rootBase() string {
	return filepath.Base(s.root)
}
