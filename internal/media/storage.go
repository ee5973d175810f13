package media

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go-storefront/internal/model"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const MaxImageSize = 5 << 20

var (
	ErrNotAnImage = errors.New("file must be an image")
	ErrTooLarge   = errors.New("file may not be greater than 5 MB")
)

// URLResolver turns a stored media record into a public URL
type URLResolver interface {
	URL(m model.Media) string
}

// StoredFile describes a file written by a Storage
type StoredFile struct {
	FileName string
	Path     string
	MimeType string
	Size     int64
}

// Storage persists uploaded product images
type Storage interface {
	URLResolver
	SaveImage(productID uint, fh *multipart.FileHeader) (StoredFile, error)
	Delete(relPath string) error
}

// LocalStorage writes files below Root and serves them under BaseURL + "/storage"
type LocalStorage struct {
	Root    string
	BaseURL string
}

func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &LocalStorage{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// PublicPrefix is the route the storage root is mounted on
const PublicPrefix = "/storage"

func (s *LocalStorage) URL(m model.Media) string {
	return s.BaseURL + PublicPrefix + "/" + m.Path
}

// SaveImage sniffs the content type, rejects non-images and oversized files,
// then writes the file as products/<id>/<uuid><ext>.
func (s *LocalStorage) SaveImage(productID uint, fh *multipart.FileHeader) (StoredFile, error) {
	if fh.Size > MaxImageSize {
		return StoredFile{}, ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return StoredFile{}, err
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return StoredFile{}, err
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return StoredFile{}, ErrNotAnImage
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return StoredFile{}, err
	}

	rel := path.Join("products", fmt.Sprint(productID), uuid.New().String()+mtype.Extension())
	dst := filepath.Join(s.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return StoredFile{}, err
	}

	out, err := os.Create(dst)
	if err != nil {
		return StoredFile{}, err
	}
	written, err := io.Copy(out, src)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
		return StoredFile{}, err
	}

	return StoredFile{
		FileName: filepath.Base(fh.Filename),
		Path:     rel,
		MimeType: mtype.String(),
		Size:     written,
	}, nil
}

// Delete removes a stored file; a file that is already gone is not an error
func (s *LocalStorage) Delete(relPath string) error {
	clean := path.Clean("/" + relPath)
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
