package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/kahvecikaan/ecommerce-api/internal/domain"
)

// Store keeps uploaded product images
type Store interface {
	// Save stores the contents under a generated name and returns its public URL
	Save(ctx context.Context, filename string, contents io.Reader) (string, error)
	Get(name string) (*os.File, error)
	Delete(name string) error
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Local is a Store on the local filesystem
type Local struct {
	maxFileSize int64 // maximum number of bytes per file
	basePath    string
	baseURL     string
}

// NewLocal creates the base directory if needed. Stored files are served
// under baseURL + "/images/".
func NewLocal(basePath, baseURL string, maxSize int64) (*Local, error) {
	p, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(p, os.ModePerm); err != nil {
		return nil, fmt.Errorf("unable to create image directory: %w", err)
	}

	return &Local{
		basePath:    p,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxFileSize: maxSize,
	}, nil
}

func (l *Local) Save(ctx context.Context, filename string, contents io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", domain.InvalidArgument("Unsupported image type: %q", ext)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext

	// write to a temporary file in the same directory so the final rename is atomic
	tempFile, err := os.CreateTemp(l.basePath, "temp-*")
	if err != nil {
		return "", fmt.Errorf("unable to create temporary file: %w", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	// read one byte past the limit to tell "exactly max" from "too large"
	written, err := io.Copy(tempFile, io.LimitReader(contents, l.maxFileSize+1))
	if err != nil {
		tempFile.Close()
		return "", fmt.Errorf("unable to write to file: %w", err)
	}
	if err = tempFile.Close(); err != nil {
		return "", fmt.Errorf("unable to close temporary file: %w", err)
	}
	if written > l.maxFileSize {
		return "", domain.InvalidArgument("Image exceeds maximum size of %d bytes", l.maxFileSize)
	}

	if err := os.Rename(tempPath, l.fullPath(name)); err != nil {
		return "", fmt.Errorf("unable to move temporary file to final location: %w", err)
	}

	return l.baseURL + "/images/" + name, nil
}

func (l *Local) Get(name string) (*os.File, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	f, err := os.Open(l.fullPath(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.NotFound("Image not found: %s", name)
		}
		return nil, fmt.Errorf("unable to open the file: %w", err)
	}
	return f, nil
}

func (l *Local) Delete(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.Remove(l.fullPath(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unable to delete the file: %w", err)
	}
	return nil
}

// NameFromURL extracts the stored name from a URL returned by Save
func NameFromURL(url string) string {
	i := strings.LastIndex(url, "/images/")
	if i < 0 {
		return ""
	}
	return url[i+len("/images/"):]
}

// validName rejects anything that could escape the base directory
func validName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return domain.InvalidArgument("Invalid image name")
	}
	return nil
}

func (l *Local) fullPath(name string) string {
	return filepath.Join(l.basePath, name)
}
