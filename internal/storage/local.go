package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultBaseDir    = "./uploads"
	DefaultStaticBase = "/static/uploads"
	DefaultMaxSize    = 2 * 1024 * 1024
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("file type is not allowed")
	ErrInvalidPath     = errors.New("invalid storage path")
)

// ImageMimeTypes are the types accepted for venue photos and floor plans.
var ImageMimeTypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
}

// Storage keeps uploaded files under opaque relative paths.
type Storage interface {
	Save(ctx context.Context, dir string, file *multipart.FileHeader) (string, error)
	Delete(relPath string) error
	URL(relPath string) string
}

// Local stores files on disk and serves them under a static URL prefix.
type Local struct {
	baseDir    string
	staticBase string
	maxSize    int64
	allowed    map[string]string
}

func NewLocal(baseDir, staticBase string, maxSize int64) *Local {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if staticBase == "" {
		staticBase = DefaultStaticBase
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Local{
		baseDir:    baseDir,
		staticBase: strings.TrimRight(staticBase, "/"),
		maxSize:    maxSize,
		allowed:    ImageMimeTypes,
	}
}

func (s *Local) BaseDir() string { return s.baseDir }

// Save writes the upload to <baseDir>/<dir>/<uuid><ext> and returns the path
// relative to baseDir, always with forward slashes.
func (s *Local) Save(ctx context.Context, dir string, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size == 0 {
		return "", ErrEmptyFile
	}
	if fileHeader.Size > s.maxSize {
		return "", ErrFileTooLarge
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, _ := io.ReadFull(file, buf)
	mimeType := detectMime(buf[:n], fileHeader.Filename)

	ext, ok := s.allowed[mimeType]
	if !ok {
		return "", ErrInvalidMimeType
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind file: %w", err)
	}

	relDir, err := cleanRel(dir)
	if err != nil {
		return "", err
	}
	absDir := filepath.Join(s.baseDir, filepath.FromSlash(relDir))
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.NewString() + ext
	absPath := filepath.Join(absDir, name)
	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path.Join(relDir, name), nil
}

// Delete removes a stored file. A file that is already gone is not an error.
func (s *Local) Delete(relPath string) error {
	if relPath == "" {
		return nil
	}
	clean, err := cleanRel(relPath)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Local) URL(relPath string) string {
	if relPath == "" {
		return ""
	}
	return s.staticBase + "/" + strings.TrimLeft(relPath, "/")
}

// cleanRel rejects absolute paths and anything escaping the base directory.
func cleanRel(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	clean := path.Clean("/" + p)[1:]
	if clean == "" || strings.HasPrefix(p, "/") || clean != strings.Trim(p, "/") {
		return "", ErrInvalidPath
	}
	return clean, nil
}

func detectMime(head []byte, filename string) string {
	mimeType := strings.Split(http.DetectContentType(head), ";")[0]
	if strings.EqualFold(filepath.Ext(filename), ".svg") && strings.Contains(string(head), "<svg") {
		return "image/svg+xml"
	}
	return mimeType
}
