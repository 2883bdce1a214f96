package filestorage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yigit/dojo/internal/pkg/logger"
)

// ErrInvalidPath is returned for paths escaping the storage root
var ErrInvalidPath = errors.New("invalid storage path")

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // The base URL to access the stored files (optional, for generating full URLs)
}

// NewLocalStorage creates a new LocalStorage instance.
// basePath is the required directory path on the server.
// baseURL is optional; if provided, URL prefixes relative paths with it.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// BasePath returns the storage root
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// SaveBytes writes data into subPath under a uuid-based file name
func (ls *LocalStorage) SaveBytes(subPath, ext string, data []byte) (string, error) {
	fullDirPath := ls.basePath
	if subPath != "" {
		fullDirPath = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
			logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	uniqueFilename := uuid.New().String() + ext
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write file")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	relPath := uniqueFilename
	if subPath != "" {
		relPath = filepath.ToSlash(filepath.Join(subPath, uniqueFilename))
	}

	logger.Info().Str("saved_as", relPath).Int("bytes", len(data)).Msg("File saved successfully")
	return relPath, nil
}

// ReadFile reads a stored file
func (ls *LocalStorage) ReadFile(relPath string) ([]byte, error) {
	full := ls.GetFullPath(relPath)
	if full == "" {
		return nil, ErrInvalidPath
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", relPath, err)
	}
	return data, nil
}

// DeleteFile removes a stored file. Missing files are ignored.
func (ls *LocalStorage) DeleteFile(relPath string) error {
	full := ls.GetFullPath(relPath)
	if full == "" {
		return ErrInvalidPath
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", relPath, err)
	}
	return nil
}

// GetFullPath returns the full filesystem path for a relative path,
// or an empty string when the path would leave the storage root.
func (ls *LocalStorage) GetFullPath(relPath string) string {
	clean := filepath.Clean("/" + filepath.FromSlash(relPath))
	if clean == string(filepath.Separator) {
		return ""
	}
	return filepath.Join(ls.basePath, clean)
}

// URL returns the public URL of a stored file
func (ls *LocalStorage) URL(relPath string) string {
	if ls.baseURL == "" {
		return "/uploads/" + strings.TrimLeft(relPath, "/")
	}
	return strings.TrimRight(ls.baseURL, "/") + "/" + strings.TrimLeft(relPath, "/")
}
