package filestorage

// FileStorage defines the interface for generated document storage
type FileStorage interface {
	// SaveBytes writes data under subPath with a unique name and returns its relative path
	SaveBytes(subPath, ext string, data []byte) (string, error)

	// ReadFile returns the content stored at a relative path
	ReadFile(relPath string) ([]byte, error)

	// DeleteFile removes a file from storage
	DeleteFile(relPath string) error

	// GetFullPath returns the filesystem path for a relative path
	GetFullPath(relPath string) string

	// URL returns the public URL for a relative path
	URL(relPath string) string
}
