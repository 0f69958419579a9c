package pdf

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFile is returned for files that are neither PDF nor plain text
var ErrUnsupportedFile = errors.New("unsupported file type")

// Document formats
const (
	FormatPDF  = "pdf"
	FormatText = "text"
)

// textExtensions are read verbatim as UTF-8 text
var textExtensions = map[string]bool{
	".txt":  true,
	".text": true,
	".md":   true,
}

// Document is the text loaded from a file or upload
type Document struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Pages  int    `json:"pages"`
	Size   int64  `json:"size"`
	Text   string `json:"-"`
}

// FileInfo describes a document found in the configured directory
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Format       string `json:"format"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// formatOf maps a file name to its document format
func formatOf(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case ext == ".pdf":
		return FormatPDF, nil
	case textExtensions[ext]:
		return FormatText, nil
	default:
		return "", ErrUnsupportedFile
	}
}

// IsSupported reports whether a file name has a loadable extension
func IsSupported(name string) bool {
	_, err := formatOf(name)
	return err == nil
}
