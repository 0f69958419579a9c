package pdf

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Search discovers loadable documents below a directory
type Search struct {
	validator *Validator
}

// NewSearch creates a new search handler with the specified constraints
func NewSearch(maxFileSize int64) *Search {
	return &Search{
		validator: NewValidator(maxFileSize),
	}
}

// FindDocuments walks directory and returns supported files whose name
// contains every word of query, sorted by path. A limit of zero or less
// returns all matches.
func (s *Search) FindDocuments(directory, query string, limit int) ([]FileInfo, error) {
	if directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", directory)
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	words := strings.Fields(strings.ToLower(query))
	files := []FileInfo{}

	err = filepath.WalkDir(absDirectory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // keep walking past unreadable entries
		}
		// symlinked entries could point outside the directory
		if d.Type()&fs.ModeSymlink != 0 || d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // entry vanished during the walk
		}
		if err := s.validator.ValidateFileInfo(path, info); err != nil {
			return nil //nolint:nilerr // skip files that cannot be analysed
		}
		if !matchesQuery(info.Name(), words) {
			return nil
		}

		format, _ := formatOf(path)
		files = append(files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Format:       format,
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format(time.RFC3339),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}

func matchesQuery(name string, words []string) bool {
	lower := strings.ToLower(name)
	for _, w := range words {
		if !strings.Contains(lower, w) {
			return false
		}
	}
	return true
}
