package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/a3tai/mcp-doc-analyzer/internal/pdf/security"
)

var pdfMagic = []byte("%PDF-")

// Service loads document text by orchestrating validation, extraction and
// path confinement
type Service struct {
	maxFileSize   int64
	reader        *Reader
	validator     *Validator
	search        *Search
	pathValidator *security.PathValidator
}

// NewService creates a new document service rooted at configuredDirectory
func NewService(maxFileSize int64, configuredDirectory string) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		maxFileSize:   maxFileSize,
		reader:        NewReader(),
		validator:     NewValidator(maxFileSize),
		search:        NewSearch(maxFileSize),
		pathValidator: pathValidator,
	}, nil
}

// ReadDocument loads the text of a file inside the configured directory.
// Relative paths are resolved against that directory.
func (s *Service) ReadDocument(path string) (*Document, error) {
	resolved, err := s.pathValidator.ResolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	info, err := os.Stat(resolved)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if err := s.validator.ValidateFileInfo(resolved, info); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	format, _ := formatOf(resolved)
	doc, err := s.load(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = resolved
	return doc, nil
}

// ExtractText loads an uploaded document. The format comes from the name's
// extension, or from the content when the name has none.
func (s *Service) ExtractText(r io.Reader, name string) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := s.validator.ValidateSize(int64(len(data))); err != nil {
		return nil, err
	}

	format, err := formatOf(name)
	if errors.Is(err, ErrUnsupportedFile) {
		switch {
		case bytes.HasPrefix(data, pdfMagic):
			format = FormatPDF
		case name == "" || !bytes.Contains(data, []byte{0}):
			format = FormatText
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, name)
		}
	}

	doc, err := s.load(data, format)
	if err != nil {
		return nil, err
	}
	doc.Path = name
	return doc, nil
}

// ReadFrom loads plain text from a stream such as stdin
func (s *Service) ReadFrom(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("input too large (max: %d bytes)", s.maxFileSize)
	}
	if bytes.HasPrefix(data, pdfMagic) {
		return s.load(data, FormatPDF)
	}
	return s.load(data, FormatText)
}

func (s *Service) load(data []byte, format string) (*Document, error) {
	doc := &Document{Format: format, Size: int64(len(data))}

	switch format {
	case FormatPDF:
		pages, err := s.validator.ValidatePDF(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		text, err := s.reader.ReadPDF(data)
		if err != nil {
			return nil, err
		}
		doc.Pages = pages
		doc.Text = text
	default:
		text, err := s.reader.ReadText(data)
		if err != nil {
			return nil, err
		}
		doc.Pages = 1
		doc.Text = text
	}

	return doc, nil
}

// FindDocuments lists supported files in the configured directory
func (s *Service) FindDocuments(query string, limit int) ([]FileInfo, error) {
	return s.search.FindDocuments(s.pathValidator.GetConfiguredDirectory(), query, limit)
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// Directory returns the configured document directory
func (s *Service) Directory() string {
	return s.pathValidator.GetConfiguredDirectory()
}
