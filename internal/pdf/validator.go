package pdf

import (
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validator checks files before their text is extracted
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new validator with the given size limit
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateFileInfo performs basic validation on file info without opening the file
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if _, err := formatOf(filePath); err != nil {
		return fmt.Errorf("%w: %s", err, filePath)
	}

	return v.ValidateSize(fileInfo.Size())
}

// ValidateSize rejects empty and oversized content
func (v *Validator) ValidateSize(size int64) error {
	if size == 0 {
		return fmt.Errorf("file is empty")
	}
	if size > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)", size, v.maxFileSize)
	}
	return nil
}

// ValidatePDF parses the PDF structure in relaxed mode and returns its page
// count. Broken cross-reference tables and truncated files fail here, before
// text extraction is attempted.
func (v *Validator) ValidatePDF(rs io.ReadSeeker) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return 0, fmt.Errorf("invalid PDF file: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("invalid PDF file: %w", err)
	}

	return ctx.PageCount, nil
}
