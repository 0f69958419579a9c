package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Reader extracts text from PDF and plain-text content
type Reader struct {
	maxTextSize int
}

// NewReader creates a new reader
func NewReader() *Reader {
	return &Reader{
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
	}
}

// ReadPDF extracts the text of every page, separated by blank lines
func (r *Reader) ReadPDF(data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("failed to read PDF: %v", rec)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	text, err = r.extractTextContent(pdfReader)
	if err != nil {
		return "", fmt.Errorf("failed to extract text content: %w", err)
	}
	return text, nil
}

// ReadText returns plain-text content, rejecting binary data
func (r *Reader) ReadText(data []byte) (string, error) {
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return "", fmt.Errorf("content is not UTF-8 text")
	}
	if len(data) > r.maxTextSize {
		data = data[:r.maxTextSize]
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

// extractTextContent extracts text content from a PDF reader
func (r *Reader) extractTextContent(pdfReader *pdf.Reader) (string, error) {
	var builder strings.Builder
	totalLength := 0

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if totalLength+len(content) > r.maxTextSize {
			remaining := r.maxTextSize - totalLength
			if remaining > 0 {
				builder.WriteString(strings.ToValidUTF8(content[:remaining], ""))
			}
			break
		}

		builder.WriteString(content)
		totalLength += len(content)

		if pageNum < pdfReader.NumPage() {
			builder.WriteString("\n\n")
		}
	}

	text := builder.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content could be extracted from PDF")
	}

	return text, nil
}
