// Package extract pulls plain text out of source quote documents. PDF is
// the only binary format the suppliers send; .txt inputs pass through so a
// mixed input directory can be processed with one command.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"github.com/nordprofil/offertpipe/internal/domain"
)

// Text returns the plain text of one input file, dispatching on extension.
func Text(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return PDFText(data)
	case ".txt":
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: unsupported input %s", domain.ErrInvalidInput, filepath.Base(path))
	}
}

// PDFText extracts the plain text of a PDF document.
func PDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf reader: %v", domain.ErrInvalidInput, err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: pdf plaintext: %v", domain.ErrInvalidInput, err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return string(b), nil
}
