// Package extract pulls plain text out of uploaded study material.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions no extractor handles.
var ErrUnsupportedFormat = fmt.Errorf("unsupported file format")

// Text extracts readable text from a document payload based on its filename
// extension. Supported: .pdf, .docx, .txt, .md, .html, .htm.
func Text(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return fromPDF(data)
	case ".docx":
		return fromDOCX(data)
	case ".html", ".htm":
		return fromHTML(data)
	case ".txt", ".md":
		return normalizeText(string(data)), nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\x00", " ")
	text = strings.ToValidUTF8(text, "")
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(text), " ")
}
