// Package document extracts plain text from uploaded CV files.
package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format, only PDF and DOCX are supported")
	ErrUnreadable        = errors.New("document cannot be parsed")
	ErrEmptyDocument     = errors.New("document contains no extractable text")
)

// Extensions lists the accepted file extensions.
var Extensions = []string{".pdf", ".docx", ".doc"}

// Supported reports whether the file name has an accepted extension.
func Supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ExtractText returns the text of a PDF or Word document.
func ExtractText(filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx", ".doc":
		text, err = extractDocx(data)
	default:
		return "", ErrUnsupportedFormat
	}

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyDocument
	}

	return text, nil
}
