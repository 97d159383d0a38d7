// Package convert turns non-Markdown documents into Markdown so the
// section parser and chunker can treat every format uniformly.
package convert

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Converter renders a document as Markdown text.
type Converter interface {
	ToMarkdown(r io.Reader, filename string) (string, error)
}

// SupportedExtensions lists file extensions the indexer can handle.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the converter for a filename, or an error for
// unsupported extensions. Markdown and plain text need no conversion
// and return a passthrough converter.
func ForFile(filename string) (Converter, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown", ".txt":
		return passthrough{}, nil
	case ".html", ".htm":
		return &HTML{}, nil
	case ".pdf":
		return &PDF{FallbackPdftotext: true}, nil
	case ".docx":
		return &DOCX{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(filename))
	}
}

// IsSupported checks whether a filename has a convertible extension.
func IsSupported(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

type passthrough struct{}

func (passthrough) ToMarkdown(r io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(data), nil
}
