// Package input reads the paragraph text to parse from files of several
// formats.
package input

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/sentparse/internal/document"
)

// DemoParagraph is parsed when no input file is given.
const DemoParagraph = "My 1st sentence. “Does it work for questions?” My third sentence."

// Reader converts raw file bytes into a Document.
type Reader interface {
	Read(r io.Reader, filename string) (*document.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the reader for a filename.
func ForFile(filename string) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextReader{}, nil
	case ".md", ".markdown":
		return &MarkdownReader{}, nil
	case ".csv":
		return &CSVReader{}, nil
	case ".html", ".htm":
		return &HTMLReader{}, nil
	case ".pdf":
		return &PDFReader{FallbackPdftotext: true}, nil
	case ".docx":
		return &DOCXReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// ReadError reports an input file that could not be read or decoded.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read input %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// ReadFile reads and decodes the file at path. Every failure is a *ReadError.
func ReadFile(path string, pdfFallback bool) (*document.Document, error) {
	rd, err := ForFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	if p, ok := rd.(*PDFReader); ok {
		p.FallbackPdftotext = pdfFallback
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	doc, err := rd.Read(bytes.NewReader(data), filepath.Base(path))
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return doc, nil
}

func titleFrom(filename string, exts ...string) string {
	for _, ext := range exts {
		filename = strings.TrimSuffix(filename, ext)
	}
	return filename
}
