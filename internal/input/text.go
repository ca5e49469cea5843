package input

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/sentparse/internal/document"
)

// TextReader handles plain text files. Blank lines separate paragraphs.
type TextReader struct{}

func (p *TextReader) Read(r io.Reader, filename string) (*document.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	doc := &document.Document{Title: titleFrom(filename, ".txt")}
	var current strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			doc.Add("", current.String(), 0)
			current.Reset()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	doc.Add("", current.String(), 0)
	return doc, nil
}
