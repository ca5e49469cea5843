package document

import "strings"

// Document is text read from an input file, split into paragraphs.
type Document struct {
	Title      string      // From metadata or the filename
	Paragraphs []Paragraph // In reading order
}

// Paragraph is one block of running text.
type Paragraph struct {
	Section string // Nearest heading above the paragraph (empty if none)
	Text    string
	Page    int // Source page (0 if N/A)
}

// Add appends text as a paragraph when it has any non-space content.
func (d *Document) Add(section, text string, page int) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	d.Paragraphs = append(d.Paragraphs, Paragraph{Section: section, Text: text, Page: page})
}

// Texts returns the paragraph texts in order.
func (d *Document) Texts() []string {
	out := make([]string, len(d.Paragraphs))
	for i, p := range d.Paragraphs {
		out[i] = p.Text
	}
	return out
}

// SplitBlocks splits text into blocks separated by blank lines.
func SplitBlocks(text string) []string {
	var blocks []string
	var cur []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				blocks = append(blocks, strings.Join(cur, "\n"))
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		blocks = append(blocks, strings.Join(cur, "\n"))
	}
	return blocks
}
