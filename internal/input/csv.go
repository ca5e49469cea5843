package input

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/sentparse/internal/document"
)

// CSVReader handles CSV files. The first row holds column names; every
// non-empty cell below it is a paragraph in its column's section.
type CSVReader struct{}

func (p *CSVReader) Read(r io.Reader, filename string) (*document.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &document.Document{Title: titleFrom(filename, ".csv")}
	if len(records) == 0 {
		return doc, nil
	}
	headers := records[0]
	for _, row := range records[1:] {
		for j, cell := range row {
			column := fmt.Sprintf("column %d", j+1)
			if j < len(headers) && headers[j] != "" {
				column = headers[j]
			}
			doc.Add(column, cell, 0)
		}
	}
	return doc, nil
}
