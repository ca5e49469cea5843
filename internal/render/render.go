// Package render writes parse reports as text, JSON, YAML or CoNLL-U.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/sentparse/internal/grammar"
	"github.com/dgallion1/sentparse/internal/model"
	"github.com/dgallion1/sentparse/internal/pipeline"
	"github.com/dgallion1/sentparse/internal/tree"
	"gopkg.in/yaml.v3"
)

// Write renders rep in format: text, json, yaml or conll.
func Write(w io.Writer, format string, rep *pipeline.Report, opts model.Options) error {
	switch format {
	case "", "text":
		return Text(w, rep, opts)
	case "json":
		return JSON(w, rep)
	case "yaml":
		return YAML(w, rep)
	case "conll":
		return CoNLL(w, rep)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Text prints the segmented sentence count, each parse with the sections
// requested by opts, and the number of sentences parsed.
func Text(w io.Writer, rep *pipeline.Report, opts model.Options) error {
	ew := &errWriter{w: w}
	ew.printf("%d\n", rep.Segmented)
	for _, res := range rep.Results() {
		ew.printf("%s\n", res.Format(opts))
	}
	failed := rep.Failed()
	for _, o := range failed {
		ew.printf("Failed : %v\n", o.Err)
	}
	if n := len(rep.Dropped); n > 0 {
		ew.printf("Number of sentences dropped : %d\n", n)
	}
	if len(failed) > 0 {
		ew.printf("Number of sentences failed : %d\n", len(failed))
	}
	ew.printf("Number of sentences parsed : %d\n", rep.Parsed())
	return ew.err
}

// ReportDoc is the structured form of a report.
type ReportDoc struct {
	Segmented int           `json:"segmented" yaml:"segmented"`
	Parsed    int           `json:"parsed" yaml:"parsed"`
	Failed    int           `json:"failed" yaml:"failed"`
	Dropped   []DroppedDoc  `json:"dropped" yaml:"dropped"`
	Sentences []SentenceDoc `json:"sentences" yaml:"sentences"`
}

// DroppedDoc is a sentence outside the word limits.
type DroppedDoc struct {
	Index int    `json:"index" yaml:"index"`
	Text  string `json:"text" yaml:"text"`
	Words int    `json:"words" yaml:"words"`
}

// SentenceDoc is one parsed or failed sentence.
type SentenceDoc struct {
	Index        int                       `json:"index" yaml:"index"`
	Text         string                    `json:"text" yaml:"text"`
	Parse        string                    `json:"parse,omitempty" yaml:"parse,omitempty"`
	TaggedWords  []tree.TaggedWord         `json:"tagged_words,omitempty" yaml:"tagged_words,omitempty"`
	Dependencies []grammar.TypedDependency `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Error        string                    `json:"error,omitempty" yaml:"error,omitempty"`
	DurationMs   int64                     `json:"duration_ms" yaml:"duration_ms"`
}

// NewReportDoc converts rep to its structured form.
func NewReportDoc(rep *pipeline.Report) ReportDoc {
	doc := ReportDoc{
		Segmented: rep.Segmented,
		Parsed:    rep.Parsed(),
		Failed:    len(rep.Failed()),
		Dropped:   make([]DroppedDoc, 0, len(rep.Dropped)),
		Sentences: make([]SentenceDoc, 0, len(rep.Outcomes)),
	}
	for _, s := range rep.Dropped {
		doc.Dropped = append(doc.Dropped, DroppedDoc{Index: s.Index, Text: strings.TrimSpace(s.Text), Words: len(s.Words())})
	}
	for _, o := range rep.Outcomes {
		sd := SentenceDoc{
			Index:      o.Index,
			Text:       strings.Join(o.Sentence.Words(), " "),
			DurationMs: o.Duration.Milliseconds(),
		}
		if o.OK() {
			sd.Parse = o.Result.Tree.String()
			sd.TaggedWords = o.Result.TaggedWords
			sd.Dependencies = o.Result.Dependencies
		} else {
			sd.Error = o.Err.Error()
		}
		doc.Sentences = append(doc.Sentences, sd)
	}
	return doc
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, rep *pipeline.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReportDoc(rep))
}

// YAML writes the report as a YAML document.
func YAML(w io.Writer, rep *pipeline.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewReportDoc(rep)); err != nil {
		return err
	}
	return enc.Close()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
