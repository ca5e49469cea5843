// Package model defines the parsing capability consumed by the pipeline and
// the option list a model is loaded with.
package model

import (
	"context"
	"errors"
	"sync"

	"github.com/dgallion1/sentparse/internal/grammar"
	"github.com/dgallion1/sentparse/internal/tree"
)

var (
	// ErrNoParse means the model produced no tree for the sentence.
	ErrNoParse = errors.New("no parse")
	// ErrSentenceTooLong means the sentence exceeds the model's -maxLength.
	ErrSentenceTooLong = errors.New("sentence exceeds maximum parse length")
)

// Model is a loaded parser. Parse may be called from several goroutines at
// once unless the model also implements Serial and returns true.
type Model interface {
	Parse(ctx context.Context, words []string) (*tree.Tree, error)
	LanguagePack() *grammar.Pack
	Close() error
}

// Serial is implemented by models that must not be called concurrently.
type Serial interface {
	Serial() bool
}

// IsSerial reports whether m requires serialized access.
func IsSerial(m Model) bool {
	s, ok := m.(Serial)
	return ok && s.Serial()
}

// Serialize guards m with a mutex so callers may share it freely.
func Serialize(m Model) Model {
	return &serialized{m: m}
}

type serialized struct {
	mu sync.Mutex
	m  Model
}

func (s *serialized) Parse(ctx context.Context, words []string) (*tree.Tree, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.m.Parse(ctx, words)
}

func (s *serialized) LanguagePack() *grammar.Pack { return s.m.LanguagePack() }

func (s *serialized) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.Close()
}
