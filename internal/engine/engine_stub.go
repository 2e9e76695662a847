//go:build !whisper_cpp

package engine

import (
	"errors"

	"github.com/whispermac/parakeet/internal/config"
)

// Default stub (no cgo) so the project builds without the whisper_cpp
// tag. Every operation fails so callers see an honest error instead of
// empty transcripts.
type stubEngine struct{}

var errNotCompiled = errors.New("whisper.cpp support not compiled in (build with -tags whisper_cpp)")

func New(cfg config.Config) Engine { return &stubEngine{} }

func (e *stubEngine) LoadModel(path string) error { return errNotCompiled }

func (e *stubEngine) Transcribe(path string, opts *Options) (*Result, error) {
	return nil, errNotCompiled
}

func (e *stubEngine) Close() error { return nil }
