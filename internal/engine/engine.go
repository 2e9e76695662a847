// Package engine defines the boundary around the speech-recognition
// library. The protocol layer treats it as an opaque capability: load a
// model, transcribe a file, surface printable errors.
package engine

import "errors"

// ErrNoModel is returned by Transcribe when no model has been loaded.
var ErrNoModel = errors.New("no model loaded")

// Options carries recognition parameters for a single transcription.
// Currently empty; present so the signature does not change when
// parameters are added.
type Options struct{}

// Segment is one timestamped span of recognized speech, offsets in seconds.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Result is the raw output of a transcription. Segments may be empty
// when the recognizer produced no spans.
type Result struct {
	Text     string
	Segments []Segment
}

// Engine is the adapter around the recognition backend. Implementations
// start with no model; LoadModel transitions them to loaded and a later
// successful LoadModel replaces the model. A failed LoadModel leaves any
// previously loaded model usable.
type Engine interface {
	// LoadModel loads the model at path, replacing the current one on
	// success only.
	LoadModel(path string) error
	// Transcribe runs recognition over the audio file at path. Returns
	// ErrNoModel when called before a successful LoadModel.
	Transcribe(path string, opts *Options) (*Result, error)
	Close() error
}
