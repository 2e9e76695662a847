// Package protocol implements the line-delimited JSON command protocol.
// Each input line is a single JSON object selected by a "command"
// discriminator; each output line is a status-tagged response object.
package protocol

import (
	"encoding/json"
	"fmt"
)

// ReadySentinel is written once before any response to signal that the
// command channel is open.
const ReadySentinel = "PARAKEET_SERVER_READY"

// Kind identifies a command variant. Values match the wire discriminator.
type Kind string

const (
	KindLoadModel  Kind = "load_model"
	KindTranscribe Kind = "transcribe"
	KindPing       Kind = "ping"
)

// TranscribeOptions is reserved for future recognition parameters.
// An absent options object and an empty one are equivalent.
type TranscribeOptions struct{}

// Command is a decoded protocol command. Kind selects the variant;
// Path is set for load_model and transcribe.
type Command struct {
	Kind    Kind
	Path    string
	Options *TranscribeOptions
}

// wireCommand is the on-the-wire shape shared by all variants.
type wireCommand struct {
	Command string             `json:"command"`
	Path    *string            `json:"path,omitempty"`
	Options *TranscribeOptions `json:"options,omitempty"`
}

// Decode parses one non-blank line into a Command. Invalid JSON, a
// missing or unknown discriminator, or a missing required field all
// yield an error; the caller is expected to turn it into an error
// response rather than let it escape.
func Decode(line string) (Command, error) {
	var w wireCommand
	if err := json.Unmarshal([]byte(line), &w); err != nil {
		return Command{}, fmt.Errorf("invalid command: %w", err)
	}
	if w.Command == "" {
		return Command{}, fmt.Errorf("invalid command: missing %q field", "command")
	}

	switch Kind(w.Command) {
	case KindPing:
		return Command{Kind: KindPing}, nil
	case KindLoadModel:
		if w.Path == nil {
			return Command{}, fmt.Errorf("invalid command: load_model requires %q", "path")
		}
		return Command{Kind: KindLoadModel, Path: *w.Path}, nil
	case KindTranscribe:
		if w.Path == nil {
			return Command{}, fmt.Errorf("invalid command: transcribe requires %q", "path")
		}
		return Command{Kind: KindTranscribe, Path: *w.Path, Options: w.Options}, nil
	default:
		return Command{}, fmt.Errorf("invalid command: unknown command %q", w.Command)
	}
}

// EncodeCommand serializes a Command back into its wire form. Decoding
// the result reproduces an equivalent Command.
func EncodeCommand(cmd Command) ([]byte, error) {
	w := wireCommand{Command: string(cmd.Kind), Options: cmd.Options}
	if cmd.Kind == KindLoadModel || cmd.Kind == KindTranscribe {
		w.Path = &cmd.Path
	}
	return json.Marshal(w)
}

// Response is the single-line reply to a command. Data is omitted from
// the wire form when nil; Message is only set on error.
type Response struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// OK builds a success response. data may be nil.
func OK(data any) Response {
	return Response{Status: StatusOK, Data: data}
}

// Err builds an error response carrying diagnostic text. The message is
// free-form and not meant to be parsed.
func Err(message string) Response {
	return Response{Status: StatusError, Message: message}
}

// Encode serializes a response into one line worth of bytes, without the
// trailing newline. Failure here means a non-serializable Data value was
// handed in, which is a bug in the caller rather than a runtime condition.
func Encode(resp Response) ([]byte, error) {
	b, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return b, nil
}

// TranscriptionOutput is the data payload of a successful transcribe
// response.
type TranscriptionOutput struct {
	Text             string    `json:"text"`
	Segments         []Segment `json:"segments"`
	ProcessingTimeMS int64     `json:"processing_time_ms"`
}

// Segment is a timestamped sub-span of the transcript. Start and End are
// offsets in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
