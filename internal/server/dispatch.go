// Package server dispatches protocol commands against a recognition
// engine and runs the transports that carry them.
package server

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/whispermac/parakeet/internal/engine"
	"github.com/whispermac/parakeet/internal/protocol"
)

// Handle maps one command to one response, delegating side effects to
// the engine. Per-command failures come back as error responses and
// never escape as Go errors.
func Handle(eng engine.Engine, cmd protocol.Command) protocol.Response {
	switch cmd.Kind {
	case protocol.KindPing:
		return protocol.OK(nil)

	case protocol.KindLoadModel:
		if err := eng.LoadModel(cmd.Path); err != nil {
			log.Warn().Err(err).Str("model", cmd.Path).Msg("model load failed")
			return protocol.Err("Failed to load model: " + err.Error())
		}
		return protocol.OK(nil)

	case protocol.KindTranscribe:
		var opts *engine.Options
		if cmd.Options != nil {
			opts = &engine.Options{}
		}
		start := time.Now()
		result, err := eng.Transcribe(cmd.Path, opts)
		if err != nil {
			log.Warn().Err(err).Str("file", cmd.Path).Msg("transcription failed")
			return protocol.Err("Transcription failed: " + err.Error())
		}
		elapsed := time.Since(start)

		segments := make([]protocol.Segment, 0, len(result.Segments))
		for _, s := range result.Segments {
			segments = append(segments, protocol.Segment{Start: s.Start, End: s.End, Text: s.Text})
		}
		return protocol.OK(protocol.TranscriptionOutput{
			Text:             result.Text,
			Segments:         segments,
			ProcessingTimeMS: elapsed.Milliseconds(),
		})
	}

	// Decode only produces the kinds above.
	return protocol.Err("unknown command")
}
