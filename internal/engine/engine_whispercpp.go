//go:build whisper_cpp

package engine

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"

	whisperpkg "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/rs/zerolog/log"

	"github.com/whispermac/parakeet/internal/audio"
	"github.com/whispermac/parakeet/internal/config"
)

// whisper.cpp expects 16kHz mono PCM32F.
const whisperSampleRate = 16000

// whisperEngine is the whisper.cpp-backed Engine. A successful LoadModel
// swaps the model in and closes the previous one; a failed load leaves
// the previous model untouched.
type whisperEngine struct {
	mu        sync.Mutex // protect model swap and serialize processing
	model     whisperpkg.Model
	modelPath string
	threads   uint
	language  string
}

func New(cfg config.Config) Engine {
	threads := uint(cfg.Threads)
	if threads == 0 {
		threads = uint(runtime.NumCPU())
	}
	lang := cfg.Language
	if lang == "" {
		lang = "auto"
	}
	return &whisperEngine{threads: threads, language: lang}
}

func (e *whisperEngine) LoadModel(path string) error {
	m, err := whisperpkg.New(path)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	e.mu.Lock()
	old := e.model
	e.model = m
	e.modelPath = path
	e.mu.Unlock()

	if old != nil {
		old.Close()
	}
	log.Info().Str("model", path).Msg("whisper: model loaded")
	return nil
}

func (e *whisperEngine) Transcribe(path string, opts *Options) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.model == nil {
		return nil, ErrNoModel
	}

	samples, rate, err := audio.DecodeWAVFile(path)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	if rate != whisperSampleRate {
		samples = audio.ResampleLinear(samples, rate, whisperSampleRate)
	}

	ctx, err := e.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("create context: %w", err)
	}
	ctx.SetThreads(e.threads)
	_ = ctx.SetLanguage(e.language)
	ctx.SetTokenTimestamps(true)

	if err := ctx.Process(samples, nil, nil, nil); err != nil {
		log.Error().Err(err).Int("samples", len(samples)).Msg("whisper: process failed")
		return nil, fmt.Errorf("process audio: %w", err)
	}

	var (
		segments []Segment
		parts    []string
	)
	for {
		seg, err := ctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read segment: %w", err)
		}
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Start: seg.Start.Seconds(),
			End:   seg.End.Seconds(),
			Text:  text,
		})
		parts = append(parts, text)
	}

	log.Debug().
		Str("file", path).
		Int("segments", len(segments)).
		Int("samples", len(samples)).
		Msg("whisper: transcription complete")

	return &Result{Text: strings.Join(parts, " "), Segments: segments}, nil
}

func (e *whisperEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model != nil {
		e.model.Close()
		e.model = nil
	}
	return nil
}
