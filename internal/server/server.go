package server

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/whispermac/parakeet/internal/engine"
	"github.com/whispermac/parakeet/internal/protocol"
)

// Loop is the stdio command server. It owns the engine for the lifetime
// of the process and handles exactly one command at a time: no response
// is ever reordered relative to its request.
type Loop struct {
	engine engine.Engine
	in     io.Reader
	out    io.Writer
}

// NewLoop builds a loop reading commands from stdin and answering on
// stdout. Logging goes to stderr so the protocol channel stays clean.
func NewLoop(eng engine.Engine) *Loop {
	return &Loop{engine: eng, in: os.Stdin, out: os.Stdout}
}

// Run writes the readiness sentinel, then serves commands until the
// input stream ends. Blank lines are skipped without a response. A read
// or write failure is fatal and returned; per-command failures are
// answered in-band and the loop continues.
func (l *Loop) Run() error {
	w := bufio.NewWriter(l.out)
	if _, err := fmt.Fprintln(w, protocol.ReadySentinel); err != nil {
		return fmt.Errorf("write sentinel: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write sentinel: %w", err)
	}
	log.Info().Msg("command channel open")

	sc := bufio.NewScanner(l.in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		resp := l.handleLine(line)
		b, err := protocol.Encode(resp)
		if err != nil {
			// Dispatcher output should always serialize; treat as a bug.
			return err
		}
		if _, err := w.Write(append(b, '\n')); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}

	if err := sc.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	log.Info().Msg("input closed, shutting down")
	return nil
}

func (l *Loop) handleLine(line string) protocol.Response {
	cmd, err := protocol.Decode(line)
	if err != nil {
		log.Debug().Err(err).Msg("rejected command line")
		return protocol.Err(err.Error())
	}
	return Handle(l.engine, cmd)
}
