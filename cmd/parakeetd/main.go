// parakeetd wraps a speech-recognition engine behind a line-delimited
// JSON command protocol on stdio (server mode) or transcribes a single
// file (one-shot mode).
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/whispermac/parakeet/internal/config"
	"github.com/whispermac/parakeet/internal/engine"
	"github.com/whispermac/parakeet/internal/protocol"
	"github.com/whispermac/parakeet/internal/server"
)

var (
	filePath   string
	modelPath  string
	outputMode string
	serverMode bool
	listenAddr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "parakeetd",
		Short: "Speech-to-text command server",
		Long: `parakeetd exposes a speech-recognition engine over a line-delimited
JSON protocol on stdin/stdout, or transcribes a single file when given
--file and --model.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVarP(&filePath, "file", "f", "", "Path to the audio file (one-shot mode)")
	rootCmd.Flags().StringVarP(&modelPath, "model", "m", "", "Path to the model file (one-shot mode)")
	rootCmd.Flags().StringVarP(&outputMode, "output", "o", "json", "One-shot output format (json or text)")
	rootCmd.Flags().BoolVar(&serverMode, "server", false, "Run the stdio command server")
	rootCmd.Flags().StringVar(&listenAddr, "listen", "", "Serve the command protocol over WebSocket on this address")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	lvl := zerolog.InfoLevel
	if l, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		lvl = l
	}
	log.Logger = log.Level(lvl)

	switch {
	case listenAddr != "":
		return runWS(cfg, listenAddr)
	case serverMode:
		eng := engine.New(cfg)
		defer eng.Close()
		return server.NewLoop(eng).Run()
	default:
		if filePath == "" || modelPath == "" {
			return errors.New("--file and --model are required unless --server or --listen is set")
		}
		return runOnce(cfg)
	}
}

func runWS(cfg config.Config, addr string) error {
	wss := server.NewWSServer(func() engine.Engine { return engine.New(cfg) })
	srv := &http.Server{
		Addr:        addr,
		Handler:     wss.Handler(),
		ReadTimeout: 30 * time.Second,
	}
	log.Info().Str("addr", addr).Msg("parakeetd websocket server starting")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// runOnce loads the model and transcribes exactly once, printing either
// the JSON transcription output or the bare text.
func runOnce(cfg config.Config) error {
	eng := engine.New(cfg)
	defer eng.Close()

	resp := server.Handle(eng, protocol.Command{Kind: protocol.KindLoadModel, Path: modelPath})
	if resp.Status != protocol.StatusOK {
		return errors.New(resp.Message)
	}

	resp = server.Handle(eng, protocol.Command{Kind: protocol.KindTranscribe, Path: filePath})
	if resp.Status != protocol.StatusOK {
		return errors.New(resp.Message)
	}
	out, ok := resp.Data.(protocol.TranscriptionOutput)
	if !ok {
		return errors.New("unexpected transcription payload")
	}

	if outputMode == "text" {
		fmt.Println(out.Text)
		return nil
	}
	b, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Println(string(b))
	return nil
}
