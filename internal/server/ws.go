package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/whispermac/parakeet/internal/engine"
	"github.com/whispermac/parakeet/internal/protocol"
)

// WSServer carries the same command protocol over WebSocket text
// messages, one message per command and one per response. Each
// connection gets its own engine so the single-owner invariant holds
// per connection.
type WSServer struct {
	upgrader  websocket.Upgrader
	newEngine func() engine.Engine
}

func NewWSServer(newEngine func() engine.Engine) *WSServer {
	return &WSServer{
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024 * 16,
			WriteBufferSize: 1024 * 16,
		},
		newEngine: newEngine,
	}
}

// Handler exposes the transcription endpoint plus a health probe.
func (s *WSServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})
	mux.HandleFunc("/ws", s.handle)
	return mux
}

func (s *WSServer) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	eng := s.newEngine()
	defer eng.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(protocol.ReadySentinel)); err != nil {
		log.Error().Err(err).Msg("ws sentinel write failed")
		return
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Msg("ws read failed")
			}
			return
		}
		line := strings.TrimSpace(string(msg))
		if line == "" {
			continue
		}

		var resp protocol.Response
		cmd, err := protocol.Decode(line)
		if err != nil {
			resp = protocol.Err(err.Error())
		} else {
			resp = Handle(eng, cmd)
		}

		b, err := protocol.Encode(resp)
		if err != nil {
			log.Error().Err(err).Msg("ws encode failed")
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Warn().Err(err).Msg("ws write failed")
			return
		}
	}
}
