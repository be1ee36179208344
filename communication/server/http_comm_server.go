package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
	"wars/communication"
	"wars/game"
	"wars/gamemaster"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "wars/communication/server"

const writeWait = 10 * time.Second

// Server exposes a session over HTTP and websocket.
type Server struct {
	session   *gamemaster.Session
	mux       *http.ServeMux
	upgrader  websocket.Upgrader
	processed metric.Int64Counter
	rejected  metric.Int64Counter
}

// NewServer wires the routes for a session. Counters come from the global
// OTel provider, a no-op unless one is configured.
func NewServer(session *gamemaster.Session) (*Server, error) {
	s := &Server{
		session:  session,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}

	m := otel.Meter(instrumentationName)
	var err error
	s.processed, err = m.Int64Counter(
		"battle.intents.processed",
		metric.WithDescription("Total intents applied to the battle"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}
	s.rejected, err = m.Int64Counter(
		"battle.intents.rejected",
		metric.WithDescription("Total intents rejected by the battle"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejected counter: %w", err)
	}

	s.mux.HandleFunc("GET /state", s.handleGetState)
	s.mux.HandleFunc("POST /intent", s.handleIntent)
	s.mux.HandleFunc("GET /save", s.handleGetSave)
	s.mux.HandleFunc("GET /ws", s.handleUpdates)
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("serving battle on %s", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	var intent game.Intent
	if err := json.NewDecoder(r.Body).Decode(&intent); err != nil {
		writeJSON(w, http.StatusBadRequest, communication.ErrorResponse{Error: "bad request: " + err.Error()})
		return
	}
	kind := metric.WithAttributes(attribute.String("intent", intent.Kind.String()))
	if err := s.session.Play(intent); err != nil {
		s.rejected.Add(r.Context(), 1, kind)
		status := http.StatusConflict
		if errors.Is(err, gamemaster.ErrSessionOver) {
			status = http.StatusGone
		}
		log.Debug().Err(err).Msgf("rejected %v", intent)
		writeJSON(w, status, communication.ErrorResponse{Error: err.Error()})
		return
	}
	s.processed.Add(r.Context(), 1, kind)
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleGetSave(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, s.session.Save())
}

// handleUpdates sends the current snapshot, then every update until the game
// ends or the client goes away.
func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates, detach := s.session.Subscribe()
	defer detach()

	// the read loop only notices the client closing
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	first := s.session.Snapshot()
	if err := writeUpdate(conn, gamemaster.Update{Snapshot: first, Hash: first.Hash}); err != nil {
		return
	}
	for {
		select {
		case <-gone:
			return
		case u, ok := <-updates:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"))
				return
			}
			if err := writeUpdate(conn, u); err != nil {
				return
			}
		}
	}
}

func writeUpdate(conn *websocket.Conn, u gamemaster.Update) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(u)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}
