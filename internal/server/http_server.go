package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pokeclicker-automation/autoseller/internal/event"
	"github.com/pokeclicker-automation/autoseller/internal/game"
	"github.com/pokeclicker-automation/autoseller/internal/menu"
)

const writeTimeout = 5 * time.Second

type HttpServer struct {
	logger   *slog.Logger
	addr     string
	registry *menu.Registry
	bridge   *game.Bridge
	upgrader websocket.Upgrader

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]struct{}
}

type wsMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type notificationPayload struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurredAt"`
}

type soldPayload struct {
	ID       string         `json:"id"`
	Source   string         `json:"source"`
	Currency string         `json:"currency"`
	Earned   int            `json:"earned"`
	Sold     map[string]int `json:"sold"`
}

type togglePayload struct {
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
}

func New(logger *slog.Logger, addr string, registry *menu.Registry, bridge *game.Bridge) *HttpServer {
	return &HttpServer{
		logger:   logger,
		addr:     addr,
		registry: registry,
		bridge:   bridge,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The game page runs on the game's own origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

func (s *HttpServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.index)
	mux.HandleFunc("GET /api/menu", s.getMenu)
	mux.HandleFunc("POST /api/toggle", s.toggle)
	mux.HandleFunc("GET /ws", s.panelSocket)
	mux.HandleFunc("GET /bridge", s.bridgeSocket)
	mux.HandleFunc("GET /bridge.user.js", s.bridgeUserScript)

	return mux
}

// Listen serves until ctx is done, then shuts down gracefully.
func (s *HttpServer) Listen(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(fmt.Sprintf("Settings panel listening on http://%s", s.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("settings panel: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeClients()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *HttpServer) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

func (s *HttpServer) getMenu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"bridgeConnected": s.bridge != nil && s.bridge.Connected(),
		"containers":      s.registry.Snapshot(),
	})
}

func (s *HttpServer) toggle(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing key"})
		return
	}

	enabled, err := s.registry.Click(key)
	if errors.Is(err, menu.ErrUnknownSetting) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		s.logger.Error(fmt.Sprintf("Error toggling %s: %v", key, err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	event.Send(event.FeatureToggled(event.Text("Panel", fmt.Sprintf("%s set to %t", key, enabled)), key, enabled))
	writeJSON(w, http.StatusOK, togglePayload{Key: key, Enabled: enabled})
}

func (s *HttpServer) panelSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug(fmt.Sprintf("Panel websocket upgrade failed: %v", err))
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = struct{}{}
	s.clientsMu.Unlock()

	// Panel clients never send anything meaningful, reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.removeClient(conn)
			return
		}
	}
}

func (s *HttpServer) bridgeSocket(w http.ResponseWriter, r *http.Request) {
	if s.bridge == nil {
		http.Error(w, "bridge disabled", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug(fmt.Sprintf("Bridge websocket upgrade failed: %v", err))
		return
	}

	if err = s.bridge.Serve(r.Context(), conn); err != nil {
		s.logger.Warn(fmt.Sprintf("Game bridge connection lost: %v", err))
	}
}

// HandleEvent pushes notifications and setting changes to every open panel.
func (s *HttpServer) HandleEvent(_ context.Context, e event.Event) error {
	var msg wsMessage
	switch evt := e.(type) {
	case event.FeatureToggledEvent:
		msg = wsMessage{Type: "toggle", Payload: togglePayload{Key: evt.Key, Enabled: evt.Enabled}}
	case event.ItemsSoldEvent:
		msg = wsMessage{Type: "sold", Payload: soldPayload{
			ID:       evt.ID(),
			Source:   evt.Source(),
			Currency: evt.Currency,
			Earned:   evt.Earned,
			Sold:     evt.Sold,
		}}
	default:
		msg = wsMessage{Type: "notification", Payload: notificationPayload{
			ID:         e.ID(),
			Source:     e.Source(),
			Message:    e.Message(),
			OccurredAt: e.OccurredAt(),
		}}
	}

	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for conn := range s.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Debug(fmt.Sprintf("Dropping panel client: %v", err))
			conn.Close()
			delete(s.clients, conn)
		}
	}

	return nil
}

func (s *HttpServer) removeClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	delete(s.clients, conn)
	conn.Close()
}

func (s *HttpServer) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for conn := range s.clients {
		conn.Close()
		delete(s.clients, conn)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
