package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pokeclicker-automation/autoseller/internal/event"
	"github.com/pokeclicker-automation/autoseller/internal/game"
	"github.com/pokeclicker-automation/autoseller/internal/menu"
	"github.com/pokeclicker-automation/autoseller/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*HttpServer, *httptest.Server, settings.Store) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := settings.NewMemoryStore()
	registry := menu.NewRegistry(store, logger)

	c := registry.AddContainer()
	btn := registry.AddAutomationButton("Auto Seller", "AutoSeller-Enabled", "", c)
	registry.AddSettingPanel(btn).AddLabeledToggle("Auto Sell Plates", "AutoSell-Plates", "")

	s := New(logger, "127.0.0.1:0", registry, game.NewBridge(logger, time.Second))
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	return s, srv, store
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestGetMenu(t *testing.T) {
	_, srv, store := newTestServer(t)
	require.NoError(t, store.Set("AutoSeller-Enabled", settings.True))

	resp, err := http.Get(srv.URL + "/api/menu")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		BridgeConnected bool                 `json:"bridgeConnected"`
		Containers      []menu.ContainerView `json:"containers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.False(t, body.BridgeConnected)
	require.Len(t, body.Containers, 1)
	require.Len(t, body.Containers[0].Elements, 1)
	assert.True(t, body.Containers[0].Elements[0].Enabled)
	assert.Equal(t, "AutoSell-Plates", body.Containers[0].Elements[0].Panel.Toggles[0].Key)
}

func TestToggle(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
	}{
		{name: "known key", query: "?key=AutoSell-Plates", status: http.StatusOK},
		{name: "unknown key", query: "?key=AutoFarm-Enabled", status: http.StatusNotFound},
		{name: "missing key", query: "", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, srv, store := newTestServer(t)

			resp, err := http.Post(srv.URL+"/api/toggle"+tt.query, "", nil)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.status == http.StatusOK {
				var got togglePayload
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
				assert.Equal(t, togglePayload{Key: "AutoSell-Plates", Enabled: true}, got)
				assert.True(t, settings.Enabled(store, "AutoSell-Plates"))
			}
		})
	}
}

func TestToggleRejectsGet(t *testing.T) {
	_, srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/toggle?key=AutoSell-Plates")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestPanelSocketReceivesNotifications(t *testing.T) {
	s, srv, _ := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		s.clientsMu.Lock()
		defer s.clientsMu.Unlock()
		return len(s.clients) == 1
	}, time.Second, 5*time.Millisecond)

	e := event.Notification(event.Text("Seller", "Seller sold treasure for 4 diamonds and some gems"))
	require.NoError(t, s.HandleEvent(context.Background(), e))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var msg struct {
		Type    string              `json:"type"`
		Payload notificationPayload `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "notification", msg.Type)
	assert.Equal(t, "Seller", msg.Payload.Source)
	assert.Equal(t, e.Message(), msg.Payload.Message)
	assert.Equal(t, e.ID(), msg.Payload.ID)
}

func TestBridgeSocketAttachesGamePage(t *testing.T) {
	s, srv, _ := newTestServer(t)

	page, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/bridge"), nil)
	require.NoError(t, err)
	defer page.Close()

	assert.Eventually(t, s.bridge.Connected, time.Second, 5*time.Millisecond)
}

func TestIndex(t *testing.T) {
	_, srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<title>Autoseller</title>")
}

func TestBridgeUserScript(t *testing.T) {
	_, srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/bridge.user.js")
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, resp.Header.Get("Content-Type"), "javascript")
	assert.Contains(t, string(b), `"underground.sell"`)
	assert.Contains(t, string(b), `const url = "ws://`+strings.TrimPrefix(srv.URL, "http://")+`/bridge";`)
	assert.NotContains(t, string(b), "{{")
}

func TestPanelSocketReceivesSoldReports(t *testing.T) {
	s, srv, _ := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		s.clientsMu.Lock()
		defer s.clientsMu.Unlock()
		return len(s.clients) == 1
	}, time.Second, 5*time.Millisecond)

	e := event.ItemsSold(event.Text("Seller", "Sold 3 items for 6 diamond"), "diamond", 6, map[string]int{"Revive": 2, "Iron_ball": 1})
	require.NoError(t, s.HandleEvent(context.Background(), e))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var msg struct {
		Type    string      `json:"type"`
		Payload soldPayload `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "sold", msg.Type)
	assert.Equal(t, soldPayload{
		ID:       e.ID(),
		Source:   "Seller",
		Currency: "diamond",
		Earned:   6,
		Sold:     map[string]int{"Revive": 2, "Iron_ball": 1},
	}, msg.Payload)
}
