package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/cookey-typer/internal/config"
	"github.com/everforgeworks/cookey-typer/internal/console"
	"github.com/everforgeworks/cookey-typer/internal/game"
)

type nilSource struct{}

func (nilSource) Latest() *game.Snapshot { return nil }

func newTestServer(t *testing.T) (*game.Engine, *console.Queue, *httptest.Server, *Hub) {
	t.Helper()
	cat, err := config.Default()
	require.NoError(t, err)
	e, err := game.NewEngine(cat, game.Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub(nil)
	go hub.Run(ctx)

	q := console.NewQueue()
	srv := httptest.NewServer(NewServer(e, q, hub, http.NotFoundHandler(), nil).Routes())
	t.Cleanup(srv.Close)
	return e, q, srv, hub
}

func TestGetState(t *testing.T) {
	e, _, srv, _ := newTestServer(t)
	require.True(t, e.CreditCookies(42, game.SourceTyping))
	e.Step()

	resp, err := http.Get(srv.URL + "/api/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var snap map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, float64(42), snap["balance"])
	assert.Equal(t, float64(1), snap["tick"])
}

func TestGetFacilitiesHidesHidden(t *testing.T) {
	_, _, srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/facilities")
	require.NoError(t, err)
	defer resp.Body.Close()

	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 2)
	assert.Equal(t, "keyboard", list[0]["id"])
	assert.Equal(t, "covered", list[0]["visual"])
	assert.Equal(t, float64(15), list[0]["next_cost"])
}

func TestGetUpgrades(t *testing.T) {
	e, _, srv, _ := newTestServer(t)
	require.True(t, e.CreditCookies(200, game.SourceTyping))
	_, err := e.PurchaseFacility("keyboard", 1)
	require.NoError(t, err)
	e.Step()

	resp, err := http.Get(srv.URL + "/api/upgrades")
	require.NoError(t, err)
	defer resp.Body.Close()

	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	states := make(map[string]any)
	for _, u := range list {
		states[u["id"].(string)] = u["state"]
	}
	assert.Equal(t, "available", states["reinforced_index_finger"])
}

func TestPostCommandQueuesLine(t *testing.T) {
	_, q, srv, _ := newTestServer(t)

	body, _ := json.Marshal(CommandRequest{Line: "f buy keyboard"})
	resp, err := http.Post(srv.URL+"/api/command", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var out CommandResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 1, out.Queued)

	line, ok := q.TryPop()
	require.True(t, ok)
	assert.Equal(t, "f buy keyboard", line)
}

func TestPostCommandRejects(t *testing.T) {
	_, q, srv, _ := newTestServer(t)

	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"bad json", http.MethodPost, "{", http.StatusBadRequest},
		{"multi line", http.MethodPost, `{"line":"a\nb"}`, http.StatusBadRequest},
		{"too long", http.MethodPost, `{"line":"` + strings.Repeat("x", maxLineBytes+1) + `"}`, http.StatusBadRequest},
		{"preflight", http.MethodOptions, "", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, srv.URL+"/api/command", strings.NewReader(tc.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
	assert.Equal(t, 0, q.Len())

	for i := 0; i < maxBacklog; i++ {
		q.Push("x")
	}
	resp, err := http.Post(srv.URL+"/api/command", "application/json", strings.NewReader(`{"line":"cc"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestNotReady(t *testing.T) {
	srv := httptest.NewServer(NewServer(nilSource{}, console.NewQueue(), nil, nil, nil).Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/state")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "no hub, no route")
}

func TestPulseReachesWebsocket(t *testing.T) {
	e, _, srv, hub := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.True(t, e.CreditCookies(15, game.SourceTyping))
	_, err = e.PurchaseFacility("keyboard", 1)
	require.NoError(t, err)

	pulse := NewPulse(hub, 2)
	pulse.ObserveTick(e.Step(), 0) // tick 1: skipped
	pulse.ObserveTick(e.Step(), 0) // tick 2: published

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Type    string       `json:"type"`
		Payload PulseSummary `json:"payload"`
		Sender  string       `json:"sender"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "tick_pulse", msg.Type)
	assert.Equal(t, "engine", msg.Sender)
	assert.Equal(t, uint64(2), msg.Payload.Tick)
	assert.Equal(t, int64(1), msg.Payload.Owned["keyboard"])
}
