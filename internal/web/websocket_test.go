package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readUpdate(t *testing.T, conn *websocket.Conn) GameUpdate {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var update GameUpdate
	require.NoError(t, json.Unmarshal(data, &update))
	return update
}

func TestWebSocketReceivesMoves(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	created := env.createGame(t, nil)
	conn := dial(t, server, "gameId="+created.Game.ID)
	require.Eventually(t, func() bool {
		return env.hub.ClientCount(created.Game.ID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	w := env.do(t, "POST", "/api/games/"+created.Game.ID+"/moves", created.Tokens.White, MakeMoveRequest{From: "e2", To: "e4"})
	require.Equal(t, http.StatusOK, w.Code)

	update := readUpdate(t, conn)
	assert.Equal(t, created.Game.ID, update.GameID)
	assert.Equal(t, "move", update.Type)
	data, ok := update.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "e2e4", data["notation"])
}

func TestWebSocketPingPong(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	created := env.createGame(t, nil)
	conn := dial(t, server, "gameId="+created.Game.ID+"&token="+created.Tokens.Black)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	update := readUpdate(t, conn)
	assert.Equal(t, "pong", update.Type)
}

func TestWebSocketRejectsUnknownGame(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/ws?gameId=missing", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest("GET", "/ws", nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHubDropsClientsOnUnregister(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	created := env.createGame(t, nil)
	conn := dial(t, server, "gameId="+created.Game.ID)
	require.Eventually(t, func() bool {
		return env.hub.ClientCount(created.Game.ID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool {
		return env.hub.ClientCount(created.Game.ID) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHubShutdownWithPingingClients(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	created := env.createGame(t, nil)
	conns := make([]*websocket.Conn, 4)
	for i := range conns {
		conns[i] = dial(t, server, "gameId="+created.Game.ID)
	}
	require.Eventually(t, func() bool {
		return env.hub.ClientCount(created.Game.ID) == len(conns)
	}, 2*time.Second, 10*time.Millisecond)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			for _, conn := range conns {
				conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`))
			}
		}
	}()

	time.Sleep(20 * time.Millisecond)
	env.cancel()
	<-env.hub.done
	time.Sleep(50 * time.Millisecond)
	close(stop)
	<-done

	assert.Equal(t, 0, env.hub.ClientCount(created.Game.ID))
	for _, conn := range conns {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				break
			}
		}
	}
}
