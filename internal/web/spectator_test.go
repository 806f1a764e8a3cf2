package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetActiveGamesHandler(t *testing.T) {
	env := newTestEnv(t)
	active := env.createGame(t, nil)
	finished := env.createGame(t, CreateGameRequest{FEN: "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"})

	w := env.do(t, "GET", "/api/spectator/games", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Games []GameIndex `json:"games"`
		Total int         `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 1, response.Total)
	assert.Equal(t, active.Game.ID, response.Games[0].GameID)
	assert.NotEqual(t, finished.Game.ID, response.Games[0].GameID)
	assert.Equal(t, 39, response.Games[0].MaterialCount.White)
}

func TestGetSpectatorGameHandler(t *testing.T) {
	env := newTestEnv(t)
	created := env.createGame(t, nil)

	w := env.do(t, "POST", "/api/games/"+created.Game.ID+"/clicks", created.Tokens.White, ClickRequest{Square: "e2"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", "/api/spectator/games/"+created.Game.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	game, ok := response["game"].(map[string]interface{})
	require.True(t, ok)
	assert.NotContains(t, game, "selected")
	assert.Equal(t, float64(0), response["balance"])

	w = env.do(t, "GET", "/api/spectator/games/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateSpectatorCountHandler(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	defer server.Close()

	created := env.createGame(t, nil)
	dial(t, server, "gameId="+created.Game.ID)
	require.Eventually(t, func() bool {
		return env.hub.ClientCount(created.Game.ID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	w := env.do(t, "POST", "/api/spectator/games/"+created.Game.ID+"/count", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["spectatorCount"])
}
