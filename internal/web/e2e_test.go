//go:build integration
// +build integration

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinabrahms/squarechess/internal/auth"
	"github.com/justinabrahms/squarechess/internal/chess"
	"github.com/justinabrahms/squarechess/internal/config"
	"github.com/justinabrahms/squarechess/internal/oracle"
	"github.com/justinabrahms/squarechess/internal/session"
)

type recordingVerifier struct {
	t *testing.T
}

func (v recordingVerifier) Verify(state *chess.GameState) error {
	err := oracle.Verifier{}.Verify(state)
	assert.NoError(v.t, err)
	return err
}

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	games := session.NewManager(zerolog.Nop(), session.Options{Verifier: recordingVerifier{t: t}})
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	service := NewService(games, auth.NewIssuer([]byte("e2e-secret"), time.Hour), hub, config.Defaults())
	server := httptest.NewServer(NewRouter(service))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url, token string, body interface{}, out interface{}) int {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest("POST", url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// TestFoolsMate plays e4 e5 Qh5 Ke7 Qxe5# over HTTP.
func TestFoolsMate(t *testing.T) {
	server := startServer(t)

	var game CreatedGame
	require.Equal(t, http.StatusCreated, postJSON(t, server.URL+"/api/games", "", map[string]string{}, &game))
	t.Logf("Created game: %s", game.Game.ID)
	assert.Equal(t, chess.StatusActive, game.Game.Status)

	movesURL := server.URL + "/api/games/" + game.Game.ID + "/moves"
	plies := []struct {
		token    string
		from, to string
	}{
		{game.Tokens.White, "e2", "e4"},
		{game.Tokens.Black, "e7", "e5"},
		{game.Tokens.White, "d1", "h5"},
		{game.Tokens.Black, "e8", "e7"},
		{game.Tokens.White, "h5", "e5"},
	}

	var result chess.MoveResult
	for i, p := range plies {
		status := postJSON(t, movesURL, p.token, MakeMoveRequest{From: p.from, To: p.to}, &result)
		require.Equal(t, http.StatusOK, status, "move %d %s%s", i+1, p.from, p.to)
		t.Logf("After %s: %s", result.Notation, result.FEN)
	}

	assert.True(t, result.Check, "Final move should be check")
	assert.True(t, result.Checkmate, "Final move should be checkmate")
	assert.Equal(t, "bp", result.Captured)
	assert.Equal(t, chess.StatusWhiteWon, result.Status)

	status := postJSON(t, movesURL, game.Tokens.Black, MakeMoveRequest{From: "e7", To: "e6"}, nil)
	assert.Equal(t, http.StatusConflict, status)
}

// TestScholarsMateVariant plays g4 e5 f4 Qh4# by clicking squares.
func TestScholarsMateVariant(t *testing.T) {
	server := startServer(t)

	var game CreatedGame
	require.Equal(t, http.StatusCreated, postJSON(t, server.URL+"/api/games", "", map[string]string{}, &game))
	clicksURL := server.URL + "/api/games/" + game.Game.ID + "/clicks"

	clicks := []struct {
		token  string
		square string
	}{
		{game.Tokens.White, "g2"}, {game.Tokens.White, "g4"},
		{game.Tokens.Black, "e7"}, {game.Tokens.Black, "e5"},
		{game.Tokens.White, "f2"}, {game.Tokens.White, "f4"},
		{game.Tokens.Black, "d8"}, {game.Tokens.Black, "h4"},
	}

	var last session.ClickResult
	for _, c := range clicks {
		last = session.ClickResult{}
		status := postJSON(t, clicksURL, c.token, ClickRequest{Square: c.square}, &last)
		require.Equal(t, http.StatusOK, status, "click %s", c.square)
	}

	require.NotNil(t, last.Move)
	assert.True(t, last.Move.Checkmate)
	assert.Equal(t, chess.StatusBlackWon, last.Move.Status)
}
