package web

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/justinabrahms/squarechess/internal/chess"
)

// GameIndex represents a game available for spectating
type GameIndex struct {
	GameID         string              `json:"gameId"`
	Status         chess.GameStatus    `json:"status"`
	Turn           string              `json:"turn"`
	MoveCount      int                 `json:"moveCount"`
	CreatedAt      time.Time           `json:"createdAt"`
	SpectatorCount int                 `json:"spectatorCount"`
	MaterialCount  chess.MaterialCount `json:"materialCount"`
}

// GetActiveGamesHandler returns the games still in progress
func (s *Service) GetActiveGamesHandler(w http.ResponseWriter, r *http.Request) {
	games := []GameIndex{}
	for _, v := range s.games.List() {
		if v.Status != chess.StatusActive {
			continue
		}
		games = append(games, GameIndex{
			GameID:         v.ID,
			Status:         v.Status,
			Turn:           v.Turn,
			MoveCount:      len(v.Moves),
			CreatedAt:      v.CreatedAt,
			SpectatorCount: s.hub.ClientCount(v.ID),
			MaterialCount:  v.Material,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"total": len(games),
	})
}

// GetSpectatorGameHandler returns game data for spectators
func (s *Service) GetSpectatorGameHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	game, err := s.games.Get(gameID)
	if err != nil {
		writeError(w, err)
		return
	}

	view := game.View()
	// Selections belong to the player making them
	view.Selected = ""

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"game":           view,
		"materialCount":  view.Material,
		"balance":        view.Material.White - view.Material.Black,
		"spectatorCount": s.hub.ClientCount(gameID),
	})
}

// UpdateSpectatorCountHandler broadcasts the current spectator count for a game
func (s *Service) UpdateSpectatorCountHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	if _, err := s.games.Get(gameID); err != nil {
		writeError(w, err)
		return
	}

	spectatorCount := s.hub.ClientCount(gameID)
	s.hub.BroadcastGameUpdate(GameUpdate{
		GameID: gameID,
		Type:   "spectator_count",
		Data: map[string]interface{}{
			"count": spectatorCount,
		},
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"gameId":         gameID,
		"spectatorCount": spectatorCount,
	})
}
