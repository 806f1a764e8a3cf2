package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/justinabrahms/squarechess/internal/auth"
	"github.com/justinabrahms/squarechess/internal/chess"
	"github.com/justinabrahms/squarechess/internal/config"
	"github.com/justinabrahms/squarechess/internal/record"
	"github.com/justinabrahms/squarechess/internal/session"
)

// maxRecordSize bounds imported game records.
const maxRecordSize = 1 << 20

type Service struct {
	games  *session.Manager
	seats  *auth.Issuer
	hub    *Hub
	config *config.Config
}

func NewService(games *session.Manager, seats *auth.Issuer, hub *Hub, config *config.Config) *Service {
	return &Service{
		games:  games,
		seats:  seats,
		hub:    hub,
		config: config,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrWrongSeat), errors.Is(err, session.ErrNotYourTurn):
		return http.StatusForbidden
	case errors.Is(err, session.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, chess.ErrIllegalMove),
		errors.Is(err, chess.ErrInvalidSquare),
		errors.Is(err, chess.ErrInvalidFEN),
		errors.Is(err, record.ErrInvalidRecord):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return token
	}
	return ""
}

// seatFor returns the color the request's seat token plays in gameID. With
// no issuer configured every request may play either side and ok is false.
func (s *Service) seatFor(r *http.Request, gameID string) (chess.Color, bool, error) {
	if s.seats == nil {
		return chess.White, false, nil
	}
	claims, err := s.seats.Authorize(bearerToken(r), gameID, nil)
	if err != nil {
		return chess.White, false, err
	}
	c, err := chess.ParseColor(claims.Color)
	if err != nil {
		return chess.White, false, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}
	return c, true, nil
}

// Tokens are the seat tokens handed out when a game is created.
type Tokens struct {
	White string `json:"white"`
	Black string `json:"black"`
}

type CreatedGame struct {
	Game   session.View `json:"game"`
	Tokens *Tokens      `json:"tokens,omitempty"`
}

func (s *Service) issueTokens(gameID string) (*Tokens, error) {
	if s.seats == nil {
		return nil, nil
	}
	white, err := s.seats.Issue(gameID, chess.White)
	if err != nil {
		return nil, err
	}
	black, err := s.seats.Issue(gameID, chess.Black)
	if err != nil {
		return nil, err
	}
	return &Tokens{White: white, Black: black}, nil
}

func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status": "ok",
		"games":  len(s.games.List()),
	}
	if s.config != nil {
		response["timeControl"] = s.config.Game.TimeControl
		response["verifyMoves"] = s.config.Development.VerifyMoves
	}
	writeJSON(w, http.StatusOK, response)
}

type CreateGameRequest struct {
	FEN         string               `json:"fen,omitempty"`
	TimeControl *session.TimeControl `json:"timeControl,omitempty"`
}

func (s *Service) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	game, err := s.games.Create(req.FEN, req.TimeControl)
	if err != nil {
		log.Error().Err(err).Str("fen", req.FEN).Msg("Failed to create game")
		writeError(w, err)
		return
	}

	tokens, err := s.issueTokens(game.ID)
	if err != nil {
		log.Error().Err(err).Str("gameID", game.ID).Msg("Failed to issue seat tokens")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreatedGame{Game: game.View(), Tokens: tokens})
}

func (s *Service) ListGamesHandler(w http.ResponseWriter, r *http.Request) {
	games := s.games.List()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"total": len(games),
	})
}

func (s *Service) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	game, err := s.games.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game.View())
}

func (s *Service) DeleteGameHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	if _, _, err := s.seatFor(r, gameID); err != nil {
		writeError(w, err)
		return
	}
	if err := s.games.Delete(gameID); err != nil {
		writeError(w, err)
		return
	}
	s.hub.BroadcastGameUpdate(GameUpdate{GameID: gameID, Type: "game_end", Data: map[string]string{"reason": "deleted"}})
	w.WriteHeader(http.StatusNoContent)
}

// MoveJSON is one legal move as listed by ValidMovesHandler.
type MoveJSON struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Notation  string `json:"notation"`
	UCI       string `json:"uci"`
	Capture   bool   `json:"capture,omitempty"`
	Promotion bool   `json:"promotion,omitempty"`
}

func (s *Service) ValidMovesHandler(w http.ResponseWriter, r *http.Request) {
	game, err := s.games.Get(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	moves := game.ValidMoves()
	out := make([]MoveJSON, len(moves))
	for i, m := range moves {
		out[i] = MoveJSON{
			From:      m.From.String(),
			To:        m.To.String(),
			Notation:  m.Notation(),
			UCI:       m.UCI(),
			Capture:   m.IsCapture(),
			Promotion: m.IsPromotion(),
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"gameId": game.ID,
		"turn":   game.Turn().String(),
		"moves":  out,
	})
}

type MakeMoveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

func (s *Service) MakeMoveHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req MakeMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	game, err := s.games.Get(gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	seat, seated, err := s.seatFor(r, gameID)
	if err != nil {
		log.Warn().Err(err).Str("gameID", gameID).Msg("Rejected move token")
		writeError(w, err)
		return
	}

	promotion := chess.ParsePromotion(strings.ToLower(req.Promotion))
	var result *chess.MoveResult
	if seated {
		result, err = game.MoveAs(seat, req.From, req.To, promotion)
	} else {
		result, err = game.Move(req.From, req.To, promotion)
	}
	if err != nil {
		log.Info().Err(err).Str("gameID", gameID).Str("from", req.From).Str("to", req.To).Msg("Move rejected")
		writeError(w, err)
		return
	}

	s.announce(gameID, "move", result)
	writeJSON(w, http.StatusOK, result)
}

// announce broadcasts a played move, and the end of the game when it was
// the last one.
func (s *Service) announce(gameID, kind string, result *chess.MoveResult) {
	s.hub.BroadcastGameUpdate(GameUpdate{GameID: gameID, Type: kind, Data: result})
	if result.GameOver {
		s.hub.BroadcastGameUpdate(GameUpdate{
			GameID: gameID,
			Type:   "game_end",
			Data: map[string]string{
				"status": string(result.Status),
				"method": string(result.Method),
			},
		})
	}
}

func (s *Service) UndoHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	game, err := s.games.Get(gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, _, err := s.seatFor(r, gameID); err != nil {
		writeError(w, err)
		return
	}

	undone, ok := game.Undo()
	if !ok {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no moves to undo"})
		return
	}

	view := game.View()
	s.hub.BroadcastGameUpdate(GameUpdate{GameID: gameID, Type: "undo", Data: view})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"undone": undone.Notation(),
		"game":   view,
	})
}

// ClickRequest names a square either by coordinates or algebraically.
type ClickRequest struct {
	Row    *int   `json:"row,omitempty"`
	Col    *int   `json:"col,omitempty"`
	Square string `json:"square,omitempty"`
}

func (req ClickRequest) square() (chess.Square, error) {
	if req.Square != "" {
		return chess.ParseSquare(req.Square)
	}
	if req.Row == nil || req.Col == nil {
		return chess.Square{}, fmt.Errorf("%w: row and col are required", chess.ErrInvalidSquare)
	}
	return chess.Sq(*req.Row, *req.Col), nil
}

func (s *Service) ClickHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req ClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	sq, err := req.square()
	if err != nil {
		writeError(w, err)
		return
	}

	game, err := s.games.Get(gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	seat, seated, err := s.seatFor(r, gameID)
	if err != nil {
		writeError(w, err)
		return
	}

	var result session.ClickResult
	if seated {
		result, err = game.ClickAs(seat, sq)
	} else {
		result, err = game.Click(sq)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	if result.Move != nil {
		s.announce(gameID, "move", result.Move)
	} else {
		s.hub.BroadcastGameUpdate(GameUpdate{GameID: gameID, Type: "selection", Data: result})
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Service) GetTimeRemainingHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	game, err := s.games.Get(gameID)
	if err != nil {
		writeError(w, err)
		return
	}

	response := map[string]interface{}{
		"gameId": gameID,
		"turn":   game.Turn().String(),
	}

	remaining, err := game.TimeRemaining()
	switch {
	case errors.Is(err, session.ErrNoTimeControl):
		response["timeControl"] = "none"
	case err != nil:
		log.Error().Err(err).Str("gameID", gameID).Msg("Failed to get time remaining")
		writeError(w, err)
		return
	default:
		violation := game.TimeViolation()
		response["remainingSeconds"] = int(remaining.Seconds())
		response["remainingFormatted"] = session.FormatTimeRemaining(remaining)
		response["hasViolation"] = violation != nil
		response["violation"] = violation
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Service) GetRecordHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	game, err := s.games.Get(gameID)
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	rec := record.New(game.ID, game.StartFEN(), game.MoveLog())
	if err := record.Encode(&buf, rec); err != nil {
		log.Error().Err(err).Str("gameID", gameID).Msg("Failed to encode game record")
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/cbor")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", game.ID+".cbor"))
	_, _ = w.Write(buf.Bytes())
}

func (s *Service) ImportGameHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := record.Decode(io.LimitReader(r.Body, maxRecordSize))
	if err != nil {
		writeError(w, err)
		return
	}

	state, err := rec.Replay()
	if err != nil {
		log.Info().Err(err).Str("recordGameID", rec.GameID).Msg("Rejected game record")
		writeError(w, fmt.Errorf("%w: %v", record.ErrInvalidRecord, err))
		return
	}

	startFEN := rec.StartFEN
	if startFEN == "" {
		startFEN = chess.StartFEN
	}
	game := s.games.Adopt(state, startFEN, nil)

	tokens, err := s.issueTokens(game.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	log.Info().Str("gameID", game.ID).Str("recordGameID", rec.GameID).Int("moves", len(rec.Moves)).Msg("Game imported")
	writeJSON(w, http.StatusCreated, CreatedGame{Game: game.View(), Tokens: tokens})
}
