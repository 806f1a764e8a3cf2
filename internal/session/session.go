package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/justinabrahms/squarechess/internal/chess"
	"github.com/rs/zerolog"
)

var (
	ErrNotFound = errors.New("game not found")
	ErrGameOver = errors.New("game is over")

	ErrNotYourTurn = errors.New("not your turn")
)

// Verifier double-checks the legal moves of a position.
type Verifier interface {
	Verify(state *chess.GameState) error
}

// Session is one game being played. All methods are safe for concurrent
// use; the rules engine underneath is not, so every call takes the lock.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	engine   *chess.Engine
	startFEN string
	selected *chess.Square
	clock    *Clock
	verifier Verifier
	now      func() time.Time
	logger   zerolog.Logger
}

// View is a read-only snapshot for presentation.
type View struct {
	ID        string              `json:"id"`
	Board     [][]string          `json:"board"`
	Turn      string              `json:"turn"`
	FEN       string              `json:"fen"`
	Status    chess.GameStatus    `json:"status"`
	Method    chess.Method        `json:"method,omitempty"`
	Check     bool                `json:"check"`
	Moves     []string            `json:"moves"`
	Selected  string              `json:"selected,omitempty"`
	Material  chess.MaterialCount `json:"materialCount"`
	CreatedAt time.Time           `json:"createdAt"`
}

// ClickResult is what a single square click did.
type ClickResult struct {
	Selected string            `json:"selected,omitempty"`
	Move     *chess.MoveResult `json:"move,omitempty"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() View {
	state := s.engine.State()
	status, method := s.status()
	log := state.MoveLog()
	moves := make([]string, len(log))
	for i, m := range log {
		moves[i] = m.Notation()
	}
	v := View{
		ID:        s.ID,
		Board:     state.Rows(),
		Turn:      state.Turn().String(),
		FEN:       state.FEN(),
		Status:    status,
		Method:    method,
		Check:     state.InCheck(),
		Moves:     moves,
		Material:  s.engine.GetMaterialCount(),
		CreatedAt: s.CreatedAt,
	}
	if s.selected != nil {
		v.Selected = s.selected.String()
	}
	return v
}

func (s *Session) ValidMoves() []chess.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ValidMoves()
}

func (s *Session) Turn() chess.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State().Turn()
}

func (s *Session) StartFEN() string {
	return s.startFEN
}

func (s *Session) MoveLog() []chess.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State().MoveLog()
}

// Move plays from-to for the side to move.
func (s *Session) Move(from, to string, promotion chess.Kind) (*chess.MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.move(from, to, promotion)
}

// MoveAs is Move for a player seated as c.
func (s *Session) MoveAs(c chess.Color, from, to string, promotion chess.Kind) (*chess.MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if turn := s.engine.State().Turn(); turn != c {
		return nil, fmt.Errorf("%w: %s to move", ErrNotYourTurn, turn)
	}
	return s.move(from, to, promotion)
}

func (s *Session) move(from, to string, promotion chess.Kind) (*chess.MoveResult, error) {
	if status, _ := s.status(); status != chess.StatusActive {
		return nil, fmt.Errorf("%w: %s", ErrGameOver, status)
	}

	result, err := s.engine.MakeMove(from, to, promotion)
	if err != nil {
		return nil, err
	}
	s.afterMove(result)
	return result, nil
}

// Undo takes back the last move; false when there is nothing to undo.
func (s *Session) Undo() (chess.Move, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.engine.Undo()
	if ok {
		s.selected = nil
		s.clock.RecordMove(s.now())
		s.logger.Info().Str("gameID", s.ID).Str("move", m.Notation()).Msg("Move taken back")
	}
	return m, ok
}

// Click handles one square selection. The first click picks a piece of the
// side to move, clicking it again clears it, and a second click on another
// square plays the move if it is legal. An illegal second click moves the
// selection onto the clicked square when it holds a piece of the side to
// move and clears it otherwise.
func (s *Session) Click(sq chess.Square) (ClickResult, error) {
	if !sq.OnBoard() {
		return ClickResult{}, fmt.Errorf("%w: %v", chess.ErrInvalidSquare, sq)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.click(sq)
}

// ClickAs is Click for a player seated as c.
func (s *Session) ClickAs(c chess.Color, sq chess.Square) (ClickResult, error) {
	if !sq.OnBoard() {
		return ClickResult{}, fmt.Errorf("%w: %v", chess.ErrInvalidSquare, sq)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if turn := s.engine.State().Turn(); turn != c {
		return ClickResult{}, fmt.Errorf("%w: %s to move", ErrNotYourTurn, turn)
	}
	return s.click(sq)
}

func (s *Session) click(sq chess.Square) (ClickResult, error) {
	if status, _ := s.status(); status != chess.StatusActive {
		return ClickResult{}, fmt.Errorf("%w: %s", ErrGameOver, status)
	}

	state := s.engine.State()
	board := state.Board()
	own := board.At(sq).Is(state.Turn())

	switch {
	case s.selected != nil && *s.selected == sq:
		s.selected = nil
		return ClickResult{}, nil
	case s.selected == nil:
		if own {
			s.selected = &sq
			return ClickResult{Selected: sq.String()}, nil
		}
		return ClickResult{}, nil
	}

	from := *s.selected
	move, ok := state.FindMove(from, sq)
	if !ok {
		if own {
			s.selected = &sq
			return ClickResult{Selected: sq.String()}, nil
		}
		s.selected = nil
		return ClickResult{}, nil
	}

	s.selected = nil
	result := s.engine.Apply(move)
	s.afterMove(result)
	return ClickResult{Move: result}, nil
}

// status is the board status, or abandoned once the clock says nobody has
// moved for too long.
func (s *Session) status() (chess.GameStatus, chess.Method) {
	status, method := s.engine.State().Status()
	if status != chess.StatusActive {
		return status, method
	}
	if v := s.clock.CheckTimeViolation(s.engine.State().Turn(), s.now()); v != nil && v.ViolationType == "abandoned" {
		return chess.StatusAbandoned, chess.MethodNone
	}
	return status, method
}

func (s *Session) afterMove(result *chess.MoveResult) {
	s.selected = nil
	s.clock.RecordMove(s.now())

	s.logger.Info().
		Str("gameID", s.ID).
		Str("move", result.Notation).
		Str("fen", result.FEN).
		Bool("check", result.Check).
		Str("status", string(result.Status)).
		Msg("Move executed")

	if s.verifier != nil {
		if err := s.verifier.Verify(s.engine.State()); err != nil {
			s.logger.Warn().Err(err).Str("gameID", s.ID).Str("fen", result.FEN).Msg("Move generation disagrees with reference")
		}
	}
}

// TimeRemaining is the time left for the side to move.
func (s *Session) TimeRemaining() (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Remaining(s.now())
}

// TimeViolation reports whether the side to move is out of time.
func (s *Session) TimeViolation() *TimeViolation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.CheckTimeViolation(s.engine.State().Turn(), s.now())
}
