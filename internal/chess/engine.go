package chess

import (
	"fmt"
)

// Engine drives a GameState from square-name input, refusing anything that
// is not a legal move in the current position.
type Engine struct {
	state *GameState
}

func NewEngine() *Engine {
	return &Engine{
		state: NewGameState(),
	}
}

func NewEngineFromFEN(fen string) (*Engine, error) {
	state, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}

	return &Engine{
		state: state,
	}, nil
}

// NewEngineFromState wraps an existing game, e.g. one replayed from a record.
func NewEngineFromState(state *GameState) *Engine {
	return &Engine{
		state: state,
	}
}

// State exposes the underlying game for read access.
func (e *Engine) State() *GameState {
	return e.state
}

func (e *Engine) MakeMove(from, to string, promotion Kind) (*MoveResult, error) {
	fromSquare, err := ParseSquare(from)
	if err != nil {
		return nil, err
	}
	toSquare, err := ParseSquare(to)
	if err != nil {
		return nil, err
	}

	move, ok := e.state.FindMove(fromSquare, toSquare)
	if !ok {
		return nil, fmt.Errorf("%w: %s to %s", ErrIllegalMove, from, to)
	}
	if promotion != NoKind {
		move = move.WithPromotion(promotion)
	}

	return e.Apply(move), nil
}

// Apply plays a move already taken from ValidMoves and describes the
// resulting position.
func (e *Engine) Apply(move Move) *MoveResult {
	e.state.MakeMove(move)

	status, method := e.state.Status()
	result := &MoveResult{
		From:      move.From.String(),
		To:        move.To.String(),
		Notation:  move.Notation(),
		Piece:     move.PieceMoved.String(),
		FEN:       e.state.FEN(),
		Check:     e.state.InCheck(),
		Checkmate: method == MethodCheckmate,
		Draw:      status == StatusDraw,
		GameOver:  status != StatusActive,
		Status:    status,
		Method:    method,
	}
	if move.IsCapture() {
		result.Captured = move.PieceCaptured.String()
	}
	if move.IsPromotion() {
		result.Promotion = move.Promotion.String()
	}

	return result
}

// Undo takes back the last move. It reports false when nothing was played.
func (e *Engine) Undo() (Move, bool) {
	return e.state.UndoMove()
}

func (e *Engine) ValidMoves() []Move {
	return e.state.ValidMoves()
}

func (e *Engine) GetFEN() string {
	return e.state.FEN()
}

func (e *Engine) GetStatus() GameStatus {
	status, _ := e.state.Status()
	return status
}

func (e *Engine) GetActiveColor() string {
	return e.state.Turn().String()
}

func (e *Engine) ValidateFEN(fen string) error {
	_, err := ParseFEN(fen)
	return err
}

func (e *Engine) GetMaterialCount() MaterialCount {
	return e.state.board.Material()
}

func (e *Engine) GetMaterialBalance() int {
	return e.GetMaterialCount().Balance()
}

func (e *Engine) GetPieceValues() map[string]int {
	values := make(map[string]int, len(StandardPieceValues))
	for k, v := range StandardPieceValues {
		values[k.String()] = v
	}
	return values
}

func ParsePromotion(p string) Kind {
	switch p {
	case "q", "queen":
		return Queen
	case "r", "rook":
		return Rook
	case "b", "bishop":
		return Bishop
	case "n", "knight":
		return Knight
	default:
		return NoKind
	}
}
