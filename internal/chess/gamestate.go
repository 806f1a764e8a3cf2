package chess

// GameState owns the board, the side to move and the move log. It is not
// safe for concurrent use.
type GameState struct {
	board       Board
	whiteToMove bool
	moveLog     []Move

	// fullmove number of the position the game started from
	startFullmove int
}

// NewGameState starts a game from the standard initial position.
func NewGameState() *GameState {
	return &GameState{
		board:         StartingBoard(),
		whiteToMove:   true,
		startFullmove: 1,
	}
}

// NewGameStateFromBoard starts a game from an arbitrary position.
func NewGameStateFromBoard(b Board, toMove Color) *GameState {
	return &GameState{
		board:         b,
		whiteToMove:   toMove == White,
		startFullmove: 1,
	}
}

// Board returns a copy of the grid.
func (gs *GameState) Board() Board {
	return gs.board
}

// Rows returns the grid as two-character piece codes.
func (gs *GameState) Rows() [][]string {
	return gs.board.Rows()
}

func (gs *GameState) WhiteToMove() bool {
	return gs.whiteToMove
}

// Turn is the color to move.
func (gs *GameState) Turn() Color {
	if gs.whiteToMove {
		return White
	}
	return Black
}

// MoveLog returns a copy of the moves played, oldest first.
func (gs *GameState) MoveLog() []Move {
	out := make([]Move, len(gs.moveLog))
	copy(out, gs.moveLog)
	return out
}

// LastMove returns the most recent move, if any.
func (gs *GameState) LastMove() (Move, bool) {
	if len(gs.moveLog) == 0 {
		return Move{}, false
	}
	return gs.moveLog[len(gs.moveLog)-1], true
}

// MakeMove applies m without checking legality; m must come from
// ValidMoves for the current position.
func (gs *GameState) MakeMove(m Move) {
	gs.board.Set(m.From, Empty)
	gs.board.Set(m.To, m.Placed())
	gs.moveLog = append(gs.moveLog, m)
	gs.whiteToMove = !gs.whiteToMove
}

// UndoMove reverts the last move. With an empty log it does nothing and
// reports false.
func (gs *GameState) UndoMove() (Move, bool) {
	if len(gs.moveLog) == 0 {
		return Move{}, false
	}
	m := gs.moveLog[len(gs.moveLog)-1]
	gs.moveLog = gs.moveLog[:len(gs.moveLog)-1]
	gs.board.Set(m.From, m.PieceMoved)
	gs.board.Set(m.To, m.PieceCaptured)
	gs.whiteToMove = !gs.whiteToMove
	return m, true
}

// AllPossibleMoves returns the pseudo-legal moves of the side to move in
// board scan order.
func (gs *GameState) AllPossibleMoves() []Move {
	return PseudoLegalMoves(&gs.board, gs.Turn(), make([]Move, 0, 48))
}

// ValidMoves returns the moves that do not leave the mover's king attacked.
func (gs *GameState) ValidMoves() []Move {
	candidates := gs.AllPossibleMoves()
	valid := candidates[:0]
	for _, m := range candidates {
		if gs.leavesKingSafe(m) {
			valid = append(valid, m)
		}
	}
	return valid
}

func (gs *GameState) leavesKingSafe(m Move) bool {
	mover := gs.Turn()
	gs.MakeMove(m)
	defer gs.UndoMove()
	king, ok := gs.board.King(mover)
	if !ok {
		return true
	}
	return !IsSquareAttacked(&gs.board, king, mover.Other())
}

// InCheck reports whether the side to move is attacked.
func (gs *GameState) InCheck() bool {
	c := gs.Turn()
	king, ok := gs.board.King(c)
	if !ok {
		return false
	}
	return IsSquareAttacked(&gs.board, king, c.Other())
}

// FindMove looks up the legal move between two squares.
func (gs *GameState) FindMove(from, to Square) (Move, bool) {
	key := MoveKey{From: from, To: to}
	for _, m := range gs.ValidMoves() {
		if m.Key() == key {
			return m, true
		}
	}
	return Move{}, false
}

// Fullmove is the FEN fullmove counter for the current position.
func (gs *GameState) Fullmove() int {
	n := gs.startFullmove
	startBlack := gs.whiteToMove == (len(gs.moveLog)%2 == 1)
	plies := len(gs.moveLog)
	if startBlack {
		plies++
	}
	return n + plies/2
}
