package chess

import "fmt"

// MoveID packs a move's squares into one integer:
// startRow*1000 + startCol*100 + endRow*10 + endCol.
type MoveID int

// MoveKey identifies a move by its squares alone.
type MoveKey struct {
	From Square
	To   Square
}

// Move records one ply. It captures the contents of both squares at
// construction time so that undoing it never has to consult the board.
type Move struct {
	From          Square
	To            Square
	PieceMoved    Piece
	PieceCaptured Piece
	// Promotion is the kind a pawn becomes on the far rank, NoKind otherwise.
	Promotion Kind
}

// NewMove builds a move from the current contents of b. Off-board squares
// are a caller bug and panic.
func NewMove(from, to Square, b *Board) Move {
	if !from.OnBoard() || !to.OnBoard() {
		panic(fmt.Sprintf("chess: move %v -> %v leaves the board", from, to))
	}
	return Move{
		From:          from,
		To:            to,
		PieceMoved:    b.At(from),
		PieceCaptured: b.At(to),
	}
}

// ID is the packed comparison key. It ignores the pieces involved, so it is
// only meaningful between moves generated from the same position.
func (m Move) ID() MoveID {
	return MoveID(m.From.Row*1000 + m.From.Col*100 + m.To.Row*10 + m.To.Col)
}

func (m Move) Key() MoveKey {
	return MoveKey{From: m.From, To: m.To}
}

// Equal compares moves by ID only.
func (m Move) Equal(o Move) bool {
	return m.ID() == o.ID()
}

func (m Move) IsCapture() bool {
	return m.PieceCaptured != Empty
}

func (m Move) IsPromotion() bool {
	return m.Promotion != NoKind
}

// WithPromotion returns a copy promoting to k. Non-promotions are returned
// unchanged, as are kinds a pawn cannot become.
func (m Move) WithPromotion(k Kind) Move {
	if !m.IsPromotion() {
		return m
	}
	switch k {
	case Knight, Bishop, Rook, Queen:
		m.Promotion = k
	}
	return m
}

// Placed is the piece that ends up on the destination square.
func (m Move) Placed() Piece {
	if m.IsPromotion() {
		return NewPiece(m.PieceMoved.Color(), m.Promotion)
	}
	return m.PieceMoved
}

// Notation renders the square pair, e.g. "e2e4".
func (m Move) Notation() string {
	return m.From.String() + m.To.String()
}

// UCI is Notation with a lowercase promotion suffix, e.g. "e7e8q".
func (m Move) UCI() string {
	if !m.IsPromotion() {
		return m.Notation()
	}
	return m.Notation() + string(m.Promotion.Letter()|0x20)
}

func (m Move) String() string {
	return m.Notation()
}
