package chess

import "fmt"

type direction struct{ dr, dc int }

var (
	// up, left, down, right
	rookDirections = []direction{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}

	bishopDirections = []direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

	queenDirections = append(append([]direction{}, rookDirections...), bishopDirections...)

	knightOffsets = []direction{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}

	kingOffsets = queenDirections
)

// PieceMoves appends the pseudo-legal moves of the piece on from to moves.
// An empty origin appends nothing. The board is never modified.
func PieceMoves(b *Board, from Square, moves []Move) []Move {
	p := b.At(from)
	switch p.Kind() {
	case NoKind:
		return moves
	case Pawn:
		return pawnMoves(b, from, moves)
	case Knight:
		return stepMoves(b, from, knightOffsets, moves)
	case Bishop:
		return slideMoves(b, from, bishopDirections, moves)
	case Rook:
		return slideMoves(b, from, rookDirections, moves)
	case Queen:
		return slideMoves(b, from, queenDirections, moves)
	case King:
		// Castling is not generated.
		return stepMoves(b, from, kingOffsets, moves)
	default:
		panic(fmt.Sprintf("chess: no move generator for %v", p.Kind()))
	}
}

// PseudoLegalMoves appends every pseudo-legal move for side c, scanning the
// board row by row.
func PseudoLegalMoves(b *Board, c Color, moves []Move) []Move {
	for r := 0; r < Size; r++ {
		for col := 0; col < Size; col++ {
			if b[r][col].Is(c) {
				moves = PieceMoves(b, Square{Row: r, Col: col}, moves)
			}
		}
	}
	return moves
}

func pawnMoves(b *Board, from Square, moves []Move) []Move {
	color := b.At(from).Color()
	dir, startRow, lastRow := -1, 6, 0
	if color == Black {
		dir, startRow, lastRow = 1, 1, 7
	}

	add := func(to Square) {
		m := NewMove(from, to, b)
		if to.Row == lastRow {
			m.Promotion = Queen
		}
		moves = append(moves, m)
	}

	one := from.offset(dir, 0)
	if !one.OnBoard() {
		return moves
	}
	if b.At(one) == Empty {
		add(one)
		two := from.offset(2*dir, 0)
		if from.Row == startRow && b.At(two) == Empty {
			add(two)
		}
	}
	for _, dc := range [2]int{-1, 1} {
		to := from.offset(dir, dc)
		if to.OnBoard() && b.At(to).Is(color.Other()) {
			add(to)
		}
	}
	return moves
}

// stepMoves handles the single-step pieces: knight and king.
func stepMoves(b *Board, from Square, offsets []direction, moves []Move) []Move {
	color := b.At(from).Color()
	for _, d := range offsets {
		to := from.offset(d.dr, d.dc)
		if to.OnBoard() && !b.At(to).Is(color) {
			moves = append(moves, NewMove(from, to, b))
		}
	}
	return moves
}

// slideMoves walks each ray until the edge, stopping before a friendly piece
// and on (including) an enemy one.
func slideMoves(b *Board, from Square, dirs []direction, moves []Move) []Move {
	color := b.At(from).Color()
	for _, d := range dirs {
		for i := 1; i < Size; i++ {
			to := from.offset(d.dr*i, d.dc*i)
			if !to.OnBoard() {
				break
			}
			target := b.At(to)
			if target == Empty {
				moves = append(moves, NewMove(from, to, b))
				continue
			}
			if target.Color() != color {
				moves = append(moves, NewMove(from, to, b))
			}
			break
		}
	}
	return moves
}

// IsSquareAttacked reports whether any piece of color by has a pseudo-legal
// move onto sq. It never applies check filtering to the attacker. Pawn
// pushes count too, so the answer is only a true attack test for occupied
// squares such as the king's.
func IsSquareAttacked(b *Board, sq Square, by Color) bool {
	for _, m := range PseudoLegalMoves(b, by, nil) {
		if m.To == sq {
			return true
		}
	}
	return false
}
