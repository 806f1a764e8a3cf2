package chess

import "fmt"

// Board is the 8x8 grid, indexed [row][col].
type Board [Size][Size]Piece

var backRank = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// StartingBoard returns the standard initial position.
func StartingBoard() Board {
	var b Board
	for c := 0; c < Size; c++ {
		b[0][c] = NewPiece(Black, backRank[c])
		b[1][c] = NewPiece(Black, Pawn)
		b[6][c] = NewPiece(White, Pawn)
		b[7][c] = NewPiece(White, backRank[c])
	}
	return b
}

func (b *Board) At(s Square) Piece {
	return b[s.Row][s.Col]
}

func (b *Board) Set(s Square, p Piece) {
	b[s.Row][s.Col] = p
}

// Rows returns the board as two-character piece codes, "--" for empty.
func (b *Board) Rows() [][]string {
	rows := make([][]string, Size)
	for r := range b {
		rows[r] = make([]string, Size)
		for c, p := range b[r] {
			rows[r][c] = p.String()
		}
	}
	return rows
}

// BoardFromRows is the inverse of Rows.
func BoardFromRows(rows [][]string) (Board, error) {
	var b Board
	if len(rows) != Size {
		return b, fmt.Errorf("board has %d rows, want %d", len(rows), Size)
	}
	for r, row := range rows {
		if len(row) != Size {
			return b, fmt.Errorf("row %d has %d squares, want %d", r, len(row), Size)
		}
		for c, code := range row {
			p, err := ParsePiece(code)
			if err != nil {
				return b, err
			}
			b[r][c] = p
		}
	}
	return b, nil
}

// King returns the square of c's king.
func (b *Board) King(c Color) (Square, bool) {
	want := NewPiece(c, King)
	for r := range b {
		for col, p := range b[r] {
			if p == want {
				return Square{Row: r, Col: col}, true
			}
		}
	}
	return Square{}, false
}

// Count returns the number of pieces of color c.
func (b *Board) Count(c Color) int {
	n := 0
	for r := range b {
		for _, p := range b[r] {
			if p.Is(c) {
				n++
			}
		}
	}
	return n
}
