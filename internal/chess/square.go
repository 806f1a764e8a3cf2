package chess

import "fmt"

// Size is the board dimension.
const Size = 8

// Square is a (row, column) pair. Row 0 is rank 8 (black's back rank),
// row 7 is rank 1.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Sq is shorthand for Square{Row: row, Col: col}.
func Sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

func (s Square) OnBoard() bool {
	return s.Row >= 0 && s.Row < Size && s.Col >= 0 && s.Col < Size
}

func (s Square) offset(dr, dc int) Square {
	return Square{Row: s.Row + dr, Col: s.Col + dc}
}

var (
	colsToFiles = [Size]byte{'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h'}
	rowsToRanks = [Size]byte{'8', '7', '6', '5', '4', '3', '2', '1'}
)

// String renders algebraic square notation, e.g. Square{6, 4} is "e2".
func (s Square) String() string {
	if !s.OnBoard() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return string([]byte{colsToFiles[s.Col], rowsToRanks[s.Row]})
}

// ParseSquare reads algebraic notation such as "e2".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	file, rank := s[0], s[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return Square{Row: int('8' - rank), Col: int(file - 'a')}, nil
}
