package chess

import "fmt"

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func (c Color) code() byte {
	if c == White {
		return 'w'
	}
	return 'b'
}

// ParseColor accepts "white"/"black" or the single letters "w"/"b".
func ParseColor(s string) (Color, error) {
	switch s {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	default:
		return White, fmt.Errorf("unknown color %q", s)
	}
}

// Kind is the closed set of piece kinds. NoKind marks an empty square.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindLetters = [...]byte{NoKind: '-', Pawn: 'p', Knight: 'N', Bishop: 'B', Rook: 'R', Queen: 'Q', King: 'K'}

var kindNames = [...]string{NoKind: "none", Pawn: "pawn", Knight: "knight", Bishop: "bishop", Rook: "rook", Queen: "queen", King: "king"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "none"
}

// Letter is the kind's letter in the two-character piece code.
func (k Kind) Letter() byte {
	if int(k) < len(kindLetters) {
		return kindLetters[k]
	}
	return '-'
}

func kindFromLetter(b byte) (Kind, bool) {
	for k := Pawn; k <= King; k++ {
		if kindLetters[k] == b {
			return k, true
		}
	}
	return NoKind, false
}

// Piece packs a color and a kind into one byte. The zero value is Empty.
type Piece uint8

// Empty is the empty-square sentinel.
const Empty Piece = 0

const colorBit = 0x8

// NewPiece builds a piece. NewPiece(c, NoKind) is Empty.
func NewPiece(c Color, k Kind) Piece {
	if k == NoKind {
		return Empty
	}
	p := Piece(k)
	if c == Black {
		p |= colorBit
	}
	return p
}

func (p Piece) Kind() Kind { return Kind(p &^ colorBit) }

// Color of the piece. Meaningless for Empty.
func (p Piece) Color() Color {
	if p&colorBit != 0 {
		return Black
	}
	return White
}

func (p Piece) IsEmpty() bool { return p == Empty }

// Is reports whether p is a non-empty piece of color c.
func (p Piece) Is(c Color) bool {
	return p != Empty && p.Color() == c
}

// String returns the two-character code: "wp", "bK", or "--" for Empty.
func (p Piece) String() string {
	if p == Empty {
		return "--"
	}
	return string([]byte{p.Color().code(), p.Kind().Letter()})
}

// ParsePiece is the inverse of Piece.String.
func ParsePiece(code string) (Piece, error) {
	if code == "--" {
		return Empty, nil
	}
	if len(code) != 2 {
		return Empty, fmt.Errorf("invalid piece code %q", code)
	}
	c, err := ParseColor(code[:1])
	if err != nil {
		return Empty, fmt.Errorf("invalid piece code %q: %w", code, err)
	}
	k, ok := kindFromLetter(code[1])
	if !ok {
		return Empty, fmt.Errorf("invalid piece code %q: unknown kind", code)
	}
	return NewPiece(c, k), nil
}
