package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN reads the placement, side-to-move and fullmove fields. Castling
// and en passant fields are accepted but ignored since neither move is
// generated.
func ParseFEN(fen string) (*GameState, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: want at least 2 fields, got %d", ErrInvalidFEN, len(fields))
	}

	b, err := parsePlacement(fields[0])
	if err != nil {
		return nil, err
	}

	var toMove Color
	switch fields[1] {
	case "w":
		toMove = White
	case "b":
		toMove = Black
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	for _, c := range [2]Color{White, Black} {
		if _, ok := b.King(c); !ok {
			return nil, fmt.Errorf("%w: no %s king", ErrInvalidFEN, c)
		}
		if n := b.Count(c); n > 16 {
			return nil, fmt.Errorf("%w: %d %s pieces", ErrInvalidFEN, n, c)
		}
	}

	// the side that just moved cannot have left its king in check
	if k, _ := b.King(toMove.Other()); IsSquareAttacked(&b, k, toMove) {
		return nil, fmt.Errorf("%w: %s to move can capture the %s king", ErrInvalidFEN, toMove, toMove.Other())
	}

	gs := NewGameStateFromBoard(b, toMove)
	if len(fields) >= 6 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: fullmove %q", ErrInvalidFEN, fields[5])
		}
		gs.startFullmove = n
	}
	return gs, nil
}

func parsePlacement(s string) (Board, error) {
	var b Board
	ranks := strings.Split(s, "/")
	if len(ranks) != Size {
		return b, fmt.Errorf("%w: want %d ranks, got %d", ErrInvalidFEN, Size, len(ranks))
	}
	kings := [2]int{}
	for r, rank := range ranks {
		col := 0
		for i := 0; i < len(rank); i++ {
			ch := rank[i]
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			p, ok := pieceFromFEN(ch)
			if !ok {
				return b, fmt.Errorf("%w: unknown piece %q", ErrInvalidFEN, ch)
			}
			if col >= Size {
				return b, fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, Size-r)
			}
			switch p.Kind() {
			case King:
				kings[p.Color()]++
			case Pawn:
				if r == 0 || r == Size-1 {
					return b, fmt.Errorf("%w: pawn on rank %d", ErrInvalidFEN, Size-r)
				}
			}
			b[r][col] = p
			col++
		}
		if col != Size {
			return b, fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, Size-r, col)
		}
	}
	if kings[White] > 1 || kings[Black] > 1 {
		return b, fmt.Errorf("%w: more than one king per side", ErrInvalidFEN)
	}
	return b, nil
}

func pieceFromFEN(ch byte) (Piece, bool) {
	color := White
	if ch >= 'a' && ch <= 'z' {
		color = Black
		ch -= 'a' - 'A'
	}
	if ch == 'P' {
		return NewPiece(color, Pawn), true
	}
	k, ok := kindFromLetter(ch)
	if !ok || k == Pawn {
		return Empty, false
	}
	return NewPiece(color, k), true
}

func pieceToFEN(p Piece) byte {
	ch := p.Kind().Letter()
	if ch >= 'a' {
		ch -= 'a' - 'A'
	}
	if p.Color() == Black {
		ch += 'a' - 'A'
	}
	return ch
}

// FEN writes the current position. Castling and en passant are always "-"
// and the halfmove clock is always 0.
func (gs *GameState) FEN() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < Size; c++ {
			p := gs.board[r][c]
			if p == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pieceToFEN(p))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	sb.WriteByte(' ')
	sb.WriteByte(gs.Turn().code())
	fmt.Fprintf(&sb, " - - 0 %d", gs.Fullmove())
	return sb.String()
}
