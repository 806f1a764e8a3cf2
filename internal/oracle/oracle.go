// Package oracle cross-checks move generation against github.com/notnil/chess.
package oracle

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	notnil "github.com/notnil/chess"

	"github.com/justinabrahms/squarechess/internal/chess"
)

var ErrMismatch = errors.New("legal moves differ from reference")

// Pair is a from/to square pair in algebraic notation. Promotion choices
// collapse onto one pair.
type Pair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (p Pair) String() string {
	return p.From + p.To
}

// LegalMoves lists the reference library's legal moves for fen, deduplicated
// and sorted.
func LegalMoves(fen string) ([]Pair, error) {
	opt, err := notnil.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("invalid FEN: %w", err)
	}
	game := notnil.NewGame(opt)

	seen := make(map[Pair]bool)
	var pairs []Pair
	for _, m := range game.ValidMoves() {
		p := Pair{From: m.S1().String(), To: m.S2().String()}
		if seen[p] {
			continue
		}
		seen[p] = true
		pairs = append(pairs, p)
	}
	sortPairs(pairs)
	return pairs, nil
}

// Report is the difference between our moves and the reference's.
type Report struct {
	FEN     string `json:"fen"`
	Missing []Pair `json:"missing,omitempty"`
	Extra   []Pair `json:"extra,omitempty"`
}

func (r Report) OK() bool {
	return len(r.Missing) == 0 && len(r.Extra) == 0
}

func (r Report) String() string {
	var sb strings.Builder
	sb.WriteString(r.FEN)
	if len(r.Missing) > 0 {
		fmt.Fprintf(&sb, " missing=%v", r.Missing)
	}
	if len(r.Extra) > 0 {
		fmt.Fprintf(&sb, " extra=%v", r.Extra)
	}
	return sb.String()
}

// Compare checks the legal moves of state against the reference library.
// Positions are compared through FEN, which never carries castling or en
// passant rights, so neither side generates those moves.
func Compare(state *chess.GameState) (Report, error) {
	fen := state.FEN()
	want, err := LegalMoves(fen)
	if err != nil {
		return Report{}, err
	}

	got := make(map[Pair]bool)
	for _, m := range state.ValidMoves() {
		got[Pair{From: m.From.String(), To: m.To.String()}] = true
	}

	report := Report{FEN: fen}
	for _, p := range want {
		if !got[p] {
			report.Missing = append(report.Missing, p)
		}
		delete(got, p)
	}
	for p := range got {
		report.Extra = append(report.Extra, p)
	}
	sortPairs(report.Extra)
	return report, nil
}

// Verifier adapts Compare to the session.Verifier interface.
type Verifier struct{}

func (Verifier) Verify(state *chess.GameState) error {
	report, err := Compare(state)
	if err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("%w: %s", ErrMismatch, report)
	}
	return nil
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].From != pairs[j].From {
			return pairs[i].From < pairs[j].From
		}
		return pairs[i].To < pairs[j].To
	})
}
