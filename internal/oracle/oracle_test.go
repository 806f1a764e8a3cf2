package oracle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinabrahms/squarechess/internal/chess"
)

func TestLegalMovesInitialPosition(t *testing.T) {
	pairs, err := LegalMoves(chess.StartFEN)
	require.NoError(t, err)
	assert.Len(t, pairs, 20)
	assert.Contains(t, pairs, Pair{From: "e2", To: "e4"})
	assert.Contains(t, pairs, Pair{From: "g1", To: "f3"})
}

func TestLegalMovesCollapsesPromotions(t *testing.T) {
	pairs, err := LegalMoves("7k/P7/8/8/8/8/8/K7 w - - 0 1")
	require.NoError(t, err)

	count := 0
	for _, p := range pairs {
		if p.From == "a7" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestLegalMovesInvalidFEN(t *testing.T) {
	_, err := LegalMoves("garbage")
	assert.Error(t, err)
}

func TestCompareAgreesOnSamplePositions(t *testing.T) {
	positions := []string{
		chess.StartFEN,
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w - - 0 2",
		"4k3/8/8/8/8/8/4r3/4K3 w - - 0 1",
		"4k3/4r3/8/8/8/8/4R3/4K3 w - - 0 1",
		"7k/P7/8/8/8/8/8/K7 w - - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w - - 0 1",
	}
	for _, fen := range positions {
		t.Run(fen, func(t *testing.T) {
			state, err := chess.ParseFEN(fen)
			require.NoError(t, err)

			report, err := Compare(state)
			require.NoError(t, err)
			assert.True(t, report.OK(), report.String())
		})
	}
}

func TestCompareAfterPlay(t *testing.T) {
	engine := chess.NewEngine()
	for _, mv := range [][2]string{{"e2", "e4"}, {"d7", "d5"}, {"e4", "d5"}, {"d8", "d5"}, {"b1", "c3"}} {
		_, err := engine.MakeMove(mv[0], mv[1], chess.NoKind)
		require.NoError(t, err)
		assert.NoError(t, Verifier{}.Verify(engine.State()))
	}
}

func TestReportString(t *testing.T) {
	r := Report{FEN: "x", Missing: []Pair{{From: "e1", To: "g1"}}}
	assert.False(t, r.OK())
	assert.Equal(t, "x missing=[e1g1]", r.String())

	err := Verifier{}.Verify(chess.NewGameState())
	assert.False(t, errors.Is(err, ErrMismatch))
}
