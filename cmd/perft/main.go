package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/justinabrahms/squarechess/internal/chess"
	"github.com/justinabrahms/squarechess/internal/oracle"
)

func main() {
	fen := flag.String("fen", chess.StartFEN, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	verify := flag.Bool("verify", false, "Compare legal moves with notnil/chess at every node above the leaves")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	gs, err := chess.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ParseFEN error: %v\n", err)
		os.Exit(2)
	}

	if *verify {
		checked, err := verifyTree(gs, *depth)
		if err != nil {
			fmt.Fprintf(os.Stderr, "verify: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Verified %d positions\n", checked)
	}

	// Optional divide output
	if *divide {
		div := chess.PerftDivide(gs, *depth)
		// Sort moves for stable output
		type kv struct {
			m chess.Move
			n uint64
		}
		arr := make([]kv, 0, len(div))
		var sum uint64
		for m, n := range div {
			arr = append(arr, kv{m, n})
			sum += n
		}
		sort.Slice(arr, func(i, j int) bool { return arr[i].m.UCI() < arr[j].m.UCI() })
		for _, x := range arr {
			fmt.Printf("%s: %d\n", x.m.UCI(), x.n)
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	start := time.Now()
	nodes := chess.Perft(gs, *depth)
	elapsed := time.Since(start)
	nps := float64(nodes) / elapsed.Seconds()

	// Single line: Depth Nodes Time NPS
	fmt.Printf("%d \t\t%d \t\t%s \t%.0f\n", *depth, nodes, elapsed, nps)
}

// verifyTree compares every position above the leaves with the reference
// generator and stops at the first disagreement.
func verifyTree(gs *chess.GameState, depth int) (int, error) {
	report, err := oracle.Compare(gs)
	if err != nil {
		return 0, err
	}
	if !report.OK() {
		return 0, fmt.Errorf("%w: %s", oracle.ErrMismatch, report)
	}
	checked := 1
	if depth <= 1 {
		return checked, nil
	}
	for _, m := range gs.ValidMoves() {
		gs.MakeMove(m)
		n, err := verifyTree(gs, depth-1)
		gs.UndoMove()
		if err != nil {
			return checked, fmt.Errorf("after %s: %w", m.UCI(), err)
		}
		checked += n
	}
	return checked, nil
}
