package chess

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(gs *GameState, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := gs.ValidMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		gs.MakeMove(m)
		nodes += Perft(gs, depth-1)
		gs.UndoMove()
	}
	return nodes
}

// PerftDivide returns the perft count below each root move.
func PerftDivide(gs *GameState, depth int) map[Move]uint64 {
	out := make(map[Move]uint64)
	if depth <= 0 {
		return out
	}
	for _, m := range gs.ValidMoves() {
		gs.MakeMove(m)
		out[m] = Perft(gs, depth-1)
		gs.UndoMove()
	}
	return out
}
