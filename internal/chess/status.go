package chess

// Status classifies the current position. A side with no legal moves is
// checkmated when in check and stalemated otherwise.
func (gs *GameState) Status() (GameStatus, Method) {
	if len(gs.ValidMoves()) == 0 {
		if !gs.InCheck() {
			return StatusDraw, MethodStalemate
		}
		if gs.Turn() == White {
			return StatusBlackWon, MethodCheckmate
		}
		return StatusWhiteWon, MethodCheckmate
	}
	if insufficientMaterial(&gs.board) {
		return StatusDraw, MethodInsufficientMaterial
	}
	return StatusActive, MethodNone
}

// insufficientMaterial covers bare kings and a single minor piece against a
// bare king.
func insufficientMaterial(b *Board) bool {
	minors := 0
	for r := range b {
		for _, p := range b[r] {
			switch p.Kind() {
			case NoKind, King:
			case Knight, Bishop:
				minors++
			default:
				return false
			}
		}
	}
	return minors <= 1
}
