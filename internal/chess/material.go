package chess

// Material sums StandardPieceValues for each side.
func (b *Board) Material() MaterialCount {
	var mc MaterialCount
	for r := range b {
		for _, p := range b[r] {
			if p == Empty {
				continue
			}
			v := StandardPieceValues[p.Kind()]
			if p.Color() == White {
				mc.White += v
			} else {
				mc.Black += v
			}
		}
	}
	return mc
}

// Balance is white's material minus black's.
func (mc MaterialCount) Balance() int {
	return mc.White - mc.Black
}
