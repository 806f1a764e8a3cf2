package chess

type GameStatus string

const (
	StatusActive    GameStatus = "active"
	StatusDraw      GameStatus = "draw"
	StatusWhiteWon  GameStatus = "white_won"
	StatusBlackWon  GameStatus = "black_won"
	StatusAbandoned GameStatus = "abandoned"
)

// Method explains how a finished game ended.
type Method string

const (
	MethodNone                 Method = ""
	MethodCheckmate            Method = "checkmate"
	MethodStalemate            Method = "stalemate"
	MethodInsufficientMaterial Method = "insufficient_material"
)

type MoveResult struct {
	From      string     `json:"from"`
	To        string     `json:"to"`
	Notation  string     `json:"notation"`
	Piece     string     `json:"piece"`
	Captured  string     `json:"captured,omitempty"`
	Promotion string     `json:"promotion,omitempty"`
	FEN       string     `json:"fen"`
	Check     bool       `json:"check"`
	Checkmate bool       `json:"checkmate"`
	Draw      bool       `json:"draw"`
	GameOver  bool       `json:"gameOver"`
	Status    GameStatus `json:"status"`
	Method    Method     `json:"method,omitempty"`
}

// MaterialCount represents the material count for both sides
type MaterialCount struct {
	White int `json:"white"`
	Black int `json:"black"`
}

// StandardPieceValues maps piece kinds to their standard values
var StandardPieceValues = map[Kind]int{
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
	King:   0, // King has no material value
}
