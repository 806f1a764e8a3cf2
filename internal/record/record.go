// Package record stores finished or in-progress games as DAG-CBOR documents
// that can be replayed move by move.
package record

import (
	"errors"
	"fmt"
	"io"

	ipld "github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/codec/dagcbor"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/ipld/go-ipld-prime/node/basicnode"

	"github.com/justinabrahms/squarechess/internal/chess"
)

// Version is the current record layout.
const Version = 1

var ErrInvalidRecord = errors.New("invalid game record")

// Entry is one played move.
type Entry struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// Record is a game: where it started and every move since.
type Record struct {
	Version  int     `json:"version"`
	GameID   string  `json:"gameId"`
	StartFEN string  `json:"startFen"`
	Moves    []Entry `json:"moves"`
}

// New builds a record from a move log.
func New(gameID, startFEN string, moves []chess.Move) Record {
	rec := Record{
		Version:  Version,
		GameID:   gameID,
		StartFEN: startFEN,
		Moves:    make([]Entry, len(moves)),
	}
	for i, m := range moves {
		e := Entry{From: m.From.String(), To: m.To.String()}
		if m.IsPromotion() {
			e.Promotion = m.Promotion.String()
		}
		rec.Moves[i] = e
	}
	return rec
}

// Node builds the IPLD data model form of the record.
func (rec Record) Node() (datamodel.Node, error) {
	return qp.BuildMap(basicnode.Prototype.Any, 4, func(ma datamodel.MapAssembler) {
		qp.MapEntry(ma, "version", qp.Int(int64(rec.Version)))
		qp.MapEntry(ma, "gameId", qp.String(rec.GameID))
		qp.MapEntry(ma, "startFen", qp.String(rec.StartFEN))
		qp.MapEntry(ma, "moves", qp.List(int64(len(rec.Moves)), func(la datamodel.ListAssembler) {
			for _, e := range rec.Moves {
				e := e
				size := int64(2)
				if e.Promotion != "" {
					size = 3
				}
				qp.ListEntry(la, qp.Map(size, func(ma datamodel.MapAssembler) {
					qp.MapEntry(ma, "from", qp.String(e.From))
					qp.MapEntry(ma, "to", qp.String(e.To))
					if e.Promotion != "" {
						qp.MapEntry(ma, "promotion", qp.String(e.Promotion))
					}
				}))
			}
		}))
	})
}

// Encode writes rec as DAG-CBOR.
func Encode(w io.Writer, rec Record) error {
	node, err := rec.Node()
	if err != nil {
		return fmt.Errorf("failed to build record: %w", err)
	}
	if err := dagcbor.Encode(node, w); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return nil
}

// Decode reads a DAG-CBOR record.
func Decode(r io.Reader) (Record, error) {
	nb := basicnode.Prototype.Any.NewBuilder()
	if err := dagcbor.Decode(nb, r); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return fromNode(nb.Build())
}

func fromNode(node ipld.Node) (Record, error) {
	if node.Kind() != ipld.Kind_Map {
		return Record{}, fmt.Errorf("%w: expected map, got %s", ErrInvalidRecord, node.Kind())
	}

	var rec Record
	version, err := lookupInt(node, "version")
	if err != nil {
		return Record{}, err
	}
	if version != Version {
		return Record{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidRecord, version)
	}
	rec.Version = int(version)

	if rec.GameID, err = lookupString(node, "gameId"); err != nil {
		return Record{}, err
	}
	if rec.StartFEN, err = lookupString(node, "startFen"); err != nil {
		return Record{}, err
	}

	moves, err := node.LookupByString("moves")
	if err != nil {
		return Record{}, fmt.Errorf("%w: moves: %v", ErrInvalidRecord, err)
	}
	if moves.Kind() != ipld.Kind_List {
		return Record{}, fmt.Errorf("%w: moves is %s", ErrInvalidRecord, moves.Kind())
	}

	iter := moves.ListIterator()
	for !iter.Done() {
		i, m, err := iter.Next()
		if err != nil {
			return Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		var e Entry
		if e.From, err = lookupString(m, "from"); err != nil {
			return Record{}, fmt.Errorf("move %d: %w", i, err)
		}
		if e.To, err = lookupString(m, "to"); err != nil {
			return Record{}, fmt.Errorf("move %d: %w", i, err)
		}
		if p, err := m.LookupByString("promotion"); err == nil {
			if e.Promotion, err = p.AsString(); err != nil {
				return Record{}, fmt.Errorf("%w: move %d promotion: %v", ErrInvalidRecord, i, err)
			}
		}
		rec.Moves = append(rec.Moves, e)
	}
	return rec, nil
}

func lookupString(node ipld.Node, key string) (string, error) {
	v, err := node.LookupByString(key)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidRecord, key, err)
	}
	s, err := v.AsString()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidRecord, key, err)
	}
	return s, nil
}

func lookupInt(node ipld.Node, key string) (int64, error) {
	v, err := node.LookupByString(key)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, key, err)
	}
	n, err := v.AsInt()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, key, err)
	}
	return n, nil
}

// Replay plays the record from its start position. Every entry must be a
// legal move at its point in the game, and no entry may follow the end of
// the game.
func (rec Record) Replay() (*chess.GameState, error) {
	fen := rec.StartFEN
	if fen == "" {
		fen = chess.StartFEN
	}
	gs, err := chess.ParseFEN(fen)
	if err != nil {
		return nil, err
	}

	for i, e := range rec.Moves {
		if status, method := gs.Status(); status != chess.StatusActive {
			return nil, fmt.Errorf("%w: move %d after the game ended (%s %s)", ErrInvalidRecord, i+1, status, method)
		}
		from, err := chess.ParseSquare(e.From)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		to, err := chess.ParseSquare(e.To)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		m, ok := gs.FindMove(from, to)
		if !ok {
			return nil, fmt.Errorf("move %d: %w: %s%s", i+1, chess.ErrIllegalMove, e.From, e.To)
		}
		if e.Promotion != "" {
			k := chess.ParsePromotion(e.Promotion)
			if k == chess.NoKind || !m.IsPromotion() {
				return nil, fmt.Errorf("move %d: %w: bad promotion %q", i+1, chess.ErrIllegalMove, e.Promotion)
			}
			m = m.WithPromotion(k)
		}
		gs.MakeMove(m)
	}
	return gs, nil
}
