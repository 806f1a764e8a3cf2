package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/justinabrahms/squarechess/internal/chess"
	"github.com/justinabrahms/squarechess/internal/oracle"
	"github.com/justinabrahms/squarechess/internal/session"
)

var (
	lightSquare = color.New(color.BgHiWhite, color.FgBlack)
	darkSquare  = color.New(color.BgGreen, color.FgBlack)
	selected    = color.New(color.BgYellow, color.FgBlack)
	target      = color.New(color.BgHiCyan, color.FgBlack)
	whitePiece  = color.New(color.Bold)
	notice      = color.New(color.FgHiRed, color.Bold)
)

func main() {
	fen := flag.String("fen", chess.StartFEN, "Starting position")
	verify := flag.Bool("verify", false, "Cross-check moves with notnil/chess")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	flag.Parse()

	if *noColor {
		color.NoColor = true
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	opts := session.Options{}
	if *verify {
		opts.Verifier = oracle.Verifier{}
	}

	game, err := session.NewManager(logger, opts).Create(*fen, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid position: %v\n", err)
		os.Exit(2)
	}

	if err := run(game, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(game *session.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		render(out, game)
		fmt.Fprintf(out, "%s> ", game.Turn())
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "quit" || line == "q":
			return nil
		case line == "undo" || line == "u":
			if m, ok := game.Undo(); ok {
				fmt.Fprintf(out, "took back %s\n", m.Notation())
			} else {
				notice.Fprintln(out, "nothing to undo")
			}
		case line == "moves":
			for _, m := range game.ValidMoves() {
				fmt.Fprintf(out, "%s ", m.UCI())
			}
			fmt.Fprintln(out)
		case line == "fen":
			fmt.Fprintln(out, game.View().FEN)
		case len(line) == 2:
			sq, err := chess.ParseSquare(line)
			if err != nil {
				notice.Fprintln(out, err)
				continue
			}
			res, err := game.Click(sq)
			if err != nil {
				notice.Fprintln(out, err)
				continue
			}
			if res.Move != nil {
				report(out, res.Move)
			}
		case len(line) == 4 || len(line) == 5:
			promotion := chess.NoKind
			if len(line) == 5 {
				promotion = chess.ParsePromotion(line[4:])
			}
			result, err := game.Move(line[:2], line[2:4], promotion)
			if err != nil {
				if errors.Is(err, session.ErrGameOver) {
					notice.Fprintln(out, "the game is over, undo or quit")
				} else {
					notice.Fprintln(out, err)
				}
				continue
			}
			report(out, result)
		default:
			fmt.Fprintln(out, "enter a square (e2), a move (e2e4, e7e8n), moves, undo, fen or quit")
		}
	}
}

func report(out io.Writer, result *chess.MoveResult) {
	fmt.Fprintf(out, "played %s\n", result.Notation)
	switch {
	case result.Checkmate:
		notice.Fprintf(out, "checkmate, %s\n", result.Status)
	case result.GameOver:
		notice.Fprintf(out, "%s by %s\n", result.Status, result.Method)
	case result.Check:
		notice.Fprintln(out, "check")
	}
}

func render(out io.Writer, game *session.Session) {
	view := game.View()

	targets := make(map[string]bool)
	if view.Selected != "" {
		for _, m := range game.ValidMoves() {
			if m.From.String() == view.Selected {
				targets[m.To.String()] = true
			}
		}
	}

	for r, row := range view.Board {
		fmt.Fprintf(out, "%d ", chess.Size-r)
		for c, code := range row {
			name := chess.Sq(r, c).String()
			style := lightSquare
			switch {
			case name == view.Selected:
				style = selected
			case targets[name]:
				style = target
			case (r+c)%2 == 1:
				style = darkSquare
			}
			style.Fprint(out, " "+glyph(code)+" ")
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, "   a  b  c  d  e  f  g  h")
}

// glyph renders a piece code as a FEN letter, uppercase for white.
func glyph(code string) string {
	p, err := chess.ParsePiece(code)
	if err != nil || p.IsEmpty() {
		return " "
	}
	letter := p.Kind().Letter()
	if p.Color() == chess.White {
		return whitePiece.Sprint(string(letter &^ 0x20))
	}
	return string(letter | 0x20)
}
