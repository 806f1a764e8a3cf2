package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/justinabrahms/squarechess/internal/auth"
	"github.com/justinabrahms/squarechess/internal/config"
	"github.com/justinabrahms/squarechess/internal/oracle"
	"github.com/justinabrahms/squarechess/internal/session"
	"github.com/justinabrahms/squarechess/internal/web"
)

func main() {
	// Parse command line flags
	var showHelp bool
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.BoolVar(&showHelp, "h", false, "Show help information")
	flag.Parse()

	if showHelp {
		showHelpMessage()
		return
	}

	// Setup logging
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.Development.Debug {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	secret := cfg.Auth.SeatSecret
	if secret == "" {
		secret, err = auth.NewSecret()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to generate seat secret")
		}
		log.Warn().Msg("No auth.seat_secret configured, seat tokens will not survive a restart")
	}

	opts := session.Options{TimeControl: cfg.Game.TimeControl}
	if cfg.Development.VerifyMoves {
		opts.Verifier = oracle.Verifier{}
		log.Info().Msg("Cross-checking every position against the reference move generator")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := web.NewHub()
	go hub.Run(ctx)

	games := session.NewManager(log.Logger, opts)
	service := web.NewService(games, auth.NewIssuer([]byte(secret), cfg.Auth.TokenTTL), hub, cfg)

	// Create server
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      web.NewRouter(service),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Info().Str("addr", srv.Addr).Str("timeControl", cfg.Game.TimeControl.Type).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func showHelpMessage() {
	fmt.Println(`squarechess server

DESCRIPTION:
    HTTP and WebSocket service for two-player chess games. Validates every
    move against its own legal move generator, keeps games in memory and
    exports them as DAG-CBOR records.

USAGE:
    squarechess-server [OPTIONS]

OPTIONS:
    -h, --help    Show this help message

CONFIGURATION:
    The server is configured via config.yaml in the current directory or
    ./config, overridable with SQUARECHESS_* environment variables.

    Example config.yaml:
        server:
          host: localhost
          port: 8080

        game:
          time_control:
            type: correspondence   # or "none"
            days_per_move: 3

        auth:
          seat_secret: "..."       # see generate-seat-secret
          token_ttl: 168h

        development:
          debug: true
          log_level: debug
          verify_moves: true       # cross-check against notnil/chess

API ENDPOINTS:
    GET    /api/health                    - Service health check
    POST   /api/games                     - Create a game, returns seat tokens
    GET    /api/games                     - List games
    POST   /api/games/import              - Import a DAG-CBOR game record
    GET    /api/games/{id}                - Board, turn, status
    DELETE /api/games/{id}                - Delete a game (seat token)
    GET    /api/games/{id}/moves          - Legal moves for the side to move
    POST   /api/games/{id}/moves          - Play a move (seat token)
    POST   /api/games/{id}/undo           - Take back the last move (seat token)
    POST   /api/games/{id}/clicks         - Select/move by square clicks (seat token)
    GET    /api/games/{id}/time           - Time remaining for the side to move
    GET    /api/games/{id}/record         - Export the game record
    GET    /api/spectator/games           - Games in progress
    GET    /ws?gameId={id}[&token=...]    - Live game updates

EXAMPLES:
    # Create a game
    curl -X POST http://localhost:8080/api/games

    # Play e2-e4 as white
    curl -X POST http://localhost:8080/api/games/$ID/moves \
      -H "Authorization: Bearer $WHITE_TOKEN" \
      -d '{"from": "e2", "to": "e4"}'`)
}
