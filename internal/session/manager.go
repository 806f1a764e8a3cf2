package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/justinabrahms/squarechess/internal/chess"
	"github.com/rs/zerolog"
)

type Options struct {
	// TimeControl applied when Create is not given one
	TimeControl TimeControl
	Verifier    Verifier
	Now         func() time.Time
}

// Manager holds the in-memory sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
	logger   zerolog.Logger
}

func NewManager(logger zerolog.Logger, opts Options) *Manager {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
		logger:   logger.With().Str("component", "sessions").Logger(),
	}
}

// Create starts a game from fen, or from the initial position when fen is
// empty. A nil tc uses the manager's default.
func (m *Manager) Create(fen string, tc *TimeControl) (*Session, error) {
	if fen == "" {
		fen = chess.StartFEN
	}
	state, err := chess.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return m.Adopt(state, fen, tc), nil
}

// Adopt registers an already-built game. startFEN is the position its move
// log starts from.
func (m *Manager) Adopt(state *chess.GameState, startFEN string, tc *TimeControl) *Session {
	control := m.opts.TimeControl
	if tc != nil {
		control = *tc
	}
	now := m.opts.Now()
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		engine:    chess.NewEngineFromState(state),
		startFEN:  startFEN,
		clock:     NewClock(control, now),
		verifier:  m.opts.Verifier,
		now:       m.opts.Now,
		logger:    m.logger,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info().Str("gameID", s.ID).Str("fen", startFEN).Str("timeControl", control.Type).Msg("Game created")
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.sessions, id)
	m.logger.Info().Str("gameID", id).Msg("Game deleted")
	return nil
}

// List returns a snapshot of every game, oldest first.
func (m *Manager) List() []View {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	views := make([]View, len(sessions))
	for i, s := range sessions {
		views[i] = s.View()
	}
	return views
}
