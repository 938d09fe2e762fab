// Package service owns the live games, serializes access to them and mirrors
// their history into the optional store.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"checkers/internal/core"
	"checkers/internal/game"
	"checkers/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// Service is a state manager for checkers games with optional persistence
type Service struct {
	games  map[string]*game.Game
	mu     sync.RWMutex
	store  *storage.Store // nil if persistence disabled
	waiter *WaitRegistry
}

// New creates a new service instance with optional storage
func New(store *storage.Store) (*Service, error) {
	return &Service{
		games:  make(map[string]*game.Game),
		store:  store,
		waiter: NewWaitRegistry(),
	}, nil
}

// CreateGame registers a game under id
func (s *Service) CreateGame(id string, g *game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; exists {
		return fmt.Errorf("%w: %s", ErrGameExists, id)
	}
	s.games[id] = g

	if s.store != nil {
		cfg := g.Config()
		s.store.RecordNewGame(storage.GameRecord{
			GameID:          id,
			InitialPosition: g.InitialPosition(),
			AIEnabled:       cfg.AIEnabled,
			AISide:          string(cfg.AISide.Letter()),
			Difficulty:      cfg.Difficulty.String(),
			Result:          g.State().String(),
			StartTimeUTC:    time.Now().UTC(),
		})
	}

	log.Info().Str("game", id).Bool("ai", g.Config().AIEnabled).Msg("game created")
	return nil
}

// View runs fn with read access to a game
func (s *Service) View(gameID string, fn func(g *game.Game) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return fn(g)
}

// Update runs fn with exclusive access to a game, then records whatever fn
// changed and wakes long-poll waiters. Changes are recorded even when fn fails
// part way through.
func (s *Service) Update(gameID string, fn func(g *game.Game) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	beforeCount := g.MoveCount()
	beforeState := g.State()
	beforeCfg := g.Config()

	err := fn(g)

	s.persist(gameID, g, beforeCount, beforeState, beforeCfg)

	if g.MoveCount() != beforeCount || g.State() != beforeState {
		s.waiter.NotifyGame(gameID, g.MoveCount(), g.State().IsOver())
	}
	return err
}

func (s *Service) persist(gameID string, g *game.Game, beforeCount int, beforeState core.State, beforeCfg game.Config) {
	if s.store == nil {
		return
	}

	if cfg := g.Config(); cfg != beforeCfg {
		s.store.UpdateGameConfig(gameID, cfg.AIEnabled, string(cfg.AISide.Letter()), cfg.Difficulty.String())
	}

	afterCount := g.MoveCount()
	if afterCount < beforeCount {
		s.store.DeleteUndoneMoves(gameID, afterCount)
	}

	snapshots := g.Snapshots()
	for n := beforeCount + 1; n <= afterCount; n++ {
		snap := snapshots[n]
		s.store.RecordMove(storage.MoveRecord{
			GameID:            gameID,
			MoveNumber:        n,
			MoveNotation:      snap.PreviousMove,
			PositionAfterMove: snap.Position,
			PlayerSide:        string(snap.NextTurn.Opponent().Letter()),
			Captured:          snap.Captured,
			Promoted:          snap.Promoted,
			MoveTimeUTC:       time.Now().UTC(),
		})
	}

	if state := g.State(); state != beforeState {
		s.store.RecordResult(gameID, state.String())
	}
}

// UndoMoves removes the specified number of moves from game history
func (s *Service) UndoMoves(gameID string, count int) error {
	return s.Update(gameID, func(g *game.Game) error {
		return g.UndoMoves(count)
	})
}

// DeleteGame removes a game from memory; its stored history is kept
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[gameID]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	s.waiter.RemoveGame(gameID)
	delete(s.games, gameID)

	log.Info().Str("game", gameID).Msg("game deleted")
	return nil
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// RegisterWait subscribes to changes of a game the caller last saw at moveCount
func (s *Service) RegisterWait(ctx context.Context, gameID string, moveCount int) (<-chan struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	notify := s.waiter.RegisterWait(ctx, gameID, moveCount)
	// already stale: wake immediately
	if g.MoveCount() != moveCount {
		s.waiter.NotifyGame(gameID, g.MoveCount(), false)
	}
	return notify, nil
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Shutdown releases waiters, drops all games and closes storage
func (s *Service) Shutdown(timeout time.Duration) error {
	waitErr := s.waiter.Shutdown(timeout)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*game.Game)

	var storeErr error
	if s.store != nil {
		storeErr = s.store.Close()
	}
	return errors.Join(waitErr, storeErr)
}
