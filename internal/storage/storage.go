// Package storage keeps an append-only SQLite log of games and moves.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const writeQueueSize = 1000

// Store handles SQLite database operations with async writes
type Store struct {
	db           *sql.DB
	path         string
	writeChan    chan func(*sql.Tx) error
	healthStatus atomic.Bool
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	closeOnce    sync.Once
	closeErr     error
}

// NewStore creates a new storage instance with async writer
func NewStore(dataSourceName string, devMode bool) (*Store, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL in development for concurrent readers during writes
	if devMode {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		db:        db,
		path:      dataSourceName,
		writeChan: make(chan func(*sql.Tx) error, writeQueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.healthStatus.Store(true)

	s.wg.Add(1)
	go s.writerLoop()

	return s, nil
}

// writerLoop processes async write operations in submission order
func (s *Store) writerLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			// Drain remaining writes with timeout
			deadline := time.After(2 * time.Second)
			for {
				select {
				case fn := <-s.writeChan:
					if s.healthStatus.Load() {
						s.executeWrite(fn)
					}
				case <-deadline:
					return
				default:
					return
				}
			}

		case fn := <-s.writeChan:
			if !s.healthStatus.Load() {
				continue
			}
			s.executeWrite(fn)
		}
	}
}

// executeWrite runs a transactional write; any failure marks the store degraded
func (s *Store) executeWrite(fn func(*sql.Tx) error) {
	tx, err := s.db.Begin()
	if err != nil {
		log.Error().Err(err).Msg("storage degraded: failed to begin transaction")
		s.healthStatus.Store(false)
		return
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		log.Error().Err(err).Msg("storage degraded: write operation failed")
		s.healthStatus.Store(false)
		return
	}

	if err := tx.Commit(); err != nil {
		log.Error().Err(err).Msg("storage degraded: failed to commit")
		s.healthStatus.Store(false)
	}
}

// enqueue submits a write, dropping it when degraded or when the queue is full
func (s *Store) enqueue(kind string, fn func(*sql.Tx) error) {
	if !s.healthStatus.Load() {
		return
	}

	select {
	case s.writeChan <- fn:
	default:
		log.Warn().Str("write", kind).Msg("storage write queue full, dropping write")
	}
}

// RecordNewGame asynchronously records a new game
func (s *Store) RecordNewGame(record GameRecord) {
	s.enqueue("game", func(tx *sql.Tx) error {
		query := `INSERT INTO games (
			game_id, initial_position, ai_enabled, ai_side, difficulty, result, start_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

		result := record.Result
		if result == "" {
			result = "ongoing"
		}
		_, err := tx.Exec(query,
			record.GameID, record.InitialPosition, record.AIEnabled, record.AISide,
			record.Difficulty, result, record.StartTimeUTC,
		)
		return err
	})
}

// UpdateGameConfig asynchronously rewrites the AI settings of a game
func (s *Store) UpdateGameConfig(gameID string, aiEnabled bool, aiSide, difficulty string) {
	s.enqueue("config", func(tx *sql.Tx) error {
		query := `UPDATE games SET ai_enabled = ?, ai_side = ?, difficulty = ? WHERE game_id = ?`
		_, err := tx.Exec(query, aiEnabled, aiSide, difficulty, gameID)
		return err
	})
}

// RecordMove asynchronously records a move
func (s *Store) RecordMove(record MoveRecord) {
	s.enqueue("move", func(tx *sql.Tx) error {
		query := `INSERT INTO moves (
			game_id, move_number, move_notation, position_after_move,
			player_side, captured, promoted, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.MoveNumber, record.MoveNotation, record.PositionAfterMove,
			record.PlayerSide, record.Captured, record.Promoted, record.MoveTimeUTC,
		)
		return err
	})
}

// RecordResult asynchronously stores the game result
func (s *Store) RecordResult(gameID, result string) {
	s.enqueue("result", func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE games SET result = ? WHERE game_id = ?`, result, gameID)
		return err
	})
}

// DeleteUndoneMoves asynchronously deletes moves after undo
func (s *Store) DeleteUndoneMoves(gameID string, afterMoveNumber int) {
	s.enqueue("undo", func(tx *sql.Tx) error {
		query := `DELETE FROM moves WHERE game_id = ? AND move_number > ?`
		_, err := tx.Exec(query, gameID, afterMoveNumber)
		return err
	})
}

// IsHealthy returns the current health status
func (s *Store) IsHealthy() bool {
	return s.healthStatus.Load()
}

// Close drains pending writes and closes the database connection
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			log.Warn().Msg("storage writer shutdown timeout, some writes may be lost")
		}

		if s.db != nil {
			s.closeErr = s.db.Close()
		}
	})
	return s.closeErr
}

// InitDB creates the database schema
func (s *Store) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return tx.Commit()
}

// DeleteDB closes the store and removes the database file
func (s *Store) DeleteDB() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete database file: %w", err)
	}

	return nil
}

// QueryGames retrieves games with optional filtering; "" or "*" matches everything
func (s *Store) QueryGames(gameID, result string) ([]GameRecord, error) {
	query := `SELECT
		game_id, initial_position, ai_enabled, ai_side, difficulty, result, start_time_utc
	FROM games WHERE 1=1`

	var args []interface{}

	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}

	if result != "" && result != "*" {
		query += " AND result = ?"
		args = append(args, result)
	}

	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		err := rows.Scan(
			&g.GameID, &g.InitialPosition, &g.AIEnabled, &g.AISide,
			&g.Difficulty, &g.Result, &g.StartTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}

// QueryMoves returns the recorded moves of a game in move order
func (s *Store) QueryMoves(gameID string) ([]MoveRecord, error) {
	query := `SELECT
		move_id, game_id, move_number, move_notation, position_after_move,
		player_side, captured, promoted, move_time_utc
	FROM moves WHERE game_id = ? ORDER BY move_number`

	rows, err := s.db.Query(query, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(
			&m.MoveID, &m.GameID, &m.MoveNumber, &m.MoveNotation, &m.PositionAfterMove,
			&m.PlayerSide, &m.Captured, &m.Promoted, &m.MoveTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return moves, nil
}
