package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID          string    `db:"game_id"`
	InitialPosition string    `db:"initial_position"`
	AIEnabled       bool      `db:"ai_enabled"`
	AISide          string    `db:"ai_side"`    // "r" or "w"
	Difficulty      string    `db:"difficulty"` // "easy", "medium" or "hard"
	Result          string    `db:"result"`
	StartTimeUTC    time.Time `db:"start_time_utc"`
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID            int64     `db:"move_id"`
	GameID            string    `db:"game_id"`
	MoveNumber        int       `db:"move_number"`
	MoveNotation      string    `db:"move_notation"`
	PositionAfterMove string    `db:"position_after_move"`
	PlayerSide        string    `db:"player_side"` // "r" or "w"
	Captured          bool      `db:"captured"`
	Promoted          bool      `db:"promoted"`
	MoveTimeUTC       time.Time `db:"move_time_utc"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	initial_position TEXT NOT NULL,
	ai_enabled INTEGER NOT NULL DEFAULT 0,
	ai_side TEXT NOT NULL CHECK(ai_side IN ('r', 'w')),
	difficulty TEXT NOT NULL,
	result TEXT NOT NULL DEFAULT 'ongoing',
	start_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	move_number INTEGER NOT NULL,
	move_notation TEXT NOT NULL,
	position_after_move TEXT NOT NULL,
	player_side TEXT NOT NULL CHECK(player_side IN ('r', 'w')),
	captured INTEGER NOT NULL DEFAULT 0,
	promoted INTEGER NOT NULL DEFAULT 0,
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, move_number)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
CREATE INDEX IF NOT EXISTS idx_games_result ON games(result);
`
