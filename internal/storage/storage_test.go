package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := NewStore(path, false)
	require.NoError(t, err)
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkers.db")

	s := openStore(t, path)
	require.NoError(t, s.InitDB())

	now := time.Now().UTC().Truncate(time.Second)
	s.RecordNewGame(GameRecord{
		GameID:          "g1",
		InitialPosition: "r:0012",
		AIEnabled:       true,
		AISide:          "w",
		Difficulty:      "hard",
		StartTimeUTC:    now,
	})
	for i, notation := range []string{"c3-d4", "f6-e5", "d4xf6"} {
		side := "r"
		if i%2 == 1 {
			side = "w"
		}
		s.RecordMove(MoveRecord{
			GameID:            "g1",
			MoveNumber:        i + 1,
			MoveNotation:      notation,
			PositionAfterMove: "r:00",
			PlayerSide:        side,
			Captured:          notation == "d4xf6",
			MoveTimeUTC:       now,
		})
	}
	s.DeleteUndoneMoves("g1", 2)
	s.RecordMove(MoveRecord{
		GameID:            "g1",
		MoveNumber:        3,
		MoveNotation:      "d4-c5",
		PositionAfterMove: "w:00",
		PlayerSide:        "r",
		MoveTimeUTC:       now,
	})
	s.UpdateGameConfig("g1", false, "r", "easy")
	s.RecordResult("g1", "red wins")

	// Close drains the write queue
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second close is a no-op")
	require.True(t, s.IsHealthy())

	s = openStore(t, path)
	defer s.Close()

	games, err := s.QueryGames("g1", "")
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, "r:0012", games[0].InitialPosition)
	require.False(t, games[0].AIEnabled)
	require.Equal(t, "r", games[0].AISide)
	require.Equal(t, "easy", games[0].Difficulty)
	require.Equal(t, "red wins", games[0].Result)
	require.True(t, now.Equal(games[0].StartTimeUTC))

	moves, err := s.QueryMoves("g1")
	require.NoError(t, err)
	require.Len(t, moves, 3)
	require.Equal(t, "c3-d4", moves[0].MoveNotation)
	require.Equal(t, "w", moves[1].PlayerSide)
	require.Equal(t, "d4-c5", moves[2].MoveNotation)
	require.False(t, moves[2].Captured)

	byResult, err := s.QueryGames("*", "ongoing")
	require.NoError(t, err)
	require.Empty(t, byResult)
}

func TestStoreDegradesOnWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkers.db")
	s := openStore(t, path)
	require.NoError(t, s.InitDB())

	s.RecordNewGame(GameRecord{
		GameID:          "g1",
		InitialPosition: "r:00",
		AISide:          "w",
		Difficulty:      "easy",
		StartTimeUTC:    time.Now().UTC(),
	})
	// violates the player_side check constraint
	s.RecordMove(MoveRecord{
		GameID:            "g1",
		MoveNumber:        1,
		MoveNotation:      "c3-d4",
		PositionAfterMove: "w:00",
		PlayerSide:        "x",
		MoveTimeUTC:       time.Now().UTC(),
	})

	require.NoError(t, s.Close())
	require.False(t, s.IsHealthy())
}

func TestDeleteDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkers.db")
	s := openStore(t, path)
	require.NoError(t, s.InitDB())
	require.FileExists(t, path)

	require.NoError(t, s.DeleteDB())
	require.NoFileExists(t, path)
}
