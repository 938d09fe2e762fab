package game

import (
	"testing"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/rules"

	"github.com/stretchr/testify/require"
)

// stubChooser always plays the first legal move
type stubChooser struct {
	calls int
}

func (s *stubChooser) ChooseMove(b *board.Board, side core.Side, _ core.Difficulty) (rules.Move, bool) {
	s.calls++
	moves := rules.AllMoves(b, side)
	if len(moves) == 0 {
		return rules.Move{}, false
	}
	return moves[0], true
}

func fromPieces(t *testing.T, turn core.Side, cfg Config, place func(b *board.Board)) *Game {
	t.Helper()
	b := board.New()
	place(b)
	g, err := FromPosition(board.FormatPosition(b, turn), cfg)
	require.NoError(t, err)
	return g
}

func TestOpeningMoveScenario(t *testing.T) {
	g := New(DefaultConfig())
	require.Equal(t, core.SideRed, g.Turn())
	require.Equal(t, PhaseIdle, g.Phase())

	require.True(t, g.Select(0, 2))
	require.Equal(t, PhaseSelected, g.Phase())
	require.Len(t, g.Highlights(), 1)

	result, ok := g.Commit(1, 3)
	require.True(t, ok)
	require.False(t, result.Outcome.Captured)
	require.False(t, result.Outcome.Promoted)
	require.Equal(t, core.SideRed, result.Side)
	require.Equal(t, core.SideWhite, g.Turn())
	require.Equal(t, PhaseIdle, g.Phase())
	require.Equal(t, []string{"a3-b4"}, g.Moves())

	p, ok := g.board.OccupantAt(1, 3)
	require.True(t, ok)
	require.Equal(t, core.SideRed, p.Side)
}

func TestCaptureScenario(t *testing.T) {
	g := fromPieces(t, core.SideRed, DefaultConfig(), func(b *board.Board) {
		b.Place(2, 2, core.SideRed, false)
		b.Place(3, 3, core.SideWhite, false)
		b.Place(7, 7, core.SideWhite, false)
	})

	require.True(t, g.Select(2, 2))
	result, ok := g.Commit(4, 4)
	require.True(t, ok)
	require.True(t, result.Outcome.Captured)

	require.Equal(t, 1, g.Score(core.SideRed))
	require.Equal(t, 0, g.Score(core.SideWhite))
	require.Equal(t, 1, g.PieceCount(core.SideWhite))
	require.True(t, g.board.IsEmpty(3, 3))
	require.Equal(t, core.SideWhite, g.Turn())
}

func TestKingCaptureScoresTwo(t *testing.T) {
	g := fromPieces(t, core.SideRed, DefaultConfig(), func(b *board.Board) {
		b.Place(2, 2, core.SideRed, false)
		b.Place(3, 3, core.SideWhite, true)
		b.Place(7, 7, core.SideWhite, false)
	})
	_, err := g.PlayNotation("c3xe5")
	require.NoError(t, err)
	require.Equal(t, 2, g.Score(core.SideRed))
}

func TestPromotion(t *testing.T) {
	t.Run("man becomes king on far row", func(t *testing.T) {
		g := fromPieces(t, core.SideRed, DefaultConfig(), func(b *board.Board) {
			b.Place(2, 6, core.SideRed, false)
			b.Place(7, 1, core.SideWhite, false)
		})
		result, err := g.PlayNotation("c7d8")
		require.NoError(t, err)
		require.True(t, result.Outcome.Promoted)
		p, _ := g.board.OccupantAt(3, 7)
		require.True(t, p.King)
	})

	t.Run("king landing on far row stays king", func(t *testing.T) {
		g := fromPieces(t, core.SideRed, DefaultConfig(), func(b *board.Board) {
			b.Place(2, 6, core.SideRed, true)
			b.Place(7, 1, core.SideWhite, false)
		})
		result, err := g.PlayNotation("c7d8")
		require.NoError(t, err)
		require.False(t, result.Outcome.Promoted)
		p, _ := g.board.OccupantAt(3, 7)
		require.True(t, p.King)
	})

	t.Run("white promotes on row 1", func(t *testing.T) {
		g := fromPieces(t, core.SideWhite, DefaultConfig(), func(b *board.Board) {
			b.Place(3, 1, core.SideWhite, false)
			b.Place(6, 6, core.SideRed, false)
		})
		result, err := g.PlayNotation("d2c1")
		require.NoError(t, err)
		require.True(t, result.Outcome.Promoted)
	})
}

func TestSelectionRules(t *testing.T) {
	g := New(DefaultConfig())

	require.False(t, g.Select(1, 5), "white piece on red's turn")
	require.False(t, g.Select(3, 3), "empty square")
	require.False(t, g.Select(-1, 9), "out of bounds")
	require.Equal(t, PhaseIdle, g.Phase())

	require.True(t, g.Select(0, 2))
	require.True(t, g.Select(2, 2), "reselect another friendly piece")
	sel, ok := g.Selected()
	require.True(t, ok)
	require.Equal(t, 2, sel.X)

	g.Deselect()
	require.Equal(t, PhaseIdle, g.Phase())
	require.Empty(t, g.Highlights())
}

func TestClick(t *testing.T) {
	g := New(DefaultConfig())

	require.Nil(t, g.Click(2, 2))
	require.Equal(t, PhaseSelected, g.Phase())

	// clicking the selected piece again puts it down
	require.Nil(t, g.Click(2, 2))
	require.Equal(t, PhaseIdle, g.Phase())

	require.Nil(t, g.Click(2, 2))
	require.Nil(t, g.Click(4, 2))
	sel, _ := g.Selected()
	require.Equal(t, 4, sel.X)

	// unreachable square is a no-op
	require.Nil(t, g.Click(7, 3))
	require.Equal(t, PhaseSelected, g.Phase())
	require.Equal(t, core.SideRed, g.Turn())

	result := g.Click(5, 3)
	require.NotNil(t, result)
	require.Equal(t, "e3-f4", result.Move.String())
	require.Equal(t, core.SideWhite, g.Turn())
}

// Rejected actions never change the side to move
func TestTurnUnchangedOnRejection(t *testing.T) {
	g := New(DefaultConfig())

	_, ok := g.Commit(1, 3)
	require.False(t, ok, "commit without selection")

	require.True(t, g.Select(0, 2))
	_, ok = g.Commit(0, 4)
	require.False(t, ok, "commit to non-destination")
	require.Equal(t, core.SideRed, g.Turn())

	_, err := g.PlayNotation("b6a5")
	require.ErrorIs(t, err, ErrNotYourTurn)
	_, err = g.PlayNotation("c3c4")
	require.ErrorIs(t, err, ErrIllegalMove)
	_, err = g.PlayNotation("c3")
	require.ErrorIs(t, err, rules.ErrBadNotation)
	require.Equal(t, core.SideRed, g.Turn())
	require.Equal(t, 0, g.MoveCount())
}

func TestTurnsAlternate(t *testing.T) {
	g := New(DefaultConfig())
	ai := &stubChooser{}
	for i := 0; i < 20 && g.State() == core.StateOngoing; i++ {
		mover := g.Turn()
		m, ok := ai.ChooseMove(g.board, mover, core.DifficultyEasy)
		require.True(t, ok)
		result, err := g.Play(m)
		require.NoError(t, err)
		require.Equal(t, mover, result.Side)
		require.Equal(t, mover.Opponent(), g.Turn())
	}
}

func TestGameOver(t *testing.T) {
	g := fromPieces(t, core.SideRed, DefaultConfig(), func(b *board.Board) {
		b.Place(2, 2, core.SideRed, false)
		b.Place(3, 3, core.SideWhite, false)
	})

	result, err := g.PlayNotation("c3e5")
	require.NoError(t, err)
	require.Equal(t, core.StateRedWins, result.State)
	require.Equal(t, PhaseGameOver, g.Phase())

	winner, ok := g.State().Winner()
	require.True(t, ok)
	require.Equal(t, core.SideRed, winner)

	require.False(t, g.Select(4, 4))
	_, err = g.PlayNotation("e5f6")
	require.ErrorIs(t, err, ErrGameOver)
}

func TestImmobilizedPositionIsOverOnLoad(t *testing.T) {
	g := fromPieces(t, core.SideRed, DefaultConfig(), func(b *board.Board) {
		b.Place(1, 7, core.SideRed, false)
		b.Place(4, 4, core.SideWhite, false)
	})
	require.Equal(t, core.StateWhiteWins, g.State())
}

func TestComputerTurn(t *testing.T) {
	cfg := Config{AIEnabled: true, AISide: core.SideWhite, Difficulty: core.DifficultyHard}
	g := New(cfg)
	ai := &stubChooser{}

	_, err := g.PlayComputer(ai)
	require.ErrorIs(t, err, ErrNotComputerTurn)
	require.Zero(t, ai.calls)

	_, err = g.PlayNotation("c3d4")
	require.NoError(t, err)
	require.True(t, g.ComputerToMove())

	require.False(t, g.Select(1, 5), "human input ignored on the computer's turn")

	result, err := g.PlayComputer(ai)
	require.NoError(t, err)
	require.True(t, result.Computer)
	require.Equal(t, core.SideWhite, result.Side)
	require.Equal(t, core.SideRed, g.Turn())
	require.Equal(t, 1, ai.calls)
}

// fixedChooser returns the same move whatever the position
type fixedChooser struct {
	move rules.Move
}

func (f fixedChooser) ChooseMove(*board.Board, core.Side, core.Difficulty) (rules.Move, bool) {
	return f.move, true
}

func TestComputerMoveMustBeLegal(t *testing.T) {
	cfg := Config{AIEnabled: true, AISide: core.SideWhite, Difficulty: core.DifficultyHard}
	g := New(cfg)
	_, err := g.PlayNotation("c3d4")
	require.NoError(t, err)

	red, ok := g.board.OccupantAt(0, 0)
	require.True(t, ok)
	white, ok := g.board.OccupantAt(1, 5)
	require.True(t, ok)

	tests := []struct {
		name string
		move rules.Move
	}{
		{"opponent piece", rules.Move{PieceID: red.ID, From: rules.Square{X: 0, Y: 0}, To: rules.Square{X: 4, Y: 4}}},
		{"unknown piece", rules.Move{PieceID: 99, From: rules.Square{X: 1, Y: 5}, To: rules.Square{X: 0, Y: 4}}},
		{"not generated", rules.Move{PieceID: white.ID, From: rules.Square{X: 1, Y: 5}, To: rules.Square{X: 1, Y: 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := g.CurrentPosition()
			_, err := g.PlayComputer(fixedChooser{move: tt.move})
			require.ErrorIs(t, err, ErrIllegalMove)
			require.Equal(t, before, g.CurrentPosition())
			require.Equal(t, core.SideWhite, g.Turn())
			require.Equal(t, 1, g.MoveCount())
		})
	}
}

func TestSetConfigClearsSelectionOnComputerTurn(t *testing.T) {
	g := New(DefaultConfig())
	require.True(t, g.Select(0, 2))
	g.SetConfig(Config{AIEnabled: true, AISide: core.SideRed, Difficulty: core.DifficultyEasy})
	require.Equal(t, PhaseIdle, g.Phase())
	require.True(t, g.ComputerToMove())
}

func TestUndoMoves(t *testing.T) {
	g := fromPieces(t, core.SideRed, DefaultConfig(), func(b *board.Board) {
		b.Place(2, 2, core.SideRed, false)
		b.Place(3, 3, core.SideWhite, false)
		b.Place(7, 7, core.SideWhite, false)
	})
	start := g.CurrentPosition()

	_, err := g.PlayNotation("c3e5")
	require.NoError(t, err)
	_, err = g.PlayNotation("h8g7")
	require.NoError(t, err)
	require.Equal(t, 2, g.MoveCount())

	require.Error(t, g.UndoMoves(0))
	require.ErrorIs(t, g.UndoMoves(3), ErrNothingToUndo)

	require.NoError(t, g.UndoMoves(1))
	require.Equal(t, core.SideWhite, g.Turn())
	require.Equal(t, 1, g.Score(core.SideRed))
	require.Nil(t, g.LastResult())

	require.NoError(t, g.UndoMoves(1))
	require.Equal(t, start, g.CurrentPosition())
	require.Equal(t, start, g.InitialPosition())
	require.Equal(t, 0, g.Score(core.SideRed))
	require.Equal(t, 2, g.PieceCount(core.SideWhite))
	require.Empty(t, g.Moves())
}

func TestUndoReopensFinishedGame(t *testing.T) {
	g := fromPieces(t, core.SideRed, DefaultConfig(), func(b *board.Board) {
		b.Place(2, 2, core.SideRed, false)
		b.Place(3, 3, core.SideWhite, false)
	})
	_, err := g.PlayNotation("c3e5")
	require.NoError(t, err)
	require.True(t, g.State().IsOver())

	require.NoError(t, g.UndoMoves(1))
	require.Equal(t, core.StateOngoing, g.State())
}

func TestOnChange(t *testing.T) {
	g := New(DefaultConfig())
	changes := 0
	g.OnChange(func() { changes++ })

	g.Select(3, 3) // empty square, no change
	require.Equal(t, 0, changes)

	g.Select(0, 2)
	g.Deselect()
	g.Deselect() // already idle
	require.Equal(t, 2, changes)

	g.Click(0, 2)
	g.Click(1, 3)
	require.Equal(t, 4, changes)

	g.Reset()
	require.Equal(t, 5, changes)
	require.Equal(t, board.StartingPosition, g.CurrentPosition())
}

func TestFromPositionRejectsGarbage(t *testing.T) {
	_, err := FromPosition("nonsense", DefaultConfig())
	require.Error(t, err)
}
