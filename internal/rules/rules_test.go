package rules

import (
	"testing"

	"checkers/internal/board"
	"checkers/internal/core"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func place(t *testing.T, b *board.Board, x, y int, side core.Side, king bool) *board.Piece {
	t.Helper()
	p, err := b.Place(x, y, side, king)
	require.NoError(t, err)
	return p
}

func destinations(moves []Move) []string {
	out := []string{}
	for _, m := range moves {
		out = append(out, m.String())
	}
	return out
}

func TestGenerateSimpleMoves(t *testing.T) {
	tests := []struct {
		name    string
		x, y    int
		side    core.Side
		king    bool
		blocker *Square
		want    []string
	}{
		{"red man center", 2, 2, core.SideRed, false, nil, []string{"c3-d4", "c3-b4"}},
		{"red man left edge", 0, 2, core.SideRed, false, nil, []string{"a3-b4"}},
		{"white man center", 3, 5, core.SideWhite, false, nil, []string{"d6-e5", "d6-c5"}},
		{"red man on far row", 1, 7, core.SideRed, false, nil, []string{}},
		{"red king center", 3, 3, core.SideRed, true, nil, []string{"d4-e5", "d4-c5", "d4-e3", "d4-c3"}},
		{"blocked by friend", 2, 2, core.SideRed, false, &Square{X: 3, Y: 3}, []string{"c3-b4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := board.New()
			p := place(t, b, tt.x, tt.y, tt.side, tt.king)
			if tt.blocker != nil {
				place(t, b, tt.blocker.X, tt.blocker.Y, tt.side, false)
			}
			if diff := cmp.Diff(tt.want, destinations(Generate(b, p))); diff != "" {
				t.Errorf("Generate mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// A simple destination (x±1, y+1) is legal iff in bounds, playable and empty
func TestSimpleMoveLegalityExhaustive(t *testing.T) {
	for x := 0; x < board.Cols; x++ {
		for y := 0; y < board.Rows; y++ {
			b := board.New()
			if !b.IsPlayable(x, y) {
				continue
			}
			p := place(t, b, x, y, core.SideRed, false)
			got := map[Square]bool{}
			for _, m := range Generate(b, p) {
				got[m.To] = true
			}
			for _, dx := range []int{-1, 1} {
				to := Square{X: x + dx, Y: y + 1}
				want := b.IsPlayable(to.X, to.Y) && b.IsEmpty(to.X, to.Y)
				require.Equal(t, want, got[to], "from (%d,%d) to %v", x, y, to)
			}
		}
	}
}

func TestGenerateCaptures(t *testing.T) {
	t.Run("forward capture", func(t *testing.T) {
		b := board.New()
		p := place(t, b, 2, 2, core.SideRed, false)
		enemy := place(t, b, 3, 3, core.SideWhite, false)

		moves := Generate(b, p)
		require.Equal(t, []string{"c3xe5", "c3-b4"}, destinations(moves))
		require.Equal(t, enemy.ID, moves[0].Captured)
		require.Len(t, Captures(moves), 1)
	})

	t.Run("landing occupied", func(t *testing.T) {
		b := board.New()
		p := place(t, b, 2, 2, core.SideRed, false)
		place(t, b, 3, 3, core.SideWhite, false)
		place(t, b, 4, 4, core.SideWhite, false)
		require.Equal(t, []string{"c3-b4"}, destinations(Generate(b, p)))
	})

	t.Run("landing off board", func(t *testing.T) {
		b := board.New()
		p := place(t, b, 6, 6, core.SideRed, false)
		place(t, b, 7, 7, core.SideWhite, false)
		require.Equal(t, []string{"g7-f8"}, destinations(Generate(b, p)))
	})

	t.Run("man cannot capture backward", func(t *testing.T) {
		b := board.New()
		p := place(t, b, 4, 4, core.SideRed, false)
		place(t, b, 3, 3, core.SideWhite, false)
		require.Empty(t, Captures(Generate(b, p)))
	})

	t.Run("king captures backward", func(t *testing.T) {
		b := board.New()
		p := place(t, b, 4, 4, core.SideRed, true)
		enemy := place(t, b, 3, 3, core.SideWhite, true)
		caps := Captures(Generate(b, p))
		require.Len(t, caps, 1)
		require.Equal(t, Square{X: 2, Y: 2}, caps[0].To)
		require.True(t, caps[0].CapturedKing)
		require.Equal(t, enemy.ID, caps[0].Captured)
	})

	t.Run("captures are optional", func(t *testing.T) {
		b := board.NewStandard()
		// move a white man next to red so a capture exists alongside simple moves
		w, _ := b.OccupantAt(1, 5)
		require.NoError(t, b.MovePiece(w.ID, 3, 3))
		all := AllMoves(b, core.SideRed)
		require.NotEmpty(t, Captures(all))
		require.Greater(t, len(all), len(Captures(all)))
	})
}

func TestApplyCapture(t *testing.T) {
	b := board.New()
	p := place(t, b, 2, 2, core.SideRed, false)
	enemy := place(t, b, 3, 3, core.SideWhite, false)
	bystander := place(t, b, 7, 7, core.SideWhite, false)

	m, err := ParseMove(b, "c3xe5")
	require.NoError(t, err)

	out, err := Apply(b, m)
	require.NoError(t, err)
	require.Equal(t, Outcome{Captured: true, Points: 1}, out)

	_, ok := b.Piece(enemy.ID)
	require.False(t, ok)
	_, ok = b.Piece(bystander.ID)
	require.True(t, ok)
	require.Equal(t, 1, b.Count(core.SideWhite))

	moved, _ := b.OccupantAt(4, 4)
	require.Equal(t, p.ID, moved.ID)
}

func TestApplyRejectsBlockedCaptureUnchanged(t *testing.T) {
	b := board.New()
	p := place(t, b, 2, 2, core.SideRed, false)
	enemy := place(t, b, 3, 3, core.SideWhite, false)

	m, err := ParseMove(b, "c3xe5")
	require.NoError(t, err)

	// landing square filled after the move was generated
	place(t, b, 4, 4, core.SideWhite, false)
	before := board.FormatPosition(b, core.SideRed)

	_, err = Apply(b, m)
	require.ErrorIs(t, err, board.ErrOccupied)
	require.Equal(t, before, board.FormatPosition(b, core.SideRed))

	_, ok := b.Piece(enemy.ID)
	require.True(t, ok, "captured piece must stay when the move fails")
	still, _ := b.OccupantAt(2, 2)
	require.Equal(t, p.ID, still.ID)
}

func TestApplyKingCaptureScoresDouble(t *testing.T) {
	b := board.New()
	place(t, b, 2, 2, core.SideRed, false)
	place(t, b, 3, 3, core.SideWhite, true)
	place(t, b, 7, 7, core.SideWhite, false)

	m, err := ParseMove(b, "c3e5")
	require.NoError(t, err)
	out, err := Apply(b, m)
	require.NoError(t, err)
	require.Equal(t, 2, out.Points)
	require.True(t, out.CapturedKing)
}

func TestApplyPromotion(t *testing.T) {
	tests := []struct {
		name         string
		from, to     string
		side         core.Side
		king         bool
		wantPromoted bool
	}{
		{"red man reaches row 8", "c7", "d8", core.SideRed, false, true},
		{"white man reaches row 1", "d2", "c1", core.SideWhite, false, true},
		{"red king does not re-promote", "c7", "d8", core.SideRed, true, false},
		{"red man mid board", "c3", "d4", core.SideRed, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := board.New()
			from, _ := ParseSquare(tt.from)
			p := place(t, b, from.X, from.Y, tt.side, tt.king)

			m, err := ParseMove(b, tt.from+tt.to)
			require.NoError(t, err)
			out, err := Apply(b, m)
			require.NoError(t, err)
			require.Equal(t, tt.wantPromoted, out.Promoted)

			got, _ := b.Piece(p.ID)
			require.Equal(t, tt.king || tt.wantPromoted, got.King)
		})
	}
}

func TestParseMoveErrors(t *testing.T) {
	b := board.NewStandard()
	tests := []struct {
		notation string
		want     error
	}{
		{"c3", ErrBadNotation},
		{"c3?d4", ErrBadNotation},
		{"z3d4", ErrBadNotation},
		{"d4e5", ErrNoPiece},
		{"c3c4", ErrIllegalMove},
		{"a1b2", ErrIllegalMove},
	}
	for _, tt := range tests {
		t.Run(tt.notation, func(t *testing.T) {
			_, err := ParseMove(b, tt.notation)
			require.ErrorIs(t, err, tt.want)
		})
	}

	m, err := ParseMove(b, "A3-B4")
	require.NoError(t, err)
	require.Equal(t, "a3-b4", m.String())
}

func TestEvaluate(t *testing.T) {
	t.Run("starting position ongoing", func(t *testing.T) {
		require.Equal(t, core.StateOngoing, Evaluate(board.NewStandard()))
	})

	t.Run("attrition", func(t *testing.T) {
		b := board.New()
		place(t, b, 2, 2, core.SideRed, false)
		require.Equal(t, core.StateRedWins, Evaluate(b))

		b = board.New()
		place(t, b, 2, 2, core.SideWhite, false)
		require.Equal(t, core.StateWhiteWins, Evaluate(b))
	})

	t.Run("red immobilized", func(t *testing.T) {
		b := board.New()
		// red man on a8 cannot move forward off the board
		place(t, b, 1, 7, core.SideRed, false)
		place(t, b, 4, 4, core.SideWhite, false)
		require.False(t, HasMoves(b, core.SideRed))
		require.Equal(t, core.StateWhiteWins, Evaluate(b))
	})

	t.Run("white immobilized", func(t *testing.T) {
		b := board.New()
		place(t, b, 0, 0, core.SideWhite, false)
		place(t, b, 4, 4, core.SideRed, false)
		require.Equal(t, core.StateRedWins, Evaluate(b))
	})

	t.Run("both immobilized", func(t *testing.T) {
		b := board.New()
		place(t, b, 1, 7, core.SideRed, false)
		place(t, b, 0, 0, core.SideWhite, false)
		require.Equal(t, core.StateDraw, Evaluate(b))
	})
}
