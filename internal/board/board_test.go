package board

import (
	"testing"

	"checkers/internal/core"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestPackingRoundTrip(t *testing.T) {
	for x := 0; x < Cols; x++ {
		for y := 0; y < Rows; y++ {
			for _, side := range []core.Side{core.SideRed, core.SideWhite} {
				for _, king := range []bool{false, true} {
					p := Piece{X: x, Y: y, Side: side, King: king}
					if got := Decode(Encode(p)); got != p {
						t.Fatalf("Decode(Encode(%+v)) = %+v", p, got)
					}
				}
			}
		}
	}
}

func TestEncodeLayout(t *testing.T) {
	require.Equal(t, Code(0x00), Encode(Piece{X: 0, Y: 0, Side: core.SideRed}))
	require.Equal(t, Code(0x3f), Encode(Piece{X: 7, Y: 7, Side: core.SideRed}))
	require.Equal(t, Code(0x40|0x1a), Encode(Piece{X: 2, Y: 3, Side: core.SideWhite}))
	require.Equal(t, Code(0xff), Encode(Piece{X: 7, Y: 7, Side: core.SideWhite, King: true}))
}

func TestNewStandard(t *testing.T) {
	b := NewStandard()

	t.Run("square colors", func(t *testing.T) {
		for x := 0; x < Cols; x++ {
			for y := 0; y < Rows; y++ {
				want := (x+y)%2 == 0
				if got := b.IsPlayable(x, y); got != want {
					t.Errorf("IsPlayable(%d,%d) = %v; want %v", x, y, got, want)
				}
			}
		}
	})

	t.Run("piece counts", func(t *testing.T) {
		require.Equal(t, MaxPieces, b.Count(core.SideRed))
		require.Equal(t, MaxPieces, b.Count(core.SideWhite))
	})

	t.Run("home rows", func(t *testing.T) {
		for _, p := range b.Pieces() {
			require.True(t, b.IsPlayable(p.X, p.Y), "piece %d on non-playable square", p.ID)
			require.False(t, p.King)
			switch p.Side {
			case core.SideRed:
				require.Less(t, p.Y, 3)
			case core.SideWhite:
				require.GreaterOrEqual(t, p.Y, 5)
			default:
				t.Fatalf("piece %d has invalid side", p.ID)
			}
		}
	})

	t.Run("red occupies a1 c1 e1 g1", func(t *testing.T) {
		for _, x := range []int{0, 2, 4, 6} {
			p, ok := b.OccupantAt(x, 0)
			require.True(t, ok)
			require.Equal(t, core.SideRed, p.Side)
		}
	})
}

func TestSquareColor(t *testing.T) {
	b := New()
	tests := []struct {
		x, y int
		want core.SquareColor
	}{
		{0, 0, core.SquarePlayable},
		{1, 0, core.SquareNonPlayable},
		{7, 7, core.SquarePlayable},
		{-1, 1, core.SquareNonPlayable},
		{8, 0, core.SquareNonPlayable},
		{2, 8, core.SquareNonPlayable},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, b.SquareColor(tt.x, tt.y), "(%d,%d)", tt.x, tt.y)
		require.Equal(t, tt.want == core.SquarePlayable, b.IsPlayable(tt.x, tt.y), "(%d,%d)", tt.x, tt.y)
	}
}

func TestOccupantAtOutOfBounds(t *testing.T) {
	b := NewStandard()
	for _, sq := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}} {
		_, ok := b.OccupantAt(sq[0], sq[1])
		require.False(t, ok)
		require.False(t, b.InBounds(sq[0], sq[1]))
	}
}

func TestPlaceRejectsInvalidSquares(t *testing.T) {
	b := New()
	_, err := b.Place(1, 0, core.SideRed, false)
	require.ErrorIs(t, err, ErrNotPlayable)

	_, err = b.Place(8, 8, core.SideRed, false)
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, err = b.Place(2, 2, core.SideRed, false)
	require.NoError(t, err)
	_, err = b.Place(2, 2, core.SideWhite, false)
	require.ErrorIs(t, err, ErrOccupied)
}

func TestRemoveKeepsOtherIDsStable(t *testing.T) {
	b := New()
	a, _ := b.Place(0, 0, core.SideRed, false)
	mid, _ := b.Place(2, 2, core.SideWhite, false)
	c, _ := b.Place(4, 4, core.SideRed, false)

	require.NoError(t, b.Remove(mid.ID))

	got, ok := b.Piece(c.ID)
	require.True(t, ok)
	require.Equal(t, 4, got.X)
	got, ok = b.Piece(a.ID)
	require.True(t, ok)
	require.Equal(t, 0, got.X)
	require.True(t, b.IsEmpty(2, 2))
	require.ErrorIs(t, b.Remove(mid.ID), ErrUnknownPiece)
}

func TestClone(t *testing.T) {
	b := NewStandard()
	c := b.Clone()
	p, _ := c.OccupantAt(0, 2)
	require.NoError(t, c.MovePiece(p.ID, 1, 3))

	_, ok := b.OccupantAt(1, 3)
	require.False(t, ok, "clone mutation leaked into original")
	orig, _ := b.Piece(p.ID)
	require.Equal(t, 0, orig.X)
}

func TestPositionRoundTrip(t *testing.T) {
	b := New()
	b.Place(0, 0, core.SideRed, false)
	b.Place(3, 5, core.SideWhite, true)
	b.Place(6, 6, core.SideRed, true)

	pos := FormatPosition(b, core.SideWhite)
	require.Equal(t, "w:00ebb6", pos)

	parsed, turn, err := ParsePosition(pos)
	require.NoError(t, err)
	require.Equal(t, core.SideWhite, turn)

	flatten := func(b *Board) []Piece {
		var out []Piece
		for _, p := range b.Pieces() {
			out = append(out, *p)
		}
		return out
	}
	if diff := cmp.Diff(flatten(b), flatten(parsed)); diff != "" {
		t.Errorf("pieces mismatch (-want +got):\n%s", diff)
	}
}

func TestStartingPosition(t *testing.T) {
	b, turn, err := ParsePosition(StartingPosition)
	require.NoError(t, err)
	require.Equal(t, core.SideRed, turn)
	require.Equal(t, NewStandard().ToASCII(), b.ToASCII())
}

func TestParsePositionErrors(t *testing.T) {
	tests := []struct {
		name string
		pos  string
	}{
		{"missing separator", "r0012"},
		{"bad turn", "x:00"},
		{"odd digits", "r:001"},
		{"not hex", "r:zz"},
		{"non-playable square", "r:01"},
		{"duplicate square", "r:0000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParsePosition(tt.pos)
			require.Error(t, err)
		})
	}
}

func TestToASCII(t *testing.T) {
	b := New()
	b.Place(0, 0, core.SideRed, false)
	b.Place(7, 7, core.SideWhite, true)
	ascii := b.ToASCII()
	require.Contains(t, ascii, "8   .   .   .   W  8")
	require.Contains(t, ascii, "1 r   .   .   .    1")
}
