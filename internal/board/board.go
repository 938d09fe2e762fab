package board

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"checkers/internal/core"
)

const (
	Rows = 8
	Cols = 8

	// MaxPieces is the number of pieces each side starts with
	MaxPieces = 12
	homeRows  = 3
)

var (
	ErrOutOfBounds  = errors.New("square out of bounds")
	ErrNotPlayable  = errors.New("square not playable")
	ErrOccupied     = errors.New("square occupied")
	ErrUnknownPiece = errors.New("unknown piece")
)

// Board holds the square colors and the live pieces, indexed both by ID and by square
type Board struct {
	squares  [Cols][Rows]core.SquareColor
	occupant [Cols][Rows]PieceID
	pieces   map[PieceID]*Piece
	nextID   PieceID
}

// New returns a colored board with no pieces
func New() *Board {
	b := &Board{
		pieces: make(map[PieceID]*Piece),
		nextID: 1,
	}
	for x := 0; x < Cols; x++ {
		for y := 0; y < Rows; y++ {
			if (x+y)%2 == 0 {
				b.squares[x][y] = core.SquarePlayable
			} else {
				b.squares[x][y] = core.SquareNonPlayable
			}
		}
	}
	return b
}

// NewStandard returns the starting position: red on rows 0-2, white on rows 5-7
func NewStandard() *Board {
	b := New()
	b.generate()
	return b
}

func (b *Board) generate() {
	for y := 0; y < homeRows; y++ {
		for x := 0; x < Cols; x++ {
			if b.IsPlayable(x, y) && b.Count(core.SideRed) < MaxPieces {
				b.Place(x, y, core.SideRed, false)
			}
		}
	}
	for y := Rows - homeRows; y < Rows; y++ {
		for x := 0; x < Cols; x++ {
			if b.IsPlayable(x, y) && b.Count(core.SideWhite) < MaxPieces {
				b.Place(x, y, core.SideWhite, false)
			}
		}
	}
}

func InBounds(x, y int) bool {
	return x >= 0 && x < Cols && y >= 0 && y < Rows
}

func (b *Board) InBounds(x, y int) bool {
	return InBounds(x, y)
}

func (b *Board) IsPlayable(x, y int) bool {
	return b.SquareColor(x, y) == core.SquarePlayable
}

// SquareColor reports off-board coordinates as non-playable
func (b *Board) SquareColor(x, y int) core.SquareColor {
	if !InBounds(x, y) {
		return core.SquareNonPlayable
	}
	return b.squares[x][y]
}

// OccupantAt returns the piece standing on (x,y), if any
func (b *Board) OccupantAt(x, y int) (*Piece, bool) {
	if !InBounds(x, y) {
		return nil, false
	}
	id := b.occupant[x][y]
	if id == NoPiece {
		return nil, false
	}
	return b.pieces[id], true
}

func (b *Board) IsEmpty(x, y int) bool {
	return InBounds(x, y) && b.occupant[x][y] == NoPiece
}

func (b *Board) Piece(id PieceID) (*Piece, bool) {
	p, ok := b.pieces[id]
	return p, ok
}

// Pieces returns all pieces ordered by ID
func (b *Board) Pieces() []*Piece {
	out := make([]*Piece, 0, len(b.pieces))
	for _, p := range b.pieces {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PiecesOf returns the pieces of one side ordered by ID
func (b *Board) PiecesOf(side core.Side) []*Piece {
	var out []*Piece
	for _, p := range b.Pieces() {
		if p.Side == side {
			out = append(out, p)
		}
	}
	return out
}

func (b *Board) Count(side core.Side) int {
	n := 0
	for _, p := range b.pieces {
		if p.Side == side {
			n++
		}
	}
	return n
}

// Place puts a new piece on an empty playable square
func (b *Board) Place(x, y int, side core.Side, king bool) (*Piece, error) {
	if !InBounds(x, y) {
		return nil, fmt.Errorf("place at (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	if !b.IsPlayable(x, y) {
		return nil, fmt.Errorf("place at (%d,%d): %w", x, y, ErrNotPlayable)
	}
	if b.occupant[x][y] != NoPiece {
		return nil, fmt.Errorf("place at (%d,%d): %w", x, y, ErrOccupied)
	}
	p := &Piece{ID: b.nextID, X: x, Y: y, Side: side, King: king}
	b.nextID++
	b.pieces[p.ID] = p
	b.occupant[x][y] = p.ID
	return p, nil
}

// MovePiece relocates a piece to an empty playable square
func (b *Board) MovePiece(id PieceID, x, y int) error {
	p, ok := b.pieces[id]
	if !ok {
		return fmt.Errorf("move piece %d: %w", id, ErrUnknownPiece)
	}
	if !b.IsPlayable(x, y) {
		return fmt.Errorf("move piece %d to (%d,%d): %w", id, x, y, ErrNotPlayable)
	}
	if b.occupant[x][y] != NoPiece {
		return fmt.Errorf("move piece %d to (%d,%d): %w", id, x, y, ErrOccupied)
	}
	b.occupant[p.X][p.Y] = NoPiece
	p.X, p.Y = x, y
	b.occupant[x][y] = id
	return nil
}

// Remove takes a piece off the board permanently
func (b *Board) Remove(id PieceID) error {
	p, ok := b.pieces[id]
	if !ok {
		return fmt.Errorf("remove piece %d: %w", id, ErrUnknownPiece)
	}
	b.occupant[p.X][p.Y] = NoPiece
	delete(b.pieces, id)
	return nil
}

func (b *Board) Promote(id PieceID) error {
	p, ok := b.pieces[id]
	if !ok {
		return fmt.Errorf("promote piece %d: %w", id, ErrUnknownPiece)
	}
	p.King = true
	return nil
}

// Clone returns a deep copy; piece IDs are preserved
func (b *Board) Clone() *Board {
	c := &Board{
		squares:  b.squares,
		occupant: b.occupant,
		pieces:   make(map[PieceID]*Piece, len(b.pieces)),
		nextID:   b.nextID,
	}
	for id, p := range b.pieces {
		cp := *p
		c.pieces[id] = &cp
	}
	return c
}

// ToASCII renders the board with rank 8 on top
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for y := Rows - 1; y >= 0; y-- {
		sb.WriteString(fmt.Sprintf("%d ", y+1))
		for x := 0; x < Cols; x++ {
			if p, ok := b.OccupantAt(x, y); ok {
				sb.WriteString(fmt.Sprintf("%c ", p.Symbol()))
			} else if b.IsPlayable(x, y) {
				sb.WriteString(". ")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", y+1))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
