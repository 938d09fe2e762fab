// Package rules generates legal checkers moves, applies them to a board,
// and decides when a game is over.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"checkers/internal/board"
	"checkers/internal/core"
)

var (
	ErrBadNotation = errors.New("bad move notation")
	ErrNoPiece     = errors.New("no piece on origin square")
	ErrIllegalMove = errors.New("illegal move")
)

type Square struct {
	X int
	Y int
}

// String returns algebraic form: file a-h for x, rank 1-8 for y
func (s Square) String() string {
	return fmt.Sprintf("%c%d", 'a'+s.X, s.Y+1)
}

func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Square{}, fmt.Errorf("%w: square %q", ErrBadNotation, s)
	}
	return Square{X: int(s[0] - 'a'), Y: int(s[1] - '1')}, nil
}

// Move is a candidate move for one piece. Captured is NoPiece for a simple move.
type Move struct {
	PieceID      board.PieceID
	From         Square
	To           Square
	Captured     board.PieceID
	CapturedKing bool
}

func (m Move) IsCapture() bool {
	return m.Captured != board.NoPiece
}

func (m Move) String() string {
	sep := "-"
	if m.IsCapture() {
		sep = "x"
	}
	return m.From.String() + sep + m.To.String()
}

type direction struct {
	dx      int
	forward bool
}

// Check order: forward-right, forward-left, backward-right, backward-left
var directions = []direction{
	{dx: 1, forward: true},
	{dx: -1, forward: true},
	{dx: 1, forward: false},
	{dx: -1, forward: false},
}

// Generate returns every legal destination of a piece in direction-check order.
// Backward directions are only considered for kings.
func Generate(b *board.Board, p *board.Piece) []Move {
	moves := []Move{}
	fwd := p.Side.Forward()

	for _, d := range directions {
		if !d.forward && !p.King {
			continue
		}
		dy := fwd
		if !d.forward {
			dy = -fwd
		}

		nx, ny := p.X+d.dx, p.Y+dy
		if !b.IsPlayable(nx, ny) {
			continue
		}

		from := Square{X: p.X, Y: p.Y}
		adj, occupied := b.OccupantAt(nx, ny)
		if !occupied {
			moves = append(moves, Move{PieceID: p.ID, From: from, To: Square{X: nx, Y: ny}})
			continue
		}
		if adj.Side == p.Side {
			continue
		}

		jx, jy := nx+d.dx, ny+dy
		if b.IsPlayable(jx, jy) && b.IsEmpty(jx, jy) {
			moves = append(moves, Move{
				PieceID:      p.ID,
				From:         from,
				To:           Square{X: jx, Y: jy},
				Captured:     adj.ID,
				CapturedKing: adj.King,
			})
		}
	}

	return moves
}

// Captures filters the capture moves out of a move list
func Captures(moves []Move) []Move {
	var out []Move
	for _, m := range moves {
		if m.IsCapture() {
			out = append(out, m)
		}
	}
	return out
}

// AllMoves generates moves for every piece of a side, pieces in ID order
func AllMoves(b *board.Board, side core.Side) []Move {
	var out []Move
	for _, p := range b.PiecesOf(side) {
		out = append(out, Generate(b, p)...)
	}
	return out
}

func HasMoves(b *board.Board, side core.Side) bool {
	for _, p := range b.PiecesOf(side) {
		if len(Generate(b, p)) > 0 {
			return true
		}
	}
	return false
}

// Outcome describes what applying a move changed
type Outcome struct {
	Captured     bool
	CapturedKing bool
	Promoted     bool
	Points       int
}

// Apply executes a move produced by Generate on the same board
func Apply(b *board.Board, m Move) (Outcome, error) {
	var out Outcome

	p, ok := b.Piece(m.PieceID)
	if !ok {
		return out, fmt.Errorf("apply %s: %w", m, ErrNoPiece)
	}

	if m.IsCapture() {
		captured, ok := b.Piece(m.Captured)
		if !ok {
			return out, fmt.Errorf("apply %s: captured piece gone: %w", m, ErrIllegalMove)
		}
		out.Captured = true
		out.CapturedKing = captured.King
		out.Points = 1
		if captured.King {
			out.Points = 2
		}
	}

	// the destination is checked before anything leaves the board
	if err := b.MovePiece(p.ID, m.To.X, m.To.Y); err != nil {
		return Outcome{}, fmt.Errorf("apply %s: %w", m, err)
	}

	if out.Captured {
		if err := b.Remove(m.Captured); err != nil {
			return Outcome{}, fmt.Errorf("apply %s: %w", m, err)
		}
	}

	if !p.King && m.To.Y == p.Side.PromotionRow() {
		if err := b.Promote(p.ID); err != nil {
			return Outcome{}, fmt.Errorf("apply %s: %w", m, err)
		}
		out.Promoted = true
	}

	return out, nil
}

// ParseMove resolves "c3d4", "c3-d4" or "c3xe5" against the legal moves of the piece on the origin square
func ParseMove(b *board.Board, notation string) (Move, error) {
	s := strings.ToLower(strings.TrimSpace(notation))
	if len(s) == 5 {
		if s[2] != '-' && s[2] != 'x' {
			return Move{}, fmt.Errorf("%w: %q", ErrBadNotation, notation)
		}
		s = s[:2] + s[3:]
	}
	if len(s) != 4 {
		return Move{}, fmt.Errorf("%w: %q", ErrBadNotation, notation)
	}

	from, err := ParseSquare(s[:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(s[2:])
	if err != nil {
		return Move{}, err
	}

	p, ok := b.OccupantAt(from.X, from.Y)
	if !ok {
		return Move{}, fmt.Errorf("%s: %w", from, ErrNoPiece)
	}

	for _, m := range Generate(b, p) {
		if m.To == to {
			return m, nil
		}
	}
	return Move{}, fmt.Errorf("%s-%s: %w", from, to, ErrIllegalMove)
}
