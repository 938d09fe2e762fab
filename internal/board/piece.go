package board

import "checkers/internal/core"

// PieceID identifies a piece for the lifetime of a board; IDs are never reused
type PieceID uint16

// NoPiece is the zero PieceID, used for empty squares and simple moves
const NoPiece PieceID = 0

type Piece struct {
	ID   PieceID
	X    int
	Y    int
	Side core.Side
	King bool
}

// Valid reports whether the piece fits the packed representation
func (p Piece) Valid() bool {
	return p.X >= 0 && p.X < Cols && p.Y >= 0 && p.Y < Rows && p.Side.Valid()
}

// Code is a piece packed into one byte: x in bits 0-2, y in bits 3-5,
// side in bit 6 (0 red, 1 white) and the king flag in bit 7.
// Out-of-range input produces an unspecified code; check Valid first.
type Code uint8

const (
	coordMask = 0x07
	yShift    = 3
	sideBit   = 1 << 6
	kingBit   = 1 << 7
)

func Encode(p Piece) Code {
	c := Code(p.X&coordMask) | Code(p.Y&coordMask)<<yShift
	if p.Side == core.SideWhite {
		c |= sideBit
	}
	if p.King {
		c |= kingBit
	}
	return c
}

// Decode unpacks a code. The returned piece has no ID.
func Decode(c Code) Piece {
	p := Piece{
		X:    int(c & coordMask),
		Y:    int(c>>yShift) & coordMask,
		Side: core.SideRed,
		King: c&kingBit != 0,
	}
	if c&sideBit != 0 {
		p.Side = core.SideWhite
	}
	return p
}

// Symbol is the ASCII glyph of the piece: r/w for men, R/W for kings
func (p Piece) Symbol() byte {
	sym := p.Side.Letter()
	if p.King {
		sym -= 'a' - 'A'
	}
	return sym
}
