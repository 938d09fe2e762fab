package board

import (
	"encoding/hex"
	"fmt"
	"strings"

	"checkers/internal/core"
)

// StartingPosition is the position code of the standard start with red to move
var StartingPosition = FormatPosition(NewStandard(), core.SideRed)

// FormatPosition encodes the side to move and every piece as "<turn>:<hex codes>",
// two hex digits per packed piece in ID order.
func FormatPosition(b *Board, turn core.Side) string {
	pieces := b.Pieces()
	codes := make([]byte, len(pieces))
	for i, p := range pieces {
		codes[i] = byte(Encode(*p))
	}
	return fmt.Sprintf("%c:%s", turn.Letter(), hex.EncodeToString(codes))
}

// ParsePosition rebuilds a board from a position code. Piece IDs are assigned in code order.
func ParsePosition(pos string) (*Board, core.Side, error) {
	turnPart, piecePart, ok := strings.Cut(strings.TrimSpace(pos), ":")
	if !ok {
		return nil, 0, fmt.Errorf("invalid position: missing ':' separator")
	}

	if len(turnPart) != 1 {
		return nil, 0, fmt.Errorf("invalid position: turn must be 'r' or 'w'")
	}
	var turn core.Side
	switch turnPart {
	case "r":
		turn = core.SideRed
	case "w":
		turn = core.SideWhite
	default:
		return nil, 0, fmt.Errorf("invalid position: turn must be 'r' or 'w'")
	}

	if len(piecePart)%2 != 0 {
		return nil, 0, fmt.Errorf("invalid position: odd number of hex digits")
	}
	codes, err := hex.DecodeString(piecePart)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid position: %w", err)
	}

	b := New()
	for i, c := range codes {
		p := Decode(Code(c))
		if b.Count(p.Side) >= MaxPieces {
			return nil, 0, fmt.Errorf("invalid position: more than %d %s pieces", MaxPieces, p.Side)
		}
		if _, err := b.Place(p.X, p.Y, p.Side, p.King); err != nil {
			return nil, 0, fmt.Errorf("invalid position: piece %d: %w", i+1, err)
		}
	}

	return b, turn, nil
}
