package rules

import (
	"checkers/internal/board"
	"checkers/internal/core"
)

// Evaluate decides whether the game is over. A side loses when it has no pieces
// or no legal moves while its opponent can still move; if neither side can move
// the game is drawn.
func Evaluate(b *board.Board) core.State {
	if b.Count(core.SideRed) == 0 {
		return core.StateWhiteWins
	}
	if b.Count(core.SideWhite) == 0 {
		return core.StateRedWins
	}

	redCanMove := HasMoves(b, core.SideRed)
	whiteCanMove := HasMoves(b, core.SideWhite)

	switch {
	case !redCanMove && !whiteCanMove:
		return core.StateDraw
	case !redCanMove:
		return core.StateWhiteWins
	case !whiteCanMove:
		return core.StateRedWins
	default:
		return core.StateOngoing
	}
}
