// Package transport holds the contracts between front ends and the game core.
package transport

import (
	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/game"
	"checkers/internal/rules"
)

// View abstracts display/output operations
type View interface {
	DisplayBoard(b *board.Board, selected *board.Piece, targets []rules.Move)
	ShowMessage(msg string)
	ShowError(err error)
	ShowGameHistory(g *game.Game)
	ShowMove(result *game.MoveResult)
	ShowGameOver(state core.State, score game.Score)
	ShowPrompt(prompt string)
}

// Render draws the board of g with its current selection
func Render(v View, g *game.Game) {
	var selected *board.Piece
	if p, ok := g.Selected(); ok {
		selected = &p
	}
	v.DisplayBoard(g.Board(), selected, g.Highlights())
}
