package game

import "errors"

var (
	ErrGameOver        = errors.New("game is over")
	ErrNotYourTurn     = errors.New("not this side's turn")
	ErrIllegalMove     = errors.New("illegal move")
	ErrNotComputerTurn = errors.New("not the computer's turn")
	ErrNoLegalMoves    = errors.New("no legal moves")
	ErrNothingToUndo   = errors.New("nothing to undo")
)
