package processor

import (
	"fmt"

	"checkers/internal/core"
)

// ComputerMove in a move request asks the computer side to play
const ComputerMove = "cccc"

// Op selects what Execute does with a command
type Op int

const (
	OpCreate Op = iota
	OpSetPlayers
	OpFetch
	OpDelete
	OpPlay
	OpClick
	OpUndo
	OpBoard
)

var opNames = [...]string{"create", "set-players", "fetch", "delete", "play", "click", "undo", "board"}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("op(%d)", int(o))
	}
	return opNames[o]
}

// Command addresses one game, except OpCreate which has no ID yet.
// Args holds the validated request body for the op, if it takes one.
type Command struct {
	Op     Op
	GameID string
	Args   any
}

// Result is what Execute hands back to a transport
type Result struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func on(gameID string, op Op, args any) Command {
	return Command{Op: op, GameID: gameID, Args: args}
}

func Create(req core.CreateGameRequest) Command { return on("", OpCreate, req) }

func SetPlayers(gameID string, req core.ConfigurePlayersRequest) Command {
	return on(gameID, OpSetPlayers, req)
}

func Fetch(gameID string) Command { return on(gameID, OpFetch, nil) }

func Play(gameID string, req core.MoveRequest) Command { return on(gameID, OpPlay, req) }

func Click(gameID string, req core.ClickRequest) Command { return on(gameID, OpClick, req) }

func Undo(gameID string, req core.UndoRequest) Command { return on(gameID, OpUndo, req) }

func Delete(gameID string) Command { return on(gameID, OpDelete, nil) }

func Board(gameID string) Command { return on(gameID, OpBoard, nil) }
