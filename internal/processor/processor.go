// Package processor executes API commands against the game service. It is the
// only place that decides when the computer side replies.
package processor

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/game"
	"checkers/internal/rules"
	"checkers/internal/service"

	"github.com/rs/zerolog/log"
)

// Processor handles command execution and coordinates between service and AI
type Processor struct {
	svc *service.Service
	ai  game.Chooser
}

func New(svc *service.Service, ai game.Chooser) *Processor {
	return &Processor{
		svc: svc,
		ai:  ai,
	}
}

func (p *Processor) Execute(cmd Command) Result {
	log.Trace().Str("op", cmd.Op.String()).Str("game", cmd.GameID).Msg("execute")

	switch cmd.Op {
	case OpCreate:
		return p.handleCreateGame(cmd)
	case OpSetPlayers:
		return p.handleConfigurePlayers(cmd)
	case OpFetch:
		return p.handleGetGame(cmd)
	case OpPlay:
		return p.handleMakeMove(cmd)
	case OpClick:
		return p.handleClick(cmd)
	case OpUndo:
		return p.handleUndoMove(cmd)
	case OpDelete:
		return p.handleDeleteGame(cmd)
	case OpBoard:
		return p.handleGetBoard(cmd)
	default:
		return p.errorResponse(fmt.Sprintf("unknown command %s", cmd.Op), core.ErrInvalidRequest)
	}
}

// isPositionSafe rejects control characters before the position reaches the parser
func isPositionSafe(pos string) bool {
	for _, r := range pos {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// ConfigFrom converts an API AI config into a game config, filling defaults
func ConfigFrom(ai core.AIConfig) (game.Config, error) {
	cfg := game.DefaultConfig()
	cfg.AIEnabled = ai.Enabled

	if ai.Side != "" {
		side, err := core.ParseSide(ai.Side)
		if err != nil {
			return cfg, err
		}
		cfg.AISide = side
	}
	if ai.Difficulty != "" {
		d, err := core.ParseDifficulty(ai.Difficulty)
		if err != nil {
			return cfg, err
		}
		cfg.Difficulty = d
	}
	return cfg, nil
}

// handleCreateGame creates a new game and lets the computer open if it plays red
func (p *Processor) handleCreateGame(cmd Command) Result {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	cfg, err := ConfigFrom(args.AI)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	position := board.StartingPosition
	if args.Position != "" {
		if !isPositionSafe(args.Position) {
			return p.errorResponse("invalid position characters", core.ErrInvalidPosition)
		}
		position = args.Position
	}

	g, err := game.FromPosition(position, cfg)
	if err != nil {
		return Result{
			Success: false,
			Error: &core.ErrorResponse{
				Error:   "invalid position",
				Code:    core.ErrInvalidPosition,
				Details: err.Error(),
			},
		}
	}

	gameID := p.svc.GenerateGameID()
	if err := p.svc.CreateGame(gameID, g); err != nil {
		return p.errorResponse(fmt.Sprintf("failed to create game: %v", err), core.ErrInternalError)
	}

	return p.update(gameID, func(g *game.Game) error {
		return p.replyIfComputer(gameID, g)
	})
}

// handleConfigurePlayers changes AI settings between turns
func (p *Processor) handleConfigurePlayers(cmd Command) Result {
	args, ok := cmd.Args.(core.ConfigurePlayersRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	cfg, err := ConfigFrom(args.AI)
	if err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	return p.update(cmd.GameID, func(g *game.Game) error {
		g.SetConfig(cfg)
		return p.replyIfComputer(cmd.GameID, g)
	})
}

func (p *Processor) handleGetGame(cmd Command) Result {
	var response core.GameResponse
	err := p.svc.View(cmd.GameID, func(g *game.Game) error {
		response = BuildGameResponse(cmd.GameID, g)
		return nil
	})
	if err != nil {
		return p.gameError(err)
	}

	return Result{
		Success: true,
		Data:    response,
	}
}

// handleMakeMove plays a human move, or the computer's move for "cccc"
func (p *Processor) handleMakeMove(cmd Command) Result {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	move := strings.ToLower(strings.TrimSpace(args.Move))

	if move == ComputerMove {
		return p.update(cmd.GameID, func(g *game.Game) error {
			if g.State().IsOver() {
				return game.ErrGameOver
			}
			if !g.ComputerToMove() {
				return game.ErrNotComputerTurn
			}
			return p.replyIfComputer(cmd.GameID, g)
		})
	}

	return p.update(cmd.GameID, func(g *game.Game) error {
		if g.ComputerToMove() {
			return errHumanOnComputerTurn
		}
		result, err := g.PlayNotation(move)
		if err != nil {
			return err
		}
		log.Debug().Str("game", cmd.GameID).Str("move", result.Move.String()).Msg("human move")
		return p.replyIfComputer(cmd.GameID, g)
	})
}

// handleClick feeds a board click into the selection state machine.
// Clicks that change nothing still succeed.
func (p *Processor) handleClick(cmd Command) Result {
	args, ok := cmd.Args.(core.ClickRequest)
	if !ok || args.X == nil || args.Y == nil {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	return p.update(cmd.GameID, func(g *game.Game) error {
		if g.State().IsOver() {
			return game.ErrGameOver
		}
		if g.ComputerToMove() {
			return errHumanOnComputerTurn
		}
		if result := g.Click(*args.X, *args.Y); result != nil {
			return p.replyIfComputer(cmd.GameID, g)
		}
		return nil
	})
}

func (p *Processor) handleUndoMove(cmd Command) Result {
	args, ok := cmd.Args.(core.UndoRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	return p.update(cmd.GameID, func(g *game.Game) error {
		return g.UndoMoves(args.Count)
	})
}

func (p *Processor) handleDeleteGame(cmd Command) Result {
	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.gameError(err)
	}

	return Result{
		Success: true,
	}
}

// handleGetBoard returns board visualization
func (p *Processor) handleGetBoard(cmd Command) Result {
	var response core.BoardResponse
	err := p.svc.View(cmd.GameID, func(g *game.Game) error {
		response = core.BoardResponse{
			Position: g.CurrentPosition(),
			Board:    g.Board().ToASCII(),
		}
		return nil
	})
	if err != nil {
		return p.gameError(err)
	}

	return Result{
		Success: true,
		Data:    response,
	}
}

// replyIfComputer plays the computer's move when it is the computer's turn
func (p *Processor) replyIfComputer(gameID string, g *game.Game) error {
	if !g.ComputerToMove() {
		return nil
	}
	result, err := g.PlayComputer(p.ai)
	if err != nil {
		return err
	}
	log.Debug().
		Str("game", gameID).
		Str("move", result.Move.String()).
		Str("state", result.State.String()).
		Msg("computer move")
	return nil
}

// update runs fn under the service lock and answers with the resulting game state
func (p *Processor) update(gameID string, fn func(g *game.Game) error) Result {
	var response core.GameResponse
	err := p.svc.Update(gameID, func(g *game.Game) error {
		err := fn(g)
		response = BuildGameResponse(gameID, g)
		return err
	})
	if err != nil {
		return p.gameError(err)
	}

	return Result{
		Success: true,
		Data:    response,
	}
}

var errHumanOnComputerTurn = errors.New("computer is to move")

// gameError maps service and game errors to API error codes
func (p *Processor) gameError(err error) Result {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return p.errorResponse("game not found", core.ErrGameNotFound)
	case errors.Is(err, game.ErrGameOver):
		return p.errorResponse("game is over", core.ErrGameOver)
	case errors.Is(err, errHumanOnComputerTurn):
		return p.errorResponse("not human player's turn", core.ErrNotHumanTurn)
	case errors.Is(err, game.ErrNotComputerTurn):
		return p.errorResponse("not computer player's turn", core.ErrNotHumanTurn)
	case errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrIllegalMove),
		errors.Is(err, rules.ErrBadNotation):
		return Result{
			Success: false,
			Error: &core.ErrorResponse{
				Error:   "invalid move",
				Code:    core.ErrInvalidMove,
				Details: err.Error(),
			},
		}
	case errors.Is(err, game.ErrNothingToUndo):
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	default:
		log.Error().Err(err).Msg("command failed")
		return p.errorResponse(err.Error(), core.ErrInternalError)
	}
}

// BuildGameResponse constructs the standard game response
func BuildGameResponse(gameID string, g *game.Game) core.GameResponse {
	cfg := g.Config()
	scores := g.Scores()

	resp := core.GameResponse{
		GameID:   gameID,
		Position: g.CurrentPosition(),
		Turn:     g.Turn().String(),
		State:    g.State().String(),
		Moves:    g.Moves(),
		Score:    core.SideCounts{Red: scores.Red, White: scores.White},
		PieceCount: core.SideCounts{
			Red:   g.PieceCount(core.SideRed),
			White: g.PieceCount(core.SideWhite),
		},
		AI: core.AIConfig{
			Enabled:    cfg.AIEnabled,
			Side:       cfg.AISide.String(),
			Difficulty: cfg.Difficulty.String(),
		},
	}

	for _, piece := range g.Pieces() {
		resp.Pieces = append(resp.Pieces, core.PieceInfo{
			X:    piece.X,
			Y:    piece.Y,
			Side: piece.Side.String(),
			King: piece.King,
		})
	}

	if sel, ok := g.Selected(); ok {
		resp.Selected = &core.SquareInfo{X: sel.X, Y: sel.Y}
		for _, m := range g.Highlights() {
			resp.Highlights = append(resp.Highlights, core.HighlightInfo{
				X:       m.To.X,
				Y:       m.To.Y,
				Capture: m.IsCapture(),
			})
		}
	}

	if result := g.LastResult(); result != nil {
		resp.LastMove = &core.MoveInfo{
			Move:     result.Move.String(),
			Side:     result.Side.String(),
			Computer: result.Computer,
			Captured: result.Outcome.Captured,
			Promoted: result.Outcome.Promoted,
			Points:   result.Outcome.Points,
		}
	}

	return resp
}

func (p *Processor) errorResponse(message, code string) Result {
	return Result{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}
