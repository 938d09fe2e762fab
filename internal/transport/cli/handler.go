package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"checkers/internal/cli"
	"checkers/internal/core"
	"checkers/internal/game"
	"checkers/internal/rules"
	"checkers/internal/service"
	"checkers/internal/transport"

	"github.com/davecgh/go-spew/spew"
)

type CLIHandler struct {
	svc    *service.Service
	ai     game.Chooser
	view   *cli.CLI
	gameID string
}

func New(svc *service.Service, ai game.Chooser, view *cli.CLI) *CLIHandler {
	return &CLIHandler{
		svc:  svc,
		ai:   ai,
		view: view,
	}
}

// Run is the main loop; it returns when the user quits or input ends
func (h *CLIHandler) Run() {
	for {
		h.view.ShowPrompt(h.getPrompt())

		cmd, err := h.view.GetCommand()
		if err != nil {
			break
		}

		if !h.ProcessCommand(cmd) {
			break
		}
	}
}

// GameID is the active game, empty before the first 'new' or 'resume'
func (h *CLIHandler) GameID() string {
	return h.gameID
}

func (h *CLIHandler) getPrompt() string {
	prompt := "> "
	if h.gameID == "" {
		return prompt
	}
	_ = h.svc.View(h.gameID, func(g *game.Game) error {
		if g.State().IsOver() {
			return nil
		}
		prompt = fmt.Sprintf("[%s]> ", g.Turn())
		if g.ComputerToMove() {
			prompt = "ENTER to execute computer move\n" + prompt
		}
		return nil
	})
	return prompt
}

// ProcessCommand handles one command and returns false to exit
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:
		if h.gameID != "" {
			h.computerMove(false)
		}

	case cli.CmdNew:
		h.handleNewGame("", cmd.Args)

	case cli.CmdResume:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: resume <position code>")
			return true
		}
		h.handleNewGame(cmd.Args[0], cmd.Args[1:])

	case cli.CmdSquare:
		if !h.requireGame() {
			return true
		}
		sq, _ := rules.ParseSquare(cmd.Args[0])
		h.humanMove(func(g *game.Game) (*game.MoveResult, error) {
			return g.Click(sq.X, sq.Y), nil
		})

	case cli.CmdMove:
		if !h.requireGame() {
			return true
		}
		h.humanMove(func(g *game.Game) (*game.MoveResult, error) {
			result, err := g.PlayNotation(cmd.Args[0])
			if err != nil {
				return nil, fmt.Errorf("invalid move: %w", err)
			}
			return result, nil
		})

	case cli.CmdMoves:
		if !h.requireGame() {
			return true
		}
		h.showLegalMoves()

	case cli.CmdUndo:
		if !h.requireGame() {
			return true
		}
		count := 1
		if len(cmd.Args) > 0 {
			n, err := strconv.Atoi(cmd.Args[0])
			if err != nil || n < 1 {
				h.view.ShowMessage("Invalid undo count. Usage: undo [count]")
				return true
			}
			count = n
		}

		if err := h.svc.UndoMoves(h.gameID, count); err != nil {
			h.view.ShowError(err)
			return true
		}
		if count == 1 {
			h.view.ShowMessage("Move undone")
		} else {
			h.view.ShowMessage(fmt.Sprintf("%d moves undone", count))
		}
		h.render()

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}
		theme := cli.ColorTheme(cmd.Args[0])
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		if h.gameID != "" {
			h.render()
		}

	case cli.CmdVerbose:
		h.view.ShowMessage(fmt.Sprintf("Verbose mode: %t", h.view.ToggleVerbose()))

	case cli.CmdDebug:
		if !h.requireGame() {
			return true
		}
		_ = h.svc.View(h.gameID, func(g *game.Game) error {
			h.view.ShowMessage(spew.Sdump(g.Config(), g.CurrentSnapshot(), g.Pieces()))
			return nil
		})

	case cli.CmdHistory:
		if !h.requireGame() {
			return true
		}
		_ = h.svc.View(h.gameID, func(g *game.Game) error {
			h.view.ShowGameHistory(g)
			return nil
		})

	case cli.CmdHelp:
		h.view.ShowHelp()

	case cli.CmdUnknown:
		h.view.ShowMessage(fmt.Sprintf("Unknown command %q. Type 'help' for commands.", cmd.Raw))
	}

	return true
}

func (h *CLIHandler) requireGame() bool {
	if h.gameID == "" {
		h.view.ShowMessage("No active game. Use 'new' or 'resume <position code>'.")
		return false
	}
	return true
}

// humanMove runs a human action and lets the computer answer when a move was committed
func (h *CLIHandler) humanMove(act func(g *game.Game) (*game.MoveResult, error)) {
	var result *game.MoveResult
	err := h.svc.Update(h.gameID, func(g *game.Game) error {
		if g.State().IsOver() {
			return game.ErrGameOver
		}
		if g.ComputerToMove() {
			return errComputerTurn
		}
		var err error
		result, err = act(g)
		return err
	})
	switch {
	case errors.Is(err, errComputerTurn):
		h.view.ShowMessage("It's the computer's turn. Press ENTER to execute computer move.")
		return
	case err != nil:
		h.view.ShowError(err)
		return
	}

	if result == nil {
		h.render()
		return
	}

	h.view.ShowMove(result)
	if result.State.IsOver() {
		h.render()
		h.gameOver()
		return
	}
	h.computerMove(true)
}

var errComputerTurn = errors.New("computer is to move")

// computerMove plays the AI side if it is to move. The board is rendered
// afterwards, or unconditionally when always is set.
func (h *CLIHandler) computerMove(always bool) {
	var result *game.MoveResult
	err := h.svc.Update(h.gameID, func(g *game.Game) error {
		if !g.ComputerToMove() {
			return nil
		}
		var err error
		result, err = g.PlayComputer(h.ai)
		return err
	})
	if err != nil {
		h.view.ShowError(fmt.Errorf("engine error: %w", err))
		return
	}
	if result == nil {
		if always {
			h.render()
		}
		return
	}

	h.view.ShowMove(result)
	h.render()
	if result.State.IsOver() {
		h.gameOver()
	}
}

func (h *CLIHandler) gameOver() {
	_ = h.svc.View(h.gameID, func(g *game.Game) error {
		h.view.ShowGameOver(g.State(), g.Scores())
		return nil
	})
}

func (h *CLIHandler) render() {
	_ = h.svc.View(h.gameID, func(g *game.Game) error {
		transport.Render(h.view, g)
		return nil
	})
}

func (h *CLIHandler) showLegalMoves() {
	_ = h.svc.View(h.gameID, func(g *game.Game) error {
		if g.State().IsOver() {
			h.view.ShowMessage(fmt.Sprintf("Game is over: %s", g.State()))
			return nil
		}
		moves := rules.AllMoves(g.Board(), g.Turn())
		names := make([]string, len(moves))
		for i, m := range moves {
			names[i] = m.String()
		}
		h.view.ShowMessage(fmt.Sprintf("%s to move: %s", g.Turn(), strings.Join(names, " ")))
		return nil
	})
}

// handleNewGame starts a game. Args may preselect the players: "local", or
// the computer's side followed by an optional difficulty. Without args the
// user is asked.
func (h *CLIHandler) handleNewGame(position string, args []string) {
	g := game.New(game.DefaultConfig())
	if position != "" {
		var err error
		g, err = game.FromPosition(position, game.DefaultConfig())
		if err != nil {
			h.view.ShowError(fmt.Errorf("could not start the game: %w", err))
			return
		}
	}

	cfg, err := h.playerConfig(args)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	g.SetConfig(cfg)

	id := h.svc.GenerateGameID()
	if err := h.svc.CreateGame(id, g); err != nil {
		h.view.ShowError(fmt.Errorf("could not start the game: %w", err))
		return
	}
	if h.gameID != "" {
		_ = h.svc.DeleteGame(h.gameID)
	}
	h.gameID = id

	h.view.ShowMessage("Game started.")
	if cfg.AIEnabled {
		h.view.ShowMessage(fmt.Sprintf("Computer plays %s (%s).", cfg.AISide, cfg.Difficulty))
	}
	h.render()
	if g.State().IsOver() {
		h.gameOver()
	}
}

func (h *CLIHandler) playerConfig(args []string) (game.Config, error) {
	cfg := game.DefaultConfig()

	if len(args) > 0 {
		if strings.EqualFold(args[0], "local") {
			return cfg, nil
		}
		side, err := core.ParseSide(args[0])
		if err != nil {
			return cfg, err
		}
		cfg.AIEnabled = true
		cfg.AISide = side
		if len(args) > 1 {
			d, err := core.ParseDifficulty(args[1])
			if err != nil {
				return cfg, err
			}
			cfg.Difficulty = d
		}
		return cfg, nil
	}

	h.view.ShowPrompt("Play against the computer? (y/n): ")
	answer := strings.ToLower(h.view.ReadLine())
	if answer != "y" && answer != "yes" {
		return cfg, nil
	}
	cfg.AIEnabled = true

	h.view.ShowPrompt("Computer side (red/white) [white]: ")
	if answer := h.view.ReadLine(); answer != "" {
		side, err := core.ParseSide(answer)
		if err != nil {
			return cfg, err
		}
		cfg.AISide = side
	}

	h.view.ShowPrompt("Difficulty (easy/medium/hard) [medium]: ")
	if answer := h.view.ReadLine(); answer != "" {
		d, err := core.ParseDifficulty(answer)
		if err != nil {
			return cfg, err
		}
		cfg.Difficulty = d
	}
	return cfg, nil
}
