// Package cli is the terminal view of a checkers game: command parsing,
// board rendering with color themes, and game messages.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/game"
	"checkers/internal/rules"
	"checkers/internal/transport"
)

var _ transport.View = (*CLI)(nil)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdResume
	CmdSquare
	CmdMove
	CmdMoves
	CmdUndo
	CmdColor
	CmdVerbose
	CmdDebug
	CmdHistory
	CmdHelp
	CmdQuit
	CmdUnknown
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg  string
	darkBg   string
	markBg   string // selected piece and its destinations
	red      string
	white    string
	reset    string
	hasColor bool
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg:  "\033[48;5;230m",
		darkBg:   "\033[48;5;94m",
		markBg:   "\033[48;5;178m",
		red:      "\033[91m",
		white:    "\033[97m",
		reset:    "\033[0m",
		hasColor: true,
	},
	ThemeGreen: {
		lightBg:  "\033[48;5;157m",
		darkBg:   "\033[48;5;22m",
		markBg:   "\033[48;5;142m",
		red:      "\033[91m",
		white:    "\033[97m",
		reset:    "\033[0m",
		hasColor: true,
	},
	ThemeGray: {
		lightBg:  "\033[48;5;251m",
		darkBg:   "\033[48;5;240m",
		markBg:   "\033[48;5;67m",
		red:      "\033[91m",
		white:    "\033[97m",
		reset:    "\033[0m",
		hasColor: true,
	},
}

// LineReader supplies input lines. *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
}

// prompter is implemented by line editors that draw the prompt themselves
type prompter interface {
	SetPrompt(prompt string)
}

type scannerReader struct {
	scanner *bufio.Scanner
}

// NewScannerReader reads lines from a plain reader, for pipes and tests
func NewScannerReader(r io.Reader) LineReader {
	return &scannerReader{scanner: bufio.NewScanner(r)}
}

func (s *scannerReader) Readline() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

type CLI struct {
	input   LineReader
	output  io.Writer
	theme   ColorTheme
	verbose bool
}

func New(input LineReader, output io.Writer) *CLI {
	return &CLI{
		input:  input,
		output: output,
		theme:  ThemeOff,
	}
}

// GetCommand reads one command; end of input reads as quit
func (c *CLI) GetCommand() (*Command, error) {
	line, err := c.input.Readline()
	if err != nil {
		if err == io.EOF {
			return &Command{Type: CmdQuit}, nil
		}
		return nil, err
	}
	return ParseCommand(line), nil
}

func ParseCommand(input string) *Command {
	input = strings.TrimSpace(input)
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "new":
		return &Command{Type: CmdNew, Args: args}
	case "resume":
		return &Command{Type: CmdResume, Args: args, Raw: input}
	case "moves":
		return &Command{Type: CmdMoves}
	case "undo":
		return &Command{Type: CmdUndo, Args: args}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "verbose":
		return &Command{Type: CmdVerbose}
	case "debug":
		return &Command{Type: CmdDebug}
	case "history":
		return &Command{Type: CmdHistory}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	}

	if _, err := rules.ParseSquare(cmd); err == nil {
		return &Command{Type: CmdSquare, Args: []string{cmd}}
	}
	if len(cmd) == 4 || len(cmd) == 5 {
		return &Command{Type: CmdMove, Args: []string{cmd}}
	}
	return &Command{Type: CmdUnknown, Raw: input}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) ToggleVerbose() bool {
	c.verbose = !c.verbose
	return c.verbose
}

func (c *CLI) IsVerbose() bool {
	return c.verbose
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

func (c *CLI) ShowPrompt(prompt string) {
	if p, ok := c.input.(prompter); ok {
		p.SetPrompt(prompt)
		return
	}
	fmt.Fprint(c.output, prompt)
}

// ReadLine reads a raw answer line, empty on end of input
func (c *CLI) ReadLine() string {
	line, err := c.input.Readline()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// DisplayBoard draws rank 8 on top. The selected piece and its legal
// destinations are marked.
func (c *CLI) DisplayBoard(b *board.Board, selected *board.Piece, targets []rules.Move) {
	theme := themes[c.theme]

	marked := make(map[rules.Square]rules.Move, len(targets))
	for _, m := range targets {
		marked[m.To] = m
	}

	var sb strings.Builder
	sb.WriteString("\n  a b c d e f g h\n")

	for y := board.Rows - 1; y >= 0; y-- {
		sb.WriteString(fmt.Sprintf("%d ", y+1))
		for x := 0; x < board.Cols; x++ {
			sq := rules.Square{X: x, Y: y}
			target, isTarget := marked[sq]
			isSelected := selected != nil && selected.X == x && selected.Y == y
			piece, occupied := b.OccupantAt(x, y)

			if !theme.hasColor {
				switch {
				case occupied && isSelected:
					sb.WriteString(fmt.Sprintf("%c*", piece.Symbol()))
				case occupied:
					sb.WriteString(fmt.Sprintf("%c ", piece.Symbol()))
				case isTarget && target.IsCapture():
					sb.WriteString("x ")
				case isTarget:
					sb.WriteString("o ")
				case b.IsPlayable(x, y):
					sb.WriteString(". ")
				default:
					sb.WriteString("  ")
				}
				continue
			}

			bg := theme.lightBg
			if b.IsPlayable(x, y) {
				bg = theme.darkBg
			}
			if isSelected || isTarget {
				bg = theme.markBg
			}

			if !occupied {
				sb.WriteString(fmt.Sprintf("%s  %s", bg, theme.reset))
				continue
			}
			color := theme.red
			if piece.Side == core.SideWhite {
				color = theme.white
			}
			sb.WriteString(fmt.Sprintf("%s%s%c %s", bg, color, piece.Symbol(), theme.reset))
		}
		sb.WriteString(fmt.Sprintf(" %d\n", y+1))
	}
	sb.WriteString("  a b c d e f g h\n")

	c.ShowMessage(sb.String())
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new              - Start a new game (local or against the computer)
  resume <code>    - Resume from a position code, e.g. r:125b
  <square>         - Click a square: select a piece or move the selected one (e.g. c3)
  <move>           - Make a move (e.g. c3d4, c3-d4, c3xe5)
  moves            - List legal moves for the side to move
  undo [count]     - Undo last move(s), default 1
  color <theme>    - Set board color theme (off|brown|green|gray)
  verbose          - Toggle detailed move information
  debug            - Dump the current game snapshot
  history          - Show game move history and positions
  quit/exit        - Exit the program
  help/?           - Show this help message

During any game:
  Press ENTER      - Execute computer move (when it's computer's turn)`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Checkers!")
	c.ShowMessage("Commands: new, resume <code>, <square>, <move>, moves, undo, history, help/?, quit")
	c.ShowMessage("Red moves first, up the board. Captures are optional and single jumps only.")
	c.ShowMessage("")
}

func (c *CLI) ShowGameHistory(g *game.Game) {
	c.ShowMessage(fmt.Sprintf("Starting position: %s", g.InitialPosition()))

	moves := g.Moves()
	first := g.Snapshots()[0].NextTurn
	for i := 0; i < len(moves); i += 2 {
		num := i/2 + 1
		if i+1 < len(moves) {
			c.ShowMessage(fmt.Sprintf("%d. %s | %s", num, moves[i], moves[i+1]))
		} else {
			c.ShowMessage(fmt.Sprintf("%d. %s | ...", num, moves[i]))
		}
	}
	if len(moves) > 0 {
		c.ShowMessage(fmt.Sprintf("(%s moved first)", first))
	}

	scores := g.Scores()
	c.ShowMessage(fmt.Sprintf("Current position: %s", g.CurrentPosition()))
	c.ShowMessage(fmt.Sprintf("Score: red %d, white %d", scores.Red, scores.White))
	c.ShowMessage(fmt.Sprintf("Game state: %s", g.State()))
}

func (c *CLI) ShowMove(result *game.MoveResult) {
	who := "You"
	if result.Computer {
		who = "Computer"
	}
	if !c.verbose {
		if result.Computer {
			c.ShowMessage(fmt.Sprintf("%s (%s): %s", who, result.Side, result.Move))
		}
		return
	}

	var extras []string
	if result.Outcome.Captured {
		extras = append(extras, fmt.Sprintf("+%d", result.Outcome.Points))
	}
	if result.Outcome.Promoted {
		extras = append(extras, "kinged")
	}
	line := fmt.Sprintf("%s (%s): %s", who, result.Side, result.Move)
	if len(extras) > 0 {
		line += " [" + strings.Join(extras, ", ") + "]"
	}
	c.ShowMessage(line)
}

func (c *CLI) ShowGameOver(state core.State, score game.Score) {
	c.ShowMessage(fmt.Sprintf("\nGame Over: %s (score red %d, white %d)", state, score.Red, score.White))
	c.ShowMessage("Use 'undo' to take moves back or 'new' to start again.")
}
