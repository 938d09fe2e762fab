// Package game runs one checkers game: selection, turn order, scoring,
// game-over detection and move history.
package game

import (
	"errors"
	"fmt"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/rules"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSelected
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSelected:
		return "selected"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Config is chosen before a game starts and may be changed between turns
type Config struct {
	AIEnabled  bool
	AISide     core.Side
	Difficulty core.Difficulty
}

func DefaultConfig() Config {
	return Config{
		AIEnabled:  false,
		AISide:     core.SideWhite,
		Difficulty: core.DifficultyMedium,
	}
}

// IsComputer reports whether side is played by the AI under this config
func (c Config) IsComputer(side core.Side) bool {
	return c.AIEnabled && c.AISide == side
}

// Score holds captured-material points per side
type Score struct {
	Red   int
	White int
}

func (s Score) Of(side core.Side) int {
	if side == core.SideRed {
		return s.Red
	}
	return s.White
}

func (s *Score) add(side core.Side, points int) {
	if side == core.SideRed {
		s.Red += points
	} else {
		s.White += points
	}
}

type Snapshot struct {
	Position     string    // Board state at this point
	PreviousMove string    // Move that created this position (empty for initial)
	NextTurn     core.Side // Whose turn it is at this position
	Score        Score
	Captured     bool
	Promoted     bool
}

// MoveResult tracks the outcome of a move
type MoveResult struct {
	Move     rules.Move
	Side     core.Side
	Computer bool
	Outcome  rules.Outcome
	State    core.State
	Position string
}

// Chooser selects a move for the computer side
type Chooser interface {
	ChooseMove(b *board.Board, side core.Side, d core.Difficulty) (rules.Move, bool)
}

type Game struct {
	board      *board.Board
	turn       core.Side
	score      Score
	state      core.State
	selected   board.PieceID
	targets    []rules.Move
	cfg        Config
	snapshots  []Snapshot
	lastResult *MoveResult
	onChange   func()
}

// New starts a game from the standard position with red to move
func New(cfg Config) *Game {
	g, _ := FromPosition(board.StartingPosition, cfg)
	return g
}

// FromPosition starts a game from a position code
func FromPosition(pos string, cfg Config) (*Game, error) {
	b, turn, err := board.ParsePosition(pos)
	if err != nil {
		return nil, err
	}
	g := &Game{
		board: b,
		turn:  turn,
		state: rules.Evaluate(b),
		cfg:   cfg,
	}
	g.snapshots = []Snapshot{{
		Position: board.FormatPosition(b, turn),
		NextTurn: turn,
	}}
	return g, nil
}

// OnChange registers a callback fired after every mutation
func (g *Game) OnChange(fn func()) {
	g.onChange = fn
}

func (g *Game) notify() {
	if g.onChange != nil {
		g.onChange()
	}
}

func (g *Game) Phase() Phase {
	switch {
	case g.state.IsOver():
		return PhaseGameOver
	case g.selected != board.NoPiece:
		return PhaseSelected
	default:
		return PhaseIdle
	}
}

// Select picks up a piece of the side to move. Anything else is ignored.
func (g *Game) Select(x, y int) bool {
	if g.state.IsOver() || g.cfg.IsComputer(g.turn) {
		return false
	}
	p, ok := g.board.OccupantAt(x, y)
	if !ok || p.Side != g.turn {
		return false
	}
	g.selected = p.ID
	g.targets = rules.Generate(g.board, p)
	g.notify()
	return true
}

func (g *Game) Deselect() {
	if g.selected == board.NoPiece {
		return
	}
	g.clearSelection()
	g.notify()
}

func (g *Game) clearSelection() {
	g.selected = board.NoPiece
	g.targets = nil
}

// Click applies a board click: pick up, swap, put down or move the selected piece.
// It returns the result only when a move was made.
func (g *Game) Click(x, y int) *MoveResult {
	if g.Phase() != PhaseSelected {
		g.Select(x, y)
		return nil
	}

	if p, ok := g.board.OccupantAt(x, y); ok && p.Side == g.turn {
		if p.ID == g.selected {
			g.Deselect()
		} else {
			g.Select(x, y)
		}
		return nil
	}

	result, _ := g.Commit(x, y)
	return result
}

// Commit moves the selected piece to (x,y) if that is one of its highlighted destinations
func (g *Game) Commit(x, y int) (*MoveResult, bool) {
	if g.state.IsOver() || g.selected == board.NoPiece {
		return nil, false
	}
	for _, m := range g.targets {
		if m.To.X == x && m.To.Y == y {
			result, err := g.execute(m, false)
			return result, err == nil
		}
	}
	return nil, false
}

// Play executes a move for the side to move, validating it against the generator
func (g *Game) Play(m rules.Move) (*MoveResult, error) {
	if g.state.IsOver() {
		return nil, ErrGameOver
	}
	legal, err := g.legal(m)
	if err != nil {
		return nil, err
	}
	return g.execute(legal, false)
}

// legal resolves m against the generated moves of the side to move
func (g *Game) legal(m rules.Move) (rules.Move, error) {
	p, ok := g.board.Piece(m.PieceID)
	if !ok {
		return rules.Move{}, fmt.Errorf("piece %d: %w", m.PieceID, ErrIllegalMove)
	}
	if p.Side != g.turn {
		return rules.Move{}, fmt.Errorf("%s to move: %w", g.turn, ErrNotYourTurn)
	}
	for _, legal := range rules.Generate(g.board, p) {
		if legal.From == m.From && legal.To == m.To {
			return legal, nil
		}
	}
	return rules.Move{}, fmt.Errorf("%s: %w", m, ErrIllegalMove)
}

// PlayNotation parses a move such as "c3d4" and plays it
func (g *Game) PlayNotation(notation string) (*MoveResult, error) {
	if g.state.IsOver() {
		return nil, ErrGameOver
	}
	m, err := rules.ParseMove(g.board, notation)
	if err != nil {
		if errors.Is(err, rules.ErrBadNotation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrIllegalMove, err)
	}
	return g.Play(m)
}

// PlayComputer asks ai for a move and executes it for the computer side
func (g *Game) PlayComputer(ai Chooser) (*MoveResult, error) {
	if g.state.IsOver() {
		return nil, ErrGameOver
	}
	if !g.cfg.IsComputer(g.turn) {
		return nil, ErrNotComputerTurn
	}
	m, ok := ai.ChooseMove(g.board, g.turn, g.cfg.Difficulty)
	if !ok {
		return nil, ErrNoLegalMoves
	}
	legal, err := g.legal(m)
	if err != nil {
		return nil, fmt.Errorf("computer move %s: %w", m, ErrIllegalMove)
	}
	return g.execute(legal, true)
}

func (g *Game) execute(m rules.Move, computer bool) (*MoveResult, error) {
	side := g.turn
	out, err := rules.Apply(g.board, m)
	if err != nil {
		return nil, err
	}

	g.score.add(side, out.Points)
	g.turn = side.Opponent()
	g.state = rules.Evaluate(g.board)
	g.clearSelection()

	pos := board.FormatPosition(g.board, g.turn)
	g.snapshots = append(g.snapshots, Snapshot{
		Position:     pos,
		PreviousMove: m.String(),
		NextTurn:     g.turn,
		Score:        g.score,
		Captured:     out.Captured,
		Promoted:     out.Promoted,
	})

	g.lastResult = &MoveResult{
		Move:     m,
		Side:     side,
		Computer: computer,
		Outcome:  out,
		State:    g.state,
		Position: pos,
	}
	g.notify()
	return g.lastResult, nil
}

// UndoMoves rewinds count plies, restoring board, score and turn
func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}

	availableMoves := len(g.snapshots) - 1
	if availableMoves < count {
		return fmt.Errorf("cannot undo %d moves: only %d moves available: %w", count, availableMoves, ErrNothingToUndo)
	}

	target := g.snapshots[len(g.snapshots)-1-count]
	b, turn, err := board.ParsePosition(target.Position)
	if err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}

	g.snapshots = g.snapshots[:len(g.snapshots)-count]
	g.board = b
	g.turn = turn
	g.score = target.Score
	g.state = rules.Evaluate(b)
	g.lastResult = nil
	g.clearSelection()
	g.notify()
	return nil
}

// Reset returns to the standard starting position, keeping the config
func (g *Game) Reset() {
	fresh := New(g.cfg)
	fresh.onChange = g.onChange
	*g = *fresh
	g.notify()
}

func (g *Game) SetConfig(cfg Config) {
	g.cfg = cfg
	if cfg.IsComputer(g.turn) {
		g.clearSelection()
	}
	g.notify()
}

func (g *Game) Config() Config {
	return g.cfg
}

// Board returns a copy of the current board
func (g *Game) Board() *board.Board {
	return g.board.Clone()
}

// Pieces returns copies of the live pieces ordered by ID
func (g *Game) Pieces() []board.Piece {
	pieces := g.board.Pieces()
	out := make([]board.Piece, len(pieces))
	for i, p := range pieces {
		out[i] = *p
	}
	return out
}

func (g *Game) Turn() core.Side {
	return g.turn
}

func (g *Game) Score(side core.Side) int {
	return g.score.Of(side)
}

func (g *Game) Scores() Score {
	return g.score
}

func (g *Game) PieceCount(side core.Side) int {
	return g.board.Count(side)
}

func (g *Game) State() core.State {
	return g.state
}

// Selected returns the currently selected piece
func (g *Game) Selected() (board.Piece, bool) {
	if g.selected == board.NoPiece {
		return board.Piece{}, false
	}
	p, ok := g.board.Piece(g.selected)
	if !ok {
		return board.Piece{}, false
	}
	return *p, true
}

// Highlights returns the legal destinations of the selected piece
func (g *Game) Highlights() []rules.Move {
	return append([]rules.Move(nil), g.targets...)
}

// ComputerToMove reports whether the next move belongs to the AI
func (g *Game) ComputerToMove() bool {
	return !g.state.IsOver() && g.cfg.IsComputer(g.turn)
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

func (g *Game) CurrentSnapshot() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

func (g *Game) CurrentPosition() string {
	return g.CurrentSnapshot().Position
}

func (g *Game) InitialPosition() string {
	return g.snapshots[0].Position
}

func (g *Game) Snapshots() []Snapshot {
	return append([]Snapshot(nil), g.snapshots...)
}

func (g *Game) Moves() []string {
	moves := []string{}
	for i := 1; i < len(g.snapshots); i++ {
		if g.snapshots[i].PreviousMove != "" {
			moves = append(moves, g.snapshots[i].PreviousMove)
		}
	}
	return moves
}

func (g *Game) MoveCount() int {
	return len(g.snapshots) - 1
}
