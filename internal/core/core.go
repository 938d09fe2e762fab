package core

import "fmt"

// SquareColor is the checkerboard color of a square
type SquareColor byte

const (
	SquareNonPlayable SquareColor = iota
	SquarePlayable
)

func (c SquareColor) String() string {
	switch c {
	case SquarePlayable:
		return "playable"
	case SquareNonPlayable:
		return "non-playable"
	default:
		return "-"
	}
}

// Side is one of the two players. Red moves up the board (+y), white moves down.
type Side byte

const (
	SideRed Side = iota + 1
	SideWhite
)

func (s Side) String() string {
	switch s {
	case SideRed:
		return "red"
	case SideWhite:
		return "white"
	default:
		return "-"
	}
}

// Letter returns the single-letter form used in position codes
func (s Side) Letter() byte {
	switch s {
	case SideRed:
		return 'r'
	case SideWhite:
		return 'w'
	default:
		return '-'
	}
}

func (s Side) Valid() bool {
	return s == SideRed || s == SideWhite
}

func (s Side) Opponent() Side {
	switch s {
	case SideRed:
		return SideWhite
	case SideWhite:
		return SideRed
	default:
		return s
	}
}

// Forward is the y direction a non-king piece of this side travels
func (s Side) Forward() int {
	switch s {
	case SideRed:
		return 1
	case SideWhite:
		return -1
	default:
		return 0
	}
}

// PromotionRow is the far edge row where a piece of this side becomes a king
func (s Side) PromotionRow() int {
	switch s {
	case SideRed:
		return 7
	case SideWhite:
		return 0
	default:
		return -1
	}
}

func ParseSide(s string) (Side, error) {
	switch s {
	case "red", "r", "R":
		return SideRed, nil
	case "white", "w", "W":
		return SideWhite, nil
	default:
		return 0, fmt.Errorf("invalid side: %q", s)
	}
}

type Difficulty byte

const (
	DifficultyEasy Difficulty = iota + 1
	DifficultyMedium
	DifficultyHard
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "-"
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy", "e":
		return DifficultyEasy, nil
	case "medium", "m":
		return DifficultyMedium, nil
	case "hard", "h":
		return DifficultyHard, nil
	default:
		return 0, fmt.Errorf("invalid difficulty: %q", s)
	}
}

type State int

const (
	StateOngoing State = iota
	StateRedWins
	StateWhiteWins
	StateDraw
)

func (s State) String() string {
	switch s {
	case StateRedWins:
		return "red wins"
	case StateWhiteWins:
		return "white wins"
	case StateDraw:
		return "draw"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

func (s State) IsOver() bool {
	return s != StateOngoing
}

// Winner reports the winning side, false for ongoing games and draws
func (s State) Winner() (Side, bool) {
	switch s {
	case StateRedWins:
		return SideRed, true
	case StateWhiteWins:
		return SideWhite, true
	default:
		return 0, false
	}
}

// WinFor returns the state in which the given side has won
func WinFor(s Side) State {
	if s == SideRed {
		return StateRedWins
	}
	return StateWhiteWins
}
