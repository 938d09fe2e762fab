// Package engine picks moves for the computer side using a one-ply heuristic.
package engine

import (
	"math/rand"
	"sort"
	"sync"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/rules"

	"github.com/rs/zerolog/log"
)

// Player is safe for use by multiple games; only the random source is shared.
type Player struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func New(seed int64) *Player {
	return &Player{rng: rand.New(rand.NewSource(seed))}
}

// ChooseMove returns a legal move for side, or false when side has none.
// Callers are expected to check for game over first.
func (p *Player) ChooseMove(b *board.Board, side core.Side, d core.Difficulty) (rules.Move, bool) {
	ranked := Rank(b, side)
	if len(ranked) == 0 {
		return rules.Move{}, false
	}

	var choice RankedMove
	switch d {
	case core.DifficultyEasy:
		p.mu.Lock()
		choice, _ = Tournament(ranked, p.rng)
		p.mu.Unlock()
	default:
		// medium and hard share the greedy pick
		choice = best(ranked)
	}

	log.Debug().
		Str("side", side.String()).
		Str("difficulty", d.String()).
		Int("candidates", len(ranked)).
		Str("move", choice.Move.String()).
		Int("score", choice.Score).
		Msg("computer move chosen")

	return choice.Move, true
}

// best sorts a copy ascending and takes the last entry, so among equal
// top scores the one generated last wins
func best(ranked []RankedMove) RankedMove {
	sorted := append([]RankedMove(nil), ranked...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score < sorted[j].Score
	})
	return sorted[len(sorted)-1]
}
