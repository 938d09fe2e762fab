package engine

import (
	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/rules"
)

// Heuristic weights. Relative order matters more than magnitude:
// capture > edge safety > adjacency > promotion.
const (
	AdjacentEnemyBonus = 2
	CaptureBonus       = 10
	KingCaptureBonus   = 5
	EdgeLandingBonus   = 3
	PromotionBonus     = 1
	EdgeThreatPenalty  = 4
)

// RankedMove pairs a candidate with its heuristic score
type RankedMove struct {
	Move  rules.Move
	Score int
}

// Rank scores every legal move of a side, in generation order
func Rank(b *board.Board, side core.Side) []RankedMove {
	moves := rules.AllMoves(b, side)
	ranked := make([]RankedMove, 0, len(moves))
	for _, m := range moves {
		ranked = append(ranked, RankedMove{Move: m, Score: Score(b, m)})
	}
	return ranked
}

// Score rates a single move against the board as it will look after the move
func Score(b *board.Board, m rules.Move) int {
	p, ok := b.Piece(m.PieceID)
	if !ok {
		return 0
	}
	mover := *p

	after := b.Clone()
	if _, err := rules.Apply(after, m); err != nil {
		return 0
	}

	score := adjacency(after, mover, m.To)

	if m.IsCapture() {
		score += CaptureBonus
		if m.CapturedKing {
			score += KingCaptureBonus
		}
		if isEdgeSquare(m.To) {
			score += EdgeLandingBonus
		}
	}

	if !mover.King && m.To.Y == mover.Side.PromotionRow() {
		score += PromotionBonus
	}

	if isEdgeColumn(m.From.X) {
		score -= EdgeThreatPenalty * threats(after, mover.Side, m.To)
	}

	return score
}

// adjacency counts enemies on the diagonals the piece can act along from its destination
func adjacency(b *board.Board, mover board.Piece, to rules.Square) int {
	fwd := mover.Side.Forward()
	dys := []int{fwd}
	if mover.King {
		dys = append(dys, -fwd)
	}

	bonus := 0
	for _, dy := range dys {
		for _, dx := range []int{1, -1} {
			if q, ok := b.OccupantAt(to.X+dx, to.Y+dy); ok && q.Side != mover.Side {
				bonus += AdjacentEnemyBonus
			}
		}
	}
	return bonus
}

// threats counts adjacent enemies able to jump a piece of side standing on sq.
// A man threatens only from in front of the square; a king from any diagonal.
func threats(b *board.Board, side core.Side, sq rules.Square) int {
	fwd := side.Forward()
	n := 0
	for _, dy := range []int{1, -1} {
		for _, dx := range []int{1, -1} {
			q, ok := b.OccupantAt(sq.X+dx, sq.Y+dy)
			if !ok || q.Side == side {
				continue
			}
			if q.King || dy == fwd {
				n++
			}
		}
	}
	return n
}

func isEdgeColumn(x int) bool {
	return x == 0 || x == board.Cols-1
}

// isEdgeSquare holds for the outer ring, where no piece can be jumped
func isEdgeSquare(sq rules.Square) bool {
	return isEdgeColumn(sq.X) || sq.Y == 0 || sq.Y == board.Rows-1
}
