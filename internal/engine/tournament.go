package engine

import "math/rand"

// Tournament reduces a candidate list pairwise until one move is left.
// Round 0 keeps the higher score of each adjacent pair, round 1 the lower,
// and so on alternating. An unpaired last element advances untouched.
// Equal scores are decided by a coin flip.
func Tournament(ranked []RankedMove, rng *rand.Rand) (RankedMove, bool) {
	if len(ranked) == 0 {
		return RankedMove{}, false
	}

	round := append([]RankedMove(nil), ranked...)
	for level := 0; len(round) > 1; level++ {
		maximize := level%2 == 0
		next := make([]RankedMove, 0, (len(round)+1)/2)

		for i := 0; i+1 < len(round); i += 2 {
			next = append(next, pick(round[i], round[i+1], maximize, rng))
		}
		if len(round)%2 == 1 {
			next = append(next, round[len(round)-1])
		}
		round = next
	}

	return round[0], true
}

func pick(a, b RankedMove, maximize bool, rng *rand.Rand) RankedMove {
	if a.Score == b.Score {
		if rng.Intn(2) == 0 {
			return a
		}
		return b
	}
	if (a.Score > b.Score) == maximize {
		return a
	}
	return b
}
