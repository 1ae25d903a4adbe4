package engine

import (
	"math/rand/v2"

	"github.com/hailam/chesscore/internal/board"
)

// RandomMover picks a uniformly random legal move. It is the baseline
// opponent; its decisions always carry a score of 0.
type RandomMover struct {
	rng *rand.Rand
}

// NewRandomMover creates a RandomMover. The same seed replays the same
// choices.
func NewRandomMover(seed uint64) *RandomMover {
	return &RandomMover{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// SelectMove returns a random legal move, or NoMove when there is none.
func (r *RandomMover) SelectMove(b board.Board) Decision {
	moves := b.PossibleMoves().Moves
	if len(moves) == 0 {
		return Decision{Move: board.NoMove}
	}
	return Decision{Move: moves[r.rng.IntN(len(moves))]}
}
