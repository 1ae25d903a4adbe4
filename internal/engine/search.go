package engine

import (
	"math"

	"github.com/hailam/chesscore/internal/board"
)

// Search constants
const (
	Infinity  = math.MaxInt32
	MateScore = math.MaxInt32 // Score of a checkmate, before distance adjustment

	// Scores beyond mateThreshold mean a forced mate lies below. They move
	// one step toward zero per ply so that the shorter mate scores higher.
	mateThreshold = 1 << 30
)

// Searcher performs a depth-limited alpha-beta search. Every branch works
// on its own copy of the board; nothing is undone in place.
type Searcher struct {
	nodes uint64
}

// NewSearcher creates a new searcher.
func NewSearcher() *Searcher {
	return &Searcher{}
}

// Reset clears the node counter.
func (s *Searcher) Reset() {
	s.nodes = 0
}

// Nodes returns the number of nodes searched since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// AlphaBeta returns the minimax value of b searched depth plies deep within
// the window (alpha, beta). White maximizes. Checkmate scores -MateScore
// when White is mated and MateScore when Black is; stalemate scores 0.
func (s *Searcher) AlphaBeta(b *board.Board, depth, alpha, beta int) int {
	s.nodes++
	if depth == 0 {
		return Evaluate(b)
	}

	ms := b.PossibleMoves()
	if len(ms.Moves) == 0 {
		if !ms.InCheck {
			return 0
		}
		if b.SideToMove == board.White {
			return -MateScore
		}
		return MateScore
	}
	orderMoves(b, ms.Moves)

	if b.SideToMove == board.White {
		best := -Infinity
		for _, m := range ms.Moves {
			child := *b
			child.MakeMove(m)
			value := adjustMateDistance(s.AlphaBeta(&child, depth-1, alpha, beta))
			best = max(best, value)
			alpha = max(alpha, best)
			if best >= beta {
				break
			}
		}
		return best
	}

	best := Infinity
	for _, m := range ms.Moves {
		child := *b
		child.MakeMove(m)
		value := adjustMateDistance(s.AlphaBeta(&child, depth-1, alpha, beta))
		best = min(best, value)
		beta = min(beta, best)
		if best <= alpha {
			break
		}
	}
	return best
}

// adjustMateDistance moves a mate score one ply closer to zero.
func adjustMateDistance(v int) int {
	switch {
	case v > mateThreshold:
		return v - 1
	case v < -mateThreshold:
		return v + 1
	}
	return v
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return score > mateThreshold || score < -mateThreshold
}

// MateDistance returns the number of plies to the mate encoded by score.
func MateDistance(score int) int {
	if score < 0 {
		score = -score
	}
	return MateScore - score
}
