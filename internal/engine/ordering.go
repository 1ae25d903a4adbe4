package engine

import (
	"cmp"
	"slices"

	"github.com/hailam/chesscore/internal/board"
)

// captureScore ranks a move for ordering: twice the victim's value minus the
// attacker's, so that cheap pieces taking expensive ones come first. Moves
// onto an empty square score 0. En passant is treated as a quiet move.
func captureScore(b *board.Board, m board.Move) int {
	victim := b.Cells[m.To()]
	if victim.IsEmpty() {
		return 0
	}
	attacker := b.Cells[m.From()]
	return 2*victim.Type().Value() - attacker.Type().Value()
}

// scoredMove pairs a move with its ordering key.
type scoredMove struct {
	move  board.Move
	score int
}

// sortByScore orders moves best first. The sort is stable so that equal
// keys keep generation order and the search stays deterministic.
func sortByScore(moves []scoredMove) {
	slices.SortStableFunc(moves, func(a, b scoredMove) int {
		return cmp.Compare(b.score, a.score)
	})
}

// orderMoves sorts moves in place by captureScore, best first.
func orderMoves(b *board.Board, moves []board.Move) {
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{m, captureScore(b, m)}
	}
	sortByScore(scored)
	for i := range scored {
		moves[i] = scored[i].move
	}
}
