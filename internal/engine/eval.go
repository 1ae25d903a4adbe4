// Package engine implements move selection: a static evaluator and an
// iterative-deepening alpha-beta search over board.Board.
package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// materialScale weights material against the phase-blended tables, whose
// two weights always sum to phaseTotal.
const (
	materialScale = 16
	phaseTotal    = 16
)

// Piece-square tables, indexed by square with a1 = 0, from White's side of
// the board. Black looks them up through Square.Mirror.

// Opening and middlegame tables, in PieceType order.
var openingPST = [6][64]int{
	// Pawn
	{
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, -20, -20, 10, 10, 5,
		5, -5, -10, 0, 0, -10, -5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, 5, 10, 25, 25, 10, 5, 5,
		10, 10, 20, 30, 30, 20, 10, 10,
		50, 50, 50, 50, 50, 50, 50, 50,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	// Rook
	{
		0, 0, 0, 5, 5, 0, 0, 0,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	// Knight
	{
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	// Bishop
	{
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	// Queen
	{
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-10, 5, 5, 5, 5, 5, 0, -10,
		0, 0, 5, 5, 5, 5, 0, -5,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	// King - stay behind the pawn shield
	{
		20, 30, 10, 0, 0, 10, 30, 20,
		20, 20, -5, -5, -5, -5, 20, 20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-40, -50, -50, -60, -60, -50, -50, -40,
		-60, -60, -60, -60, -60, -60, -60, -60,
		-80, -70, -70, -70, -70, -70, -70, -80,
	},
}

// Endgame tables. Pawns are pushed harder and the king centralizes.
var endgamePST = [6][64]int{
	// Pawn
	{
		0, 0, 0, 0, 0, 0, 0, 0,
		10, 10, 10, 10, 10, 10, 10, 10,
		10, 10, 10, 10, 10, 10, 10, 10,
		20, 20, 20, 20, 20, 20, 20, 20,
		30, 30, 30, 30, 30, 30, 30, 30,
		50, 50, 50, 50, 50, 50, 50, 50,
		80, 80, 80, 80, 80, 80, 80, 80,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	openingPST[board.Rook],
	openingPST[board.Knight],
	openingPST[board.Bishop],
	openingPST[board.Queen],
	// King
	{
		-50, -30, -30, -30, -30, -30, -30, -50,
		-30, -25, 0, 0, 0, 0, -25, -30,
		-25, -20, 20, 25, 25, 20, -20, -25,
		-20, -15, 30, 40, 40, 30, -15, -20,
		-15, -10, 35, 45, 45, 35, -10, -15,
		-10, -5, 20, 30, 30, 20, -5, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
}

// Evaluate returns the static evaluation of the position from White's
// perspective: positive favours White.
//
// Each side's table weight is its own piece count: with all sixteen pieces
// on the board only the opening tables count, and the endgame tables take
// over as pieces come off.
func Evaluate(b *board.Board) int {
	phase := [2]int{b.PieceCount(board.White), b.PieceCount(board.Black)}

	score := 0
	for sq := board.A1; sq <= board.H8; sq++ {
		cell := b.Cells[sq]
		if cell.IsEmpty() {
			continue
		}
		c, pt := cell.Color(), cell.Type()

		pstSq := sq
		sign := 1
		if c == board.Black {
			pstSq = sq.Mirror()
			sign = -1
		}

		n := phase[c]
		v := materialScale*pt.Value() +
			n*openingPST[pt][pstSq] + (phaseTotal-n)*endgamePST[pt][pstSq]
		score += sign * v
	}
	return score
}

// evaluateFor returns Evaluate signed so that larger is better for c.
func evaluateFor(b *board.Board, c board.Color) int {
	if c == board.White {
		return Evaluate(b)
	}
	return -Evaluate(b)
}
