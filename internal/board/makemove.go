package board

import "fmt"

// castle describes one of the four castling moves.
type castle struct {
	right            CastlingRights
	kingFrom, kingTo Square
	rookFrom, rookTo Square
	empty            []Square // must be vacant
	safe             []Square // king start, transit and landing squares
}

var castles = [4]castle{
	{WhiteKingSideCastle, E1, G1, H1, F1, []Square{F1, G1}, []Square{E1, F1, G1}},
	{WhiteQueenSideCastle, E1, C1, A1, D1, []Square{B1, C1, D1}, []Square{E1, D1, C1}},
	{BlackKingSideCastle, E8, G8, H8, F8, []Square{F8, G8}, []Square{E8, F8, G8}},
	{BlackQueenSideCastle, E8, C8, A8, D8, []Square{B8, C8, D8}, []Square{E8, D8, C8}},
}

// rightsLostOn lists, per square, the castling rights that disappear when a
// move starts or ends there.
var rightsLostOn = [64]CastlingRights{
	A1: WhiteQueenSideCastle,
	E1: WhiteKingSideCastle | WhiteQueenSideCastle,
	H1: WhiteKingSideCastle,
	A8: BlackQueenSideCastle,
	E8: BlackKingSideCastle | BlackQueenSideCastle,
	H8: BlackKingSideCastle,
}

// MakeMove applies m and returns the MoveResult that UnmakeMove needs.
//
// m must come from PossibleMoves on this same position. A move from an empty
// square, or one belonging to the side not on move, leaves the board in an
// unspecified state; use ApplyMove when the move is untrusted.
func (b *Board) MakeMove(m Move) MoveResult {
	res := newMoveResult(m, b.CastlingRights, b.EnPassant)
	from, to := m.From(), m.To()
	us := b.SideToMove
	moving := b.Cells[from]

	b.HalfMoveClock++

	if moving.Type() == Pawn {
		b.HalfMoveClock = 0

		if b.EnPassant != NoSquare && to == b.EnPassant {
			captured := NewSquare(to.File(), from.Rank())
			res.setCapture(b.Cells[captured])
			res |= resultEnPassant
			b.Cells[captured] = Empty
		}

		b.EnPassant = NoSquare
		if abs(int(to)-int(from)) == 16 {
			b.EnPassant = Square((int(from) + int(to)) / 2)
		}

		if to.RelativeRank(us) == 7 {
			moving = m.Promotion()
			res.setPromotion(moving)
		}
	} else {
		b.EnPassant = NoSquare
	}

	if moving.Type() == King {
		for _, c := range castles {
			if from == c.kingFrom && to == c.kingTo && b.CastlingRights&c.right != 0 {
				res |= resultCastle
				b.Cells[c.rookTo] = b.Cells[c.rookFrom]
				b.Cells[c.rookFrom] = Empty
				break
			}
		}
	}

	b.CastlingRights &^= rightsLostOn[from] | rightsLostOn[to]

	if !b.Cells[to].IsEmpty() {
		b.HalfMoveClock = 0
		res.setCapture(b.Cells[to])
	}

	b.Cells[to] = moving
	b.Cells[from] = Empty

	if us == Black {
		b.FullMoveNumber++
	}
	b.SideToMove = us.Other()
	return res
}

// UnmakeMove takes back the move that produced res, which must be the most
// recent MakeMove on this board. The half-move clock is not restored.
func (b *Board) UnmakeMove(res MoveResult) {
	m := res.Move()
	from, to := m.From(), m.To()

	b.SideToMove = b.SideToMove.Other()
	us := b.SideToMove
	if us == Black {
		b.FullMoveNumber--
	}

	if m.IsPromotion() {
		b.Cells[from] = NewCell(us, Pawn)
	} else {
		b.Cells[from] = b.Cells[to]
	}

	if res.IsEnPassant() {
		b.Cells[NewSquare(to.File(), from.Rank())] = res.Captured()
		b.Cells[to] = Empty
	} else {
		b.Cells[to] = res.Captured()
	}

	b.EnPassant = NoSquare
	if file, ok := res.prevEnPassantFile(); ok {
		// The target sits behind the pawn that just double-stepped.
		rank := 5
		if us == Black {
			rank = 2
		}
		b.EnPassant = NewSquare(file, rank)
	}

	b.CastlingRights = res.PrevCastlingRights()

	if res.IsCastle() {
		for _, c := range castles {
			if c.kingFrom == from && c.kingTo == to {
				b.Cells[c.rookFrom] = b.Cells[c.rookTo]
				b.Cells[c.rookTo] = Empty
				break
			}
		}
	}
}

// ApplyMove validates m against the legal moves of the position before
// making it.
func (b *Board) ApplyMove(m Move) (MoveResult, error) {
	if !b.PossibleMoves().Contains(m) {
		return 0, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}
	return b.MakeMove(m), nil
}
