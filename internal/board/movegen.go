package board

// Direction offsets as (file, rank) deltas.
type delta struct{ df, dr int }

var (
	rookDirs   = []delta{{-1, 0}, {1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []delta{{-1, -1}, {-1, 1}, {1, 1}, {1, -1}}
	queenDirs  = append(append([]delta{}, rookDirs...), bishopDirs...)

	knightJumps = []delta{
		{-1, -2}, {-2, -1}, {2, -1}, {1, -2},
		{1, 2}, {2, 1}, {-2, 1}, {-1, 2},
	}
	kingSteps = []delta{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}
)

var promotionPieces = [4]PieceType{Queen, Rook, Bishop, Knight}

// pawnForward returns the rank step of a pawn of the given color.
func pawnForward(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

// slide appends every square a slider on sq reaches along dirs: empty squares
// up to the first blocker, plus the blocker itself if it is an enemy piece.
func (b *Board) slide(sq Square, us Color, dirs []delta, dst []Square) []Square {
	for _, d := range dirs {
		to, ok := sq.offset(d.df, d.dr)
		for ok {
			cell := b.Cells[to]
			if !cell.IsEmpty() {
				if cell.Color() != us {
					dst = append(dst, to)
				}
				break
			}
			dst = append(dst, to)
			to, ok = to.offset(d.df, d.dr)
		}
	}
	return dst
}

// step appends the single-step targets of a knight or king on sq that are
// empty or hold an enemy piece.
func (b *Board) step(sq Square, us Color, deltas []delta, dst []Square) []Square {
	for _, d := range deltas {
		to, ok := sq.offset(d.df, d.dr)
		if !ok {
			continue
		}
		if cell := b.Cells[to]; cell.IsEmpty() || cell.Color() != us {
			dst = append(dst, to)
		}
	}
	return dst
}

// targets appends the non-pawn destinations of the piece on sq, castling
// excluded.
func (b *Board) targets(sq Square, cell Cell, dst []Square) []Square {
	us := cell.Color()
	switch cell.Type() {
	case Rook:
		return b.slide(sq, us, rookDirs, dst)
	case Bishop:
		return b.slide(sq, us, bishopDirs, dst)
	case Queen:
		return b.slide(sq, us, queenDirs, dst)
	case Knight:
		return b.step(sq, us, knightJumps, dst)
	case King:
		return b.step(sq, us, kingSteps, dst)
	}
	return dst
}

// AttackingRange returns every square the pieces of attacker could capture
// on, and whether the defending king stands on one of them. Pawns attack
// diagonally only. Rays and jumps stop short of the attacker's own pieces.
func (b *Board) AttackingRange(attacker Color) (Bitboard, bool) {
	var attacked Bitboard
	var buf [32]Square

	for sq := A1; sq <= H8; sq++ {
		cell := b.Cells[sq]
		if cell.IsEmpty() || cell.Color() != attacker {
			continue
		}
		if cell.Type() == Pawn {
			fwd := pawnForward(attacker)
			for _, df := range [2]int{-1, 1} {
				if to, ok := sq.offset(df, fwd); ok {
					attacked = attacked.Set(to)
				}
			}
			continue
		}
		for _, to := range b.targets(sq, cell, buf[:0]) {
			attacked = attacked.Set(to)
		}
	}

	ksq := b.KingSquare(attacker.Other())
	return attacked, ksq != NoSquare && attacked.IsSet(ksq)
}

// InCheck returns true if the side to move is in check.
func (b *Board) InCheck() bool {
	_, checked := b.AttackingRange(b.SideToMove.Other())
	return checked
}

// GeneratePseudoLegalMoves returns every move of the side to move that
// obeys the piece movement rules, without checking king safety except for
// castling. enemyRange must be the opponent's attacking range.
func (b *Board) GeneratePseudoLegalMoves(enemyRange Bitboard) []Move {
	us := b.SideToMove
	moves := make([]Move, 0, 48)
	var buf [32]Square

	for sq := A1; sq <= H8; sq++ {
		cell := b.Cells[sq]
		if cell.IsEmpty() || cell.Color() != us {
			continue
		}
		switch cell.Type() {
		case Pawn:
			moves = b.generatePawnMoves(moves, sq)
		case King:
			for _, to := range b.targets(sq, cell, buf[:0]) {
				moves = append(moves, NewMove(sq, to))
			}
			moves = b.generateCastlingMoves(moves, sq, enemyRange)
		default:
			for _, to := range b.targets(sq, cell, buf[:0]) {
				moves = append(moves, NewMove(sq, to))
			}
		}
	}
	return moves
}

func (b *Board) generatePawnMoves(moves []Move, from Square) []Move {
	us := b.SideToMove
	fwd := pawnForward(us)

	if one, ok := from.offset(0, fwd); ok && b.Cells[one].IsEmpty() {
		moves = addPawnMove(moves, us, from, one)
		if from.RelativeRank(us) == 1 {
			if two, _ := one.offset(0, fwd); b.Cells[two].IsEmpty() {
				moves = addPawnMove(moves, us, from, two)
			}
		}
	}

	for _, df := range [2]int{1, -1} {
		to, ok := from.offset(df, fwd)
		if !ok {
			continue
		}
		if b.Cells[to].IsEnemyOf(us) || to == b.EnPassant {
			moves = addPawnMove(moves, us, from, to)
		}
	}
	return moves
}

// addPawnMove appends a pawn move, expanded into the four promotions when
// it reaches the last rank.
func addPawnMove(moves []Move, us Color, from, to Square) []Move {
	if to.RelativeRank(us) != 7 {
		return append(moves, NewMove(from, to))
	}
	for _, pt := range promotionPieces {
		moves = append(moves, NewPromotion(from, to, NewCell(us, pt)))
	}
	return moves
}

func (b *Board) generateCastlingMoves(moves []Move, from Square, enemyRange Bitboard) []Move {
	us := b.SideToMove
	for _, c := range castles {
		if b.CastlingRights&c.right == 0 || from != c.kingFrom || !b.Cells[c.rookFrom].Is(us, Rook) {
			continue
		}
		if castlePathClear(b, c, enemyRange) {
			moves = append(moves, NewMove(from, c.kingTo))
		}
	}
	return moves
}

func castlePathClear(b *Board, c castle, enemyRange Bitboard) bool {
	for _, sq := range c.empty {
		if !b.Cells[sq].IsEmpty() {
			return false
		}
	}
	for _, sq := range c.safe {
		if enemyRange.IsSet(sq) {
			return false
		}
	}
	return true
}

// PossibleMoves returns the legal moves of the side to move and whether it
// is in check. Candidates are generated pseudo-legally and kept only if,
// played on a scratch copy, they leave the mover's king out of the
// opponent's attacking range.
//
// An empty Moves with InCheck set is checkmate; without it, stalemate.
func (b *Board) PossibleMoves() MoveSet {
	them := b.SideToMove.Other()
	enemyRange, checked := b.AttackingRange(them)

	candidates := b.GeneratePseudoLegalMoves(enemyRange)
	legal := candidates[:0]
	for _, m := range candidates {
		scratch := *b
		scratch.MakeMove(m)
		if _, exposed := scratch.AttackingRange(them); !exposed {
			legal = append(legal, m)
		}
	}
	return MoveSet{InCheck: checked, Moves: legal}
}

// IsCheckmate returns true if the position is checkmate.
func (b *Board) IsCheckmate() bool {
	return b.PossibleMoves().IsCheckmate()
}

// IsStalemate returns true if the position is stalemate.
func (b *Board) IsStalemate() bool {
	return b.PossibleMoves().IsStalemate()
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(b *Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := b.PossibleMoves().Moves
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		child := *b
		child.MakeMove(m)
		nodes += Perft(&child, depth-1)
	}
	return nodes
}
