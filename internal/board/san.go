package board

import (
	"strings"
)

// ToSAN converts a legal move to Standard Algebraic Notation.
func (m Move) ToSAN(b *Board) string {
	if m == NoMove {
		return "-"
	}

	from := m.From()
	to := m.To()
	cell := b.Cells[from]

	if cell.IsEmpty() {
		return m.String() // Fallback to UCI
	}

	pt := cell.Type()

	var sb strings.Builder

	// Castling
	if pt == King && abs(int(to)-int(from)) == 2 {
		if to > from {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		if pt != Pawn {
			sb.WriteByte(cell.Type().Char() - ('a' - 'A'))
			sb.WriteString(getDisambiguation(b, m, pt))
		}

		if m.IsCapture(b) {
			if pt == Pawn {
				// Pawn captures include the file of origin
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(to.String())

		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(m.Promotion().Type().Char() - ('a' - 'A'))
		}
	}

	// Check/checkmate marker
	after := b.Copy()
	after.MakeMove(m)
	next := after.PossibleMoves()
	if next.IsCheckmate() {
		sb.WriteByte('#')
	} else if next.InCheck {
		sb.WriteByte('+')
	}

	return sb.String()
}

// getDisambiguation returns the file, rank or square needed to tell m apart
// from other pieces of the same type that can reach the same square.
func getDisambiguation(b *Board, m Move, pt PieceType) string {
	from := m.From()
	to := m.To()
	us := b.SideToMove

	var candidates []Square
	for _, move := range b.PossibleMoves().Moves {
		if move.To() != to || move.From() == from {
			continue
		}
		if b.Cells[move.From()].Is(us, pt) {
			candidates = append(candidates, move.From())
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sameFile := false
	sameRank := false
	for _, sq := range candidates {
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Rank() == from.Rank() {
			sameRank = true
		}
	}

	if !sameFile {
		return string(rune('a' + from.File()))
	}
	if !sameRank {
		return string(rune('1' + from.Rank()))
	}
	return from.String()
}

// MovesToSAN converts a sequence of moves played from b to SAN notation.
func MovesToSAN(b *Board, moves []Move) []string {
	result := make([]string, len(moves))
	p := b.Copy()

	for i, m := range moves {
		result[i] = m.ToSAN(p)
		p.MakeMove(m)
	}

	return result
}
