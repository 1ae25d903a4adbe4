package board

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalMove is returned when a move is not legal in the position it
	// is applied to.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidCell is returned when a 4-bit cell code or piece index does
	// not name a piece.
	ErrInvalidCell = errors.New("invalid cell")
)

// Move is a 16-bit move request:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-15: promotion cell (0 unless a pawn reaches the last rank)
//
// The values 0 and 1 never describe a real move; they are the leading
// sentinels of the wire form of a MoveSet.
type Move uint16

const (
	fromMask  = 0x003F
	toMask    = 0x0FC0
	promoMask = 0xF000
)

// NoMove represents an invalid or null move.
const NoMove Move = 0

// Leading sentinels of a sentinel-prefixed move list.
const (
	MovesUncheckedLeader Move = 0
	MovesCheckedLeader   Move = 1
)

// NewMove creates a move without promotion.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion creates a move that lands as the given cell.
func NewPromotion(from, to Square, promo Cell) Move {
	return Move(from) | Move(to)<<6 | Move(promo.Nibble())<<12
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & fromMask)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m & toMask) >> 6)
}

// Promotion returns the promotion cell, Empty for ordinary moves.
func (m Move) Promotion() Cell {
	return Cell((m & promoMask) >> 12)
}

// IsPromotion returns true if this move carries a promotion cell.
func (m Move) IsPromotion() bool {
	return m&promoMask != 0
}

// IsCapture returns true if the move lands on an occupied square or takes
// en passant in the given position.
func (m Move) IsCapture(b *Board) bool {
	if !b.Cells[m.To()].IsEmpty() {
		return true
	}
	return b.Cells[m.From()].Type() == Pawn && m.To() == b.EnPassant
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Type().Char())
	}
	return s
}

// ParseMove resolves a UCI move string against the legal moves of b.
func ParseMove(s string, b *Board) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	promo := NoPieceType
	if len(s) == 5 {
		cell, ok := CellFromChar(s[4])
		if !ok || cell.Type() == Pawn || cell.Type() == King {
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		promo = cell.Type()
	}

	for _, m := range b.PossibleMoves().Moves {
		if m.From() != from || m.To() != to {
			continue
		}
		if m.IsPromotion() == (promo != NoPieceType) && (promo == NoPieceType || m.Promotion().Type() == promo) {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
}

// MoveResult extends a Move with everything needed to take it back:
// bits 0-15:  the Move
// bits 16-19: captured cell
// bit 20:     en passant capture
// bit 21:     castling
// bits 22-25: castling rights before the move (K, Q, k, q)
// bits 26-28: en passant file before the move
// bit 29:     en passant target present before the move
type MoveResult uint32

const (
	resultCaptureShift  = 16
	resultCaptureMask   = 0xF << resultCaptureShift
	resultEnPassant     = 1 << 20
	resultCastle        = 1 << 21
	resultRightsShift   = 22
	resultRightsMask    = 0xF << resultRightsShift
	resultPrevEPShift   = 26
	resultPrevEPMask    = 0x7 << resultPrevEPShift
	resultPrevEPPresent = 1 << 29
)

func newMoveResult(m Move, rights CastlingRights, ep Square) MoveResult {
	r := MoveResult(m) | MoveResult(rights)<<resultRightsShift
	if ep != NoSquare {
		r |= MoveResult(ep.File())<<resultPrevEPShift | resultPrevEPPresent
	}
	return r
}

// Move returns the request this result was produced from.
func (r MoveResult) Move() Move {
	return Move(r & 0xFFFF)
}

// Captured returns the captured cell, Empty if nothing was taken.
func (r MoveResult) Captured() Cell {
	return Cell((r & resultCaptureMask) >> resultCaptureShift)
}

// IsEnPassant reports whether the move captured en passant.
func (r MoveResult) IsEnPassant() bool {
	return r&resultEnPassant != 0
}

// IsCastle reports whether the move castled.
func (r MoveResult) IsCastle() bool {
	return r&resultCastle != 0
}

// PrevCastlingRights returns the castling rights before the move.
func (r MoveResult) PrevCastlingRights() CastlingRights {
	return CastlingRights((r & resultRightsMask) >> resultRightsShift)
}

// prevEnPassantFile returns the en passant file before the move and whether
// a target was set at all.
func (r MoveResult) prevEnPassantFile() (int, bool) {
	return int((r & resultPrevEPMask) >> resultPrevEPShift), r&resultPrevEPPresent != 0
}

func (r *MoveResult) setCapture(c Cell) {
	*r = *r&^resultCaptureMask | MoveResult(c.Nibble())<<resultCaptureShift
}

func (r *MoveResult) setPromotion(c Cell) {
	*r = *r&^promoMask | MoveResult(c.Nibble())<<12
}

// MoveSet is the result of legal move generation: whether the side to move
// is in check, and its legal moves in generation order.
type MoveSet struct {
	InCheck bool
	Moves   []Move
}

// IsCheckmate reports a position with no legal moves while in check.
func (ms MoveSet) IsCheckmate() bool {
	return ms.InCheck && len(ms.Moves) == 0
}

// IsStalemate reports a position with no legal moves and no check.
func (ms MoveSet) IsStalemate() bool {
	return !ms.InCheck && len(ms.Moves) == 0
}

// Contains returns true if the set contains the move.
func (ms MoveSet) Contains(m Move) bool {
	for _, x := range ms.Moves {
		if x == m {
			return true
		}
	}
	return false
}

// Encode returns the sentinel-prefixed wire form: MovesCheckedLeader or
// MovesUncheckedLeader followed by the moves.
func (ms MoveSet) Encode() []Move {
	out := make([]Move, 0, len(ms.Moves)+1)
	if ms.InCheck {
		out = append(out, MovesCheckedLeader)
	} else {
		out = append(out, MovesUncheckedLeader)
	}
	return append(out, ms.Moves...)
}

// DecodeMoveSet parses the sentinel-prefixed wire form.
func DecodeMoveSet(list []Move) (MoveSet, error) {
	if len(list) == 0 {
		return MoveSet{}, errors.New("move list is missing its leader")
	}
	var ms MoveSet
	switch list[0] {
	case MovesCheckedLeader:
		ms.InCheck = true
	case MovesUncheckedLeader:
	default:
		return MoveSet{}, fmt.Errorf("invalid move list leader %d", list[0])
	}
	ms.Moves = append([]Move(nil), list[1:]...)
	return ms, nil
}
