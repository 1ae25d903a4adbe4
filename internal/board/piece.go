package board

import "fmt"

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType represents the type of a chess piece.
// The numeric order is part of the cell encoding and must not change.
type PieceType uint8

const (
	Pawn PieceType = iota
	Rook
	Knight
	Bishop
	Queen
	King
)

// NoPieceType is returned by accessors on empty cells.
const NoPieceType PieceType = 6

// PieceTypeFromIndex maps a raw index to a PieceType, rejecting anything
// outside Pawn..King.
func PieceTypeFromIndex(v uint8) (PieceType, error) {
	if v > uint8(King) {
		return NoPieceType, fmt.Errorf("%w: piece index %d", ErrInvalidCell, v)
	}
	return PieceType(v), nil
}

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	if pt >= NoPieceType {
		return ' '
	}
	return "prnbqk"[pt]
}

// Value returns the material value in centipawns. The king is worth nothing
// because it can never be traded.
func (pt PieceType) Value() int {
	if pt >= NoPieceType {
		return 0
	}
	return pieceValue[pt]
}

var pieceValue = [6]int{100, 500, 300, 300, 900, 0}

// Cell is the content of one square, stored directly as its 4-bit encoding:
// 0 is empty, otherwise 1 + color<<3 + pieceType. White pieces occupy 1..6 and
// black pieces 9..14.
type Cell uint8

// Empty is the unoccupied cell.
const Empty Cell = 0

const cellColorBit = 8

// NewCell builds an occupied cell.
func NewCell(c Color, pt PieceType) Cell {
	return Cell(1 + uint8(c)<<3 + uint8(pt))
}

// CellFromNibble decodes a 4-bit cell value, rejecting the unused codes.
func CellFromNibble(v uint8) (Cell, error) {
	if v == 0 {
		return Empty, nil
	}
	if v > 15 {
		return Empty, fmt.Errorf("%w: nibble %d out of range", ErrInvalidCell, v)
	}
	if _, err := PieceTypeFromIndex((v - 1) &^ cellColorBit); err != nil {
		return Empty, err
	}
	return Cell(v), nil
}

// Nibble returns the 4-bit encoding of the cell.
func (c Cell) Nibble() uint8 {
	return uint8(c) & 0xF
}

// IsEmpty reports whether nothing stands on the cell.
func (c Cell) IsEmpty() bool {
	return c == Empty
}

// Color returns the owner of an occupied cell. Meaningless on Empty.
func (c Cell) Color() Color {
	if uint8(c)&cellColorBit != 0 {
		return Black
	}
	return White
}

// Type returns the piece type, or NoPieceType for an empty cell.
func (c Cell) Type() PieceType {
	if c == Empty {
		return NoPieceType
	}
	return PieceType((uint8(c) - 1) &^ cellColorBit)
}

// Is reports whether the cell holds exactly the given piece.
func (c Cell) Is(col Color, pt PieceType) bool {
	return c == NewCell(col, pt)
}

// IsEnemyOf reports whether the cell holds a piece of the other color.
func (c Cell) IsEnemyOf(col Color) bool {
	return c != Empty && c.Color() != col
}

// String returns the FEN character for the cell.
// Uppercase for white, lowercase for black, a dot for empty.
func (c Cell) String() string {
	if c == Empty {
		return "."
	}
	ch := c.Type().Char()
	if c.Color() == White {
		ch -= 'a' - 'A'
	}
	return string(ch)
}

// CellFromChar converts a FEN character to a Cell.
func CellFromChar(ch byte) (Cell, bool) {
	col := White
	if ch >= 'a' && ch <= 'z' {
		col = Black
		ch -= 'a' - 'A'
	}
	switch ch {
	case 'P':
		return NewCell(col, Pawn), true
	case 'R':
		return NewCell(col, Rook), true
	case 'N':
		return NewCell(col, Knight), true
	case 'B':
		return NewCell(col, Bishop), true
	case 'Q':
		return NewCell(col, Queen), true
	case 'K':
		return NewCell(col, King), true
	default:
		return Empty, false
	}
}
