package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
// The bit layout is shared with MoveResult and the snapshot byte.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleRight(c, kingSide) != 0
}

func castleRight(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// Board is a complete chess position. It is a plain value: copying it is a
// full, independent clone.
type Board struct {
	Cells [64]Cell

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // Square passed over by the last double step, NoSquare if none
	HalfMoveClock  int    // Moves since last pawn move or capture
	FullMoveNumber int    // Starts at 1, incremented after Black moves
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard creates the starting position.
func NewBoard() *Board {
	b := &Board{
		SideToMove:     White,
		CastlingRights: AllCastling,
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	for file, pt := range backRank {
		b.Cells[NewSquare(file, 0)] = NewCell(White, pt)
		b.Cells[NewSquare(file, 1)] = NewCell(White, Pawn)
		b.Cells[NewSquare(file, 6)] = NewCell(Black, Pawn)
		b.Cells[NewSquare(file, 7)] = NewCell(Black, pt)
	}
	return b
}

// EmptyBoard returns a board with no pieces, White to move.
func EmptyBoard() *Board {
	return &Board{EnPassant: NoSquare, FullMoveNumber: 1}
}

// Copy creates a deep copy of the position.
func (b *Board) Copy() *Board {
	nb := *b
	return &nb
}

// PieceAt returns the cell at the given square.
func (b *Board) PieceAt(sq Square) Cell {
	return b.Cells[sq]
}

// KingSquare returns the square of the given side's king, NoSquare if absent.
func (b *Board) KingSquare(c Color) Square {
	king := NewCell(c, King)
	for sq := A1; sq <= H8; sq++ {
		if b.Cells[sq] == king {
			return sq
		}
	}
	return NoSquare
}

// PieceCount returns the number of pieces the given side has on the board.
func (b *Board) PieceCount(c Color) int {
	n := 0
	for _, cell := range b.Cells {
		if !cell.IsEmpty() && cell.Color() == c {
			n++
		}
	}
	return n
}

// Equal reports whether two positions have the same pieces, side to move,
// castling rights and en passant target. Move counters are ignored.
func (b *Board) Equal(o *Board) bool {
	return b.Cells == o.Cells &&
		b.SideToMove == o.SideToMove &&
		b.CastlingRights == o.CastlingRights &&
		b.EnPassant == o.EnPassant
}

// String returns a visual representation of the position.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteString(b.Cells[NewSquare(file, rank)].String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", b.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", b.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", b.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", b.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", b.FullMoveNumber)
	return sb.String()
}

// Validate checks that the position can be searched: one king per side and
// no pawns on the first or last rank.
func (b *Board) Validate() error {
	kings := [2]int{}
	for sq, cell := range b.Cells {
		if cell.IsEmpty() {
			continue
		}
		switch cell.Type() {
		case King:
			kings[cell.Color()]++
		case Pawn:
			if r := Square(sq).Rank(); r == 0 || r == 7 {
				return fmt.Errorf("pawn on %s cannot stand on the first or last rank", Square(sq))
			}
		}
	}
	if kings[White] != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if kings[Black] != 1 {
		return fmt.Errorf("black must have exactly one king")
	}
	return nil
}
