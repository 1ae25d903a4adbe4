package board

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// SnapshotSize is the length of a serialized board.
const SnapshotSize = 36

// ErrInvalidSnapshot is returned when a snapshot cannot be decoded.
var ErrInvalidSnapshot = errors.New("invalid board snapshot")

// Serialize encodes the board into its 36-byte snapshot:
//
//	bytes 0-31: two cells per byte, low nibble first (a1 in the low nibble of byte 0)
//	byte 32:    bit 0 side to move, bits 1-4 castling rights KQkq, bits 5-7 en passant file
//	byte 33:    bits 0-6 half-move clock, bit 7 en passant present
//	bytes 34-35: full-move number, little endian
func (b *Board) Serialize() [SnapshotSize]byte {
	var out [SnapshotSize]byte
	for i := 0; i < 32; i++ {
		out[i] = b.Cells[2*i].Nibble() | b.Cells[2*i+1].Nibble()<<4
	}

	out[32] = uint8(b.SideToMove) | uint8(b.CastlingRights)<<1
	out[33] = uint8(b.HalfMoveClock) & 0x7F
	if b.EnPassant != NoSquare {
		out[32] |= uint8(b.EnPassant.File()) << 5
		out[33] |= 1 << 7
	}
	binary.LittleEndian.PutUint16(out[34:], uint16(b.FullMoveNumber))
	return out
}

// ParseSnapshot decodes a snapshot produced by Serialize. The en passant
// rank is implied by the side to move.
func ParseSnapshot(data []byte) (*Board, error) {
	if len(data) != SnapshotSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSnapshot, len(data), SnapshotSize)
	}

	b := EmptyBoard()
	for i := 0; i < 32; i++ {
		lo, err := CellFromNibble(data[i] & 0xF)
		if err != nil {
			return nil, fmt.Errorf("%w: square %s: %w", ErrInvalidSnapshot, Square(2*i), err)
		}
		hi, err := CellFromNibble(data[i] >> 4)
		if err != nil {
			return nil, fmt.Errorf("%w: square %s: %w", ErrInvalidSnapshot, Square(2*i+1), err)
		}
		b.Cells[2*i], b.Cells[2*i+1] = lo, hi
	}

	b.SideToMove = Color(data[32] & 1)
	b.CastlingRights = CastlingRights(data[32]>>1) & AllCastling
	b.HalfMoveClock = int(data[33] & 0x7F)
	if data[33]&(1<<7) != 0 {
		rank := 5
		if b.SideToMove == Black {
			rank = 2
		}
		b.EnPassant = NewSquare(int(data[32]>>5), rank)
	}
	b.FullMoveNumber = int(binary.LittleEndian.Uint16(data[34:]))
	return b, nil
}
