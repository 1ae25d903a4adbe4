package board

import "testing"

// TestPerftStartingPosition tests move generation from the starting position.
func TestPerftStartingPosition(t *testing.T) {
	pos := NewBoard()

	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := Perft(pos, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

func TestPerftPositions(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		expected []uint64
	}{
		{
			// Castling, promotions and pins in one position.
			name:     "kiwipete",
			fen:      "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
			expected: []uint64{48, 2039, 97862},
		},
		{
			name:     "position3",
			fen:      "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
			expected: []uint64{14, 191, 2812, 43238},
		},
		{
			name:     "position4",
			fen:      "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
			expected: []uint64{6, 264, 9467},
		},
		{
			name:     "position5",
			fen:      "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
			expected: []uint64{44, 1486, 62379},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("Failed to parse FEN: %v", err)
			}
			for i, want := range tc.expected {
				if got := Perft(pos, i+1); got != want {
					t.Errorf("perft(%d) = %d, want %d", i+1, got, want)
				}
			}
		})
	}
}

// TestPerftEnPassantPin tests the specific en passant horizontal pin edge case.
// Black pawn on e4 can capture en passant d3, but this would expose the black
// king on a4 to the white rook on h4.
func TestPerftEnPassantPin(t *testing.T) {
	pos, err := ParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	for _, m := range pos.PossibleMoves().Moves {
		if m == NewMove(E4, D3) {
			t.Errorf("En passant move %v should be illegal (horizontal pin)", m)
		}
	}

	if got := Perft(pos, 1); got != 6 {
		t.Errorf("perft(1) = %d, want 6", got)
	}
	if got := Perft(pos, 2); got != 94 {
		t.Errorf("perft(2) = %d, want 94", got)
	}
}
