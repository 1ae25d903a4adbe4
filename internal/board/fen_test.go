package board

import "testing"

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 12 40",
		"4k3/8/8/8/8/8/8/4K3 b - - 0 1",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := pos.ToFEN(); got != fen {
			t.Errorf("ToFEN() = %q, want %q", got, fen)
		}
	}
}

func TestParseFENStartingPosition(t *testing.T) {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	if *pos != *NewBoard() {
		t.Errorf("ParseFEN(StartFEN) differs from NewBoard():%s", pos)
	}
	if pos.PieceCount(White) != 16 || pos.PieceCount(Black) != 16 {
		t.Errorf("piece counts = %d/%d", pos.PieceCount(White), pos.PieceCount(Black))
	}
	if pos.KingSquare(Black) != E8 {
		t.Errorf("black king on %s", pos.KingSquare(Black))
	}
}

func TestParseFENOptionalCounters(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/4K3 w - -")
	if err != nil {
		t.Fatal(err)
	}
	if pos.HalfMoveClock != 0 || pos.FullMoveNumber != 1 {
		t.Errorf("counters = %d %d, want 0 1", pos.HalfMoveClock, pos.FullMoveNumber)
	}
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"too few fields", "8/8/8/8/8/8/8/8 w"},
		{"seven ranks", "8/8/8/8/8/8/8 w - - 0 1"},
		{"long rank", "9/8/8/8/8/8/8/8 w - - 0 1"},
		{"short rank", "7/8/8/8/8/8/8/8 w - - 0 1"},
		{"bad piece", "4x3/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"bad side", "4k3/8/8/8/8/8/8/4K3 x - - 0 1"},
		{"bad castling", "4k3/8/8/8/8/8/8/4K3 w X - 0 1"},
		{"bad en passant rank", "4k3/8/8/8/8/8/8/4K3 w - e4 0 1"},
		{"bad clock", "4k3/8/8/8/8/8/8/4K3 w - - x 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseFEN(tc.fen); err == nil {
				t.Errorf("ParseFEN(%q) should fail", tc.fen)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		fen   string
		valid bool
	}{
		{StartFEN, true},
		{"8/8/8/8/8/8/8/4K3 w - - 0 1", false},
		{"4k3/8/8/8/8/8/8/4KK2 w - - 0 1", false},
		{"P3k3/8/8/8/8/8/8/4K3 w - - 0 1", false},
	}

	for _, tc := range tests {
		pos, err := ParseFEN(tc.fen)
		if err != nil {
			t.Fatal(err)
		}
		if err := pos.Validate(); (err == nil) != tc.valid {
			t.Errorf("Validate(%q) = %v, want valid=%v", tc.fen, err, tc.valid)
		}
	}
}
