package engine

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
)

func mustParse(t *testing.T, fen string) *board.Board {
	t.Helper()
	b, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

func TestEvaluateStartingPositionIsBalanced(t *testing.T) {
	if got := Evaluate(board.NewBoard()); got != 0 {
		t.Errorf("Evaluate(start) = %d, want 0", got)
	}
}

func TestEvaluateMaterial(t *testing.T) {
	// Same structure, Black is missing the queen.
	b := mustParse(t, "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if got := Evaluate(b); got < materialScale*800 {
		t.Errorf("Evaluate() = %d, want at least a queen's worth for White", got)
	}
}

func TestEvaluateBlendsByPieceCount(t *testing.T) {
	// Each term is 16*value + n*opening + (16-n)*endgame, n being the
	// owner's piece count.
	tests := []struct {
		name string
		fen  string
		want int
	}{
		// Pawn e2: 1600 + 2*-20 + 14*10. King e1: 2*0 + 14*-30.
		// King e8, n=1: 15*-30, negated.
		{"king and pawn against king", "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", 1700 - 420 + 450},
		// Queen d1: 14400 + 16*-5.
		{"king and queen against king", "4k3/8/8/8/8/8/8/3QK3 w - - 0 1", 14320 - 420 + 450},
		{"king against king and queen", "3qk3/8/8/8/8/8/8/4K3 w - - 0 1", -14320 + 420 - 450},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(mustParse(t, tc.fen)); got != tc.want {
				t.Errorf("Evaluate() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestEvaluateMirrorSymmetry(t *testing.T) {
	// Each position is followed by its color-flipped mirror.
	pairs := [][2]string{
		{"4k3/8/8/8/4P3/8/8/4K3 w - - 0 1", "4k3/8/8/4p3/8/8/8/4K3 b - - 0 1"},
		{"4k3/8/8/3N4/8/8/8/R3K3 w - - 0 1", "r3k3/8/8/8/3n4/8/8/4K3 b - - 0 1"},
	}
	for _, p := range pairs {
		a, b := Evaluate(mustParse(t, p[0])), Evaluate(mustParse(t, p[1]))
		if a != -b {
			t.Errorf("Evaluate(%q) = %d, mirror = %d", p[0], a, b)
		}
	}
}

func TestCaptureOrdering(t *testing.T) {
	// The pawn can take the queen, the queen can take the pawn.
	b := mustParse(t, "4k3/8/8/3q4/4P3/8/8/3QK3 w - - 0 1")
	moves := b.PossibleMoves().Moves
	orderMoves(b, moves)

	if moves[0] != board.NewMove(board.E4, board.D5) {
		t.Errorf("first move = %s, want e4d5", moves[0])
	}
	if moves[1] != board.NewMove(board.D1, board.D5) {
		t.Errorf("second move = %s, want d1d5", moves[1])
	}
}

func TestSearchStartingPosition(t *testing.T) {
	eng := NewEngine(Config{})
	eng.SetDifficulty(Easy)

	d := eng.SelectMove(*board.NewBoard())
	if d.Move == board.NoMove {
		t.Fatal("Search returned NoMove for starting position")
	}
	if !board.NewBoard().PossibleMoves().Contains(d.Move) {
		t.Errorf("Search returned illegal move %s", d.Move)
	}
	t.Logf("Best move: %s (%s)", d.Move, ScoreToString(d.Score))
}

func TestSearchDeterministic(t *testing.T) {
	b := mustParse(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	eng := NewEngine(Config{})

	first := eng.Search(*b, 3)
	second := eng.Search(*b, 3)
	if first != second {
		t.Errorf("searches differ: %+v vs %+v", first, second)
	}
}

func TestSearchFindsMateInOne(t *testing.T) {
	tests := []struct {
		fen  string
		want string
	}{
		{"6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8"},
		{"r5k1/8/8/8/8/8/5PPP/6K1 b - - 0 1", "a8a1"},
	}

	eng := NewEngine(Config{})
	for _, tc := range tests {
		t.Run(tc.fen, func(t *testing.T) {
			b := mustParse(t, tc.fen)
			d := eng.Search(*b, 2)
			if d.Move.String() != tc.want {
				t.Errorf("move = %s, want %s", d.Move, tc.want)
			}
			if !IsMateScore(d.Score) {
				t.Errorf("score = %d, want a mate score", d.Score)
			}
			if (b.SideToMove == board.White) != (d.Score > 0) {
				t.Errorf("score %d has the wrong sign", d.Score)
			}
		})
	}
}

func TestAlphaBetaMateDistance(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
		want  int
	}{
		{"mate in one", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", 2, MateScore - 1},
		// Longer mates are also on the board; the shortest one wins.
		{"mate in one seen deeper", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", 4, MateScore - 1},
		// 1.Kg6 Kg8 2.Ra8# or 1.Kf7 Kh7 2.Rh1#
		{"white mates in two", "7k/8/5K2/8/8/8/8/R7 w - - 0 1", 4, MateScore - 3},
		{"black mates in two", "r7/8/8/8/8/5k2/8/7K b - - 0 1", 4, -(MateScore - 3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustParse(t, tc.fen)
			if got := NewSearcher().AlphaBeta(b, tc.depth, -Infinity, Infinity); got != tc.want {
				t.Errorf("AlphaBeta(depth %d) = %d, want %d", tc.depth, got, tc.want)
			}
		})
	}
}

func TestSearchPrefersShorterMate(t *testing.T) {
	b := mustParse(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	d := NewEngine(Config{}).Search(*b, 4)
	if d.Move.String() != "a1a8" {
		t.Errorf("move = %s, want a1a8", d.Move)
	}
	if MateDistance(d.Score) != 0 {
		t.Errorf("mate distance = %d, want 0", MateDistance(d.Score))
	}
	if got := ScoreToString(d.Score); got != "White mates in 1" {
		t.Errorf("ScoreToString() = %q, want White mates in 1", got)
	}
}

func TestSearchReportsMateDistance(t *testing.T) {
	tests := []struct {
		fen   string
		score int
		text  string
	}{
		{"7k/8/5K2/8/8/8/8/R7 w - - 0 1", MateScore - 2, "White mates in 2"},
		{"r7/8/8/8/8/5k2/8/7K b - - 0 1", -(MateScore - 2), "Black mates in 2"},
	}

	eng := NewEngine(Config{})
	for _, tc := range tests {
		t.Run(tc.fen, func(t *testing.T) {
			d := eng.Search(*mustParse(t, tc.fen), 4)
			if d.Move == board.NoMove {
				t.Fatal("Search returned NoMove")
			}
			if d.Score != tc.score {
				t.Errorf("score = %d, want %d", d.Score, tc.score)
			}
			if MateDistance(d.Score) != 2 {
				t.Errorf("mate distance = %d, want 2", MateDistance(d.Score))
			}
			if got := ScoreToString(d.Score); got != tc.text {
				t.Errorf("ScoreToString() = %q, want %q", got, tc.text)
			}
		})
	}
}

func TestSearchTerminalPositions(t *testing.T) {
	eng := NewEngine(Config{})

	stalemate := mustParse(t, "8/8/8/8/8/kq6/8/K7 w - - 0 1")
	if d := eng.Search(*stalemate, 3); d.Move != board.NoMove || d.Score != 0 {
		t.Errorf("stalemate decision = %+v, want NoMove/0", d)
	}

	mated := mustParse(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if d := eng.Search(*mated, 3); d.Move != board.NoMove || d.Score != -MateScore {
		t.Errorf("checkmate decision = %+v, want NoMove/-MateScore", d)
	}
}

func TestAlphaBetaStalemateScoresZero(t *testing.T) {
	b := mustParse(t, "8/8/8/8/8/kq6/8/K7 w - - 0 1")
	if got := NewSearcher().AlphaBeta(b, 2, -Infinity, Infinity); got != 0 {
		t.Errorf("AlphaBeta(stalemate) = %d, want 0", got)
	}
}

// minimax is an unpruned reference search with the same terminal scoring
// and mate-distance adjustment.
func minimax(b *board.Board, depth int) int {
	if depth == 0 {
		return Evaluate(b)
	}
	ms := b.PossibleMoves()
	if len(ms.Moves) == 0 {
		if !ms.InCheck {
			return 0
		}
		if b.SideToMove == board.White {
			return -MateScore
		}
		return MateScore
	}

	maximize := b.SideToMove == board.White
	best := Infinity
	if maximize {
		best = -Infinity
	}
	for _, m := range ms.Moves {
		child := *b
		child.MakeMove(m)
		v := adjustMateDistance(minimax(&child, depth-1))
		if maximize {
			best = max(best, v)
		} else {
			best = min(best, v)
		}
	}
	return best
}

// rootMinimax scores the best root move the way Search does: the root
// itself applies no mate-distance adjustment.
func rootMinimax(b *board.Board, depth int) int {
	maximize := b.SideToMove == board.White
	best := Infinity
	if maximize {
		best = -Infinity
	}
	for _, m := range b.PossibleMoves().Moves {
		child := *b
		child.MakeMove(m)
		v := minimax(&child, depth-1)
		if maximize {
			best = max(best, v)
		} else {
			best = min(best, v)
		}
	}
	return best
}

func TestPruningMatchesMinimax(t *testing.T) {
	fens := []string{
		"4k3/8/3p4/2p5/3P4/4N3/8/4K3 w - - 0 1",
		"r3k3/1p6/8/3b4/8/2N5/1P6/4K2R b K - 0 1",
		"4k3/pp3p2/8/8/2B5/8/5PP1/4K3 b - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			b := mustParse(t, fen)
			for depth := 1; depth <= 3; depth++ {
				want := minimax(b, depth)
				got := NewSearcher().AlphaBeta(b, depth, -Infinity, Infinity)
				if got != want {
					t.Errorf("depth %d: AlphaBeta = %d, minimax = %d", depth, got, want)
				}

				d := NewEngine(Config{}).Search(*b, depth)
				if wantRoot := rootMinimax(b, depth); d.Score != wantRoot {
					t.Errorf("depth %d: Search score = %d, minimax = %d", depth, d.Score, wantRoot)
				}
			}
		})
	}
}

func TestDecisionPacking(t *testing.T) {
	tests := []Decision{
		{Move: board.NewMove(board.E2, board.E4), Score: 1234},
		{Move: board.NewPromotion(board.A2, board.A1, board.NewCell(board.Black, board.Queen)), Score: -56789},
		{Move: board.NoMove, Score: -MateScore},
		{Move: board.NewMove(board.H7, board.H8), Score: MateScore - 3},
	}

	for _, d := range tests {
		v := d.Pack()
		if uint32(v) != uint32(d.Move) {
			t.Errorf("low half of %#x = %#x, want move %#x", v, uint32(v), uint16(d.Move))
		}
		if got := UnpackDecision(v); got != d {
			t.Errorf("UnpackDecision(Pack(%+v)) = %+v", d, got)
		}
	}
}

func TestSearchReportsEveryIteration(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	eng := NewEngine(Config{MaxDepth: 3, Logger: &logger})

	var depths []int
	eng.OnInfo = func(info SearchInfo) {
		depths = append(depths, info.Depth)
		if info.Move == board.NoMove {
			t.Errorf("depth %d reported NoMove", info.Depth)
		}
	}
	eng.SelectMove(*board.NewBoard())

	if len(depths) != 3 || depths[0] != 1 || depths[2] != 3 {
		t.Errorf("reported depths = %v, want [1 2 3]", depths)
	}
}

func TestRandomMover(t *testing.T) {
	b := board.NewBoard()
	a, c := NewRandomMover(42), NewRandomMover(42)

	for i := 0; i < 10; i++ {
		da, dc := a.SelectMove(*b), c.SelectMove(*b)
		if da != dc {
			t.Fatalf("same seed gave %s and %s", da.Move, dc.Move)
		}
		if !b.PossibleMoves().Contains(da.Move) || da.Score != 0 {
			t.Errorf("decision %+v is not a legal zero-score move", da)
		}
	}

	stalemate := mustParse(t, "8/8/8/8/8/kq6/8/K7 w - - 0 1")
	if d := a.SelectMove(*stalemate); d.Move != board.NoMove {
		t.Errorf("SelectMove(stalemate) = %s, want NoMove", d.Move)
	}

	var _ Mover = a
	var _ Mover = NewEngine(Config{})
}
