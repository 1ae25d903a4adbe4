package engine

import (
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
)

// SearchInfo contains information about a completed iteration.
type SearchInfo struct {
	Depth int
	Score int // White-positive
	Nodes uint64
	Time  time.Duration
	Move  board.Move // Best root move so far
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth int // Maximum depth in plies
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 3 ply
	Medium                   // 4 ply
	Hard                     // 5 ply
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 3},
	Medium: {Depth: 4},
	Hard:   {Depth: 5},
}

// String returns the difficulty name.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty converts a difficulty name to a Difficulty.
func ParseDifficulty(s string) (Difficulty, bool) {
	for d := Easy; d <= Hard; d++ {
		if d.String() == s {
			return d, true
		}
	}
	return Medium, false
}

// Decision is the outcome of move selection.
type Decision struct {
	Move  board.Move
	Score int // White-positive evaluation
}

// Pack combines the decision into one value: the move encoding in the low
// 32 bits and the signed score in the high 32 bits.
func (d Decision) Pack() int64 {
	return int64(d.Score)<<32 | int64(d.Move)
}

// UnpackDecision reverses Decision.Pack.
func UnpackDecision(v int64) Decision {
	return Decision{
		Move:  board.Move(uint16(v)),
		Score: int(int32(v >> 32)),
	}
}

// Mover selects a move for the side to move. Implementations receive the
// board by value and keep no reference to it.
type Mover interface {
	SelectMove(b board.Board) Decision
}

// Config configures an Engine.
type Config struct {
	// MaxDepth overrides the difficulty depth when positive.
	MaxDepth int

	// Logger receives one debug event per completed iteration.
	// Defaults to a disabled logger.
	Logger *zerolog.Logger
}

// Engine is the search-based Mover.
type Engine struct {
	limits SearchLimits
	logger zerolog.Logger

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new engine. A zero Config searches at Medium
// difficulty without logging.
func NewEngine(cfg Config) *Engine {
	e := &Engine{
		limits: DifficultySettings[Medium],
		logger: zerolog.Nop(),
	}
	if cfg.MaxDepth > 0 {
		e.limits.Depth = cfg.MaxDepth
	}
	if cfg.Logger != nil {
		e.logger = cfg.Logger.With().Str("component", "engine").Logger()
	}
	return e
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.limits = DifficultySettings[d]
}

// SetDepth sets the maximum search depth.
func (e *Engine) SetDepth(depth int) {
	if depth > 0 {
		e.limits.Depth = depth
	}
}

// Depth returns the configured maximum search depth.
func (e *Engine) Depth() int {
	return e.limits.Depth
}

// SelectMove searches b to the configured depth.
func (e *Engine) SelectMove(b board.Board) Decision {
	return e.Search(b, e.limits.Depth)
}

// Search finds the best move for b with iterative deepening up to maxDepth
// plies. The result depends only on b and maxDepth.
//
// Depth 1 scores each root move by static evaluation. Every further
// iteration searches the root moves in the order of the previous scores,
// narrowing the window as better moves are found. When the side to move has
// no legal moves the decision is NoMove with the checkmate or stalemate
// score.
func (e *Engine) Search(b board.Board, maxDepth int) Decision {
	startTime := time.Now()
	us := b.SideToMove
	ms := b.PossibleMoves()

	if len(ms.Moves) == 0 {
		d := Decision{Move: board.NoMove}
		if ms.InCheck {
			d.Score = MateScore
			if us == board.White {
				d.Score = -MateScore
			}
		}
		e.logger.Debug().Bool("checkmate", ms.InCheck).Msg("no legal moves")
		return d
	}

	if maxDepth < 1 {
		maxDepth = 1
	}

	s := NewSearcher()

	// Root scores are kept from the mover's side so one descending sort
	// serves both colors.
	root := make([]scoredMove, len(ms.Moves))
	for i, m := range ms.Moves {
		child := b
		child.MakeMove(m)
		s.nodes++
		root[i] = scoredMove{m, evaluateFor(&child, us)}
	}
	e.report(1, us, root, s, startTime)

	for depth := 2; depth <= maxDepth; depth++ {
		sortByScore(root)

		alpha, beta := -Infinity, Infinity
		for i := range root {
			child := b
			child.MakeMove(root[i].move)
			v := s.AlphaBeta(&child, depth-1, alpha, beta)
			if us == board.White {
				alpha = max(alpha, v)
				root[i].score = v
			} else {
				beta = min(beta, v)
				root[i].score = -v
			}
		}
		e.report(depth, us, root, s, startTime)
	}

	sortByScore(root)
	return Decision{Move: root[0].move, Score: whitePositive(root[0].score, us)}
}

// report logs and publishes the best root move of a finished iteration.
func (e *Engine) report(depth int, us board.Color, root []scoredMove, s *Searcher, startTime time.Time) {
	best := root[0]
	for _, sm := range root[1:] {
		if sm.score > best.score {
			best = sm
		}
	}

	info := SearchInfo{
		Depth: depth,
		Score: whitePositive(best.score, us),
		Nodes: s.Nodes(),
		Time:  time.Since(startTime),
		Move:  best.move,
	}

	e.logger.Debug().
		Int("depth", info.Depth).
		Int("score", info.Score).
		Str("move", info.Move.String()).
		Uint64("nodes", info.Nodes).
		Dur("time", info.Time).
		Msg("iteration complete")

	if e.OnInfo != nil {
		e.OnInfo(info)
	}
}

func whitePositive(score int, us board.Color) int {
	if us == board.Black {
		return -score
	}
	return score
}

// ScoreToString converts a White-positive score to a human-readable string.
// Positional scores are scaled by 16 relative to centipawns.
func ScoreToString(score int) string {
	if IsMateScore(score) {
		if score > 0 {
			return "White mates in " + strconv.Itoa(mateInMoves(score))
		}
		return "Black mates in " + strconv.Itoa(mateInMoves(score))
	}

	cp := score / materialScale
	sign := ""
	if cp < 0 {
		sign = "-"
		cp = -cp
	}
	return sign + strconv.Itoa(cp/100) + "." + pad2(cp%100)
}

// mateInMoves converts a root mate score to full moves for the winner,
// counting the move being played.
func mateInMoves(score int) int {
	return MateDistance(score)/2 + 1
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
