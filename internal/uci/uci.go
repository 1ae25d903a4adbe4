// Package uci implements a Universal Chess Interface front end for the
// engine, plus a few debugging and snapshot commands.
package uci

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

const maxDepth = 10

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine *engine.Engine
	store  *storage.Storage // nil disables the snapshot commands

	// Position after the last "position" command, the root it was built
	// from and the moves played since.
	position *board.Board
	root     *board.Board
	moves    []board.Move

	in     io.Reader
	out    io.Writer
	logger zerolog.Logger

	// CPU profiling
	profileFile *os.File
}

// New creates a new UCI protocol handler reading stdin and writing stdout.
// store may be nil.
func New(eng *engine.Engine, store *storage.Storage, logger zerolog.Logger) *UCI {
	u := &UCI{
		engine: eng,
		store:  store,
		in:     os.Stdin,
		out:    os.Stdout,
		logger: logger.With().Str("component", "uci").Logger(),
	}
	u.reset(board.NewBoard())
	return u
}

// SetIO replaces the command input and the protocol output.
func (u *UCI) SetIO(in io.Reader, out io.Writer) {
	u.in = in
	u.out = out
}

func (u *UCI) reset(b *board.Board) {
	u.root = b
	u.position = b.Copy()
	u.moves = nil
}

func (u *UCI) printf(format string, args ...interface{}) {
	fmt.Fprintf(u.out, format, args...)
}

// Run reads commands until "quit" or end of input.
func (u *UCI) Run() error {
	defer u.stopProfile()

	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.printf("readyok\n")
		case "ucinewgame":
			u.reset(board.NewBoard())
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			// Searches run to completion before the next command is read.
		case "quit":
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.handleDisplay()
		case "perft":
			u.handlePerft(args)
		case "eval":
			score := engine.Evaluate(u.position)
			u.printf("Evaluation: %s (raw %d)\n", engine.ScoreToString(score), score)
		// Snapshot commands
		case "save", "load", "delete", "snapshots":
			u.handleSnapshot(cmd, args)
		default:
			u.logger.Warn().Str("command", cmd).Msg("unknown command")
		}
	}

	return scanner.Err()
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.printf("id name ChessCore\n")
	u.printf("id author ChessCore Team\n")
	u.printf("\n")
	u.printf("option name Depth type spin default %d min 1 max %d\n", u.engine.Depth(), maxDepth)
	u.printf("option name Difficulty type combo default medium var easy var medium var hard\n")
	u.printf("option name CPUProfile type string default <empty>\n")
	u.printf("uciok\n")
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	// Find "moves" keyword
	moveStart := len(args)
	for i, arg := range args {
		if arg == "moves" {
			moveStart = i
			break
		}
	}

	var root *board.Board
	switch args[0] {
	case "startpos":
		root = board.NewBoard()
	case "fen":
		pos, err := board.ParseFEN(strings.Join(args[1:moveStart], " "))
		if err != nil {
			u.logger.Error().Err(err).Msg("invalid FEN")
			return
		}
		if err := pos.Validate(); err != nil {
			u.logger.Error().Err(err).Msg("invalid position")
			return
		}
		root = pos
	default:
		return
	}
	u.reset(root)

	// Apply moves
	if moveStart < len(args) {
		for _, moveStr := range args[moveStart+1:] {
			move, err := board.ParseMove(moveStr, u.position)
			if err != nil {
				u.logger.Error().Err(err).Str("move", moveStr).Msg("invalid move")
				return
			}
			u.position.MakeMove(move)
			u.moves = append(u.moves, move)
		}
	}
}

// parseGoDepth returns the depth of a "go" command, 0 if none or an invalid
// one was given. Time controls are accepted and ignored: the search is
// bounded by depth only.
func (u *UCI) parseGoDepth(args []string) int {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				d, err := strconv.Atoi(args[i+1])
				if err != nil || d < 1 {
					u.logger.Warn().Str("value", args[i+1]).Msg("invalid depth, using the configured depth")
					return 0
				}
				return min(d, maxDepth)
			}
		case "nodes", "movetime", "wtime", "btime", "winc", "binc", "movestogo":
			i++
		}
	}
	return 0
}

// handleGo runs a search and prints the best move.
func (u *UCI) handleGo(args []string) {
	depth := u.parseGoDepth(args)
	if depth <= 0 {
		depth = u.engine.Depth()
	}

	sideToMove := u.position.SideToMove
	u.engine.OnInfo = func(info engine.SearchInfo) {
		u.sendInfo(info, sideToMove)
	}
	defer func() { u.engine.OnInfo = nil }()

	d := u.engine.Search(*u.position, depth)
	u.logger.Debug().Str("move", d.Move.String()).Int64("packed", d.Pack()).Msg("search finished")

	// NoMove prints as 0000, the UCI null move.
	u.printf("bestmove %s\n", d.Move)
}

// sendInfo outputs search info in UCI format. UCI scores are from the side
// to move's point of view.
func (u *UCI) sendInfo(info engine.SearchInfo, sideToMove board.Color) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	score := info.Score
	if sideToMove == board.Black {
		score = -score
	}
	if engine.IsMateScore(score) {
		mateIn := engine.MateDistance(score)/2 + 1
		if score < 0 {
			mateIn = -(engine.MateDistance(score) + 1) / 2
		}
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", score/16))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	// NPS
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	if info.Move != board.NoMove {
		parts = append(parts, "pv "+info.Move.String())
	}

	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	// Handle options
	switch strings.ToLower(name) {
	case "depth":
		depth, err := strconv.Atoi(value)
		if err != nil || depth < 1 || depth > maxDepth {
			u.logger.Error().Str("value", value).Msg("invalid depth")
			return
		}
		u.engine.SetDepth(depth)
	case "difficulty":
		d, ok := engine.ParseDifficulty(strings.ToLower(value))
		if !ok {
			u.logger.Error().Str("value", value).Msg("invalid difficulty")
			return
		}
		u.engine.SetDifficulty(d)
	case "cpuprofile":
		u.stopProfile()
		// Start new profile if path provided
		if value != "" && value != "stop" {
			if err := u.StartProfile(value); err != nil {
				u.logger.Error().Err(err).Msg("failed to start profile")
			}
		}
	default:
		u.logger.Warn().Str("name", name).Msg("unknown option")
	}
}

// StartProfile writes a CPU profile to path until Run returns or profiling
// is switched off with "setoption name CPUProfile value stop".
func (u *UCI) StartProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return err
	}
	u.profileFile = f
	u.logger.Info().Str("path", path).Msg("CPU profiling started")
	return nil
}

func (u *UCI) stopProfile() {
	if u.profileFile == nil {
		return
	}
	pprof.StopCPUProfile()
	u.profileFile.Close()
	u.profileFile = nil
	u.logger.Info().Msg("CPU profile saved")
}

// handleDisplay prints the current position, the moves that led to it and
// the legal replies.
func (u *UCI) handleDisplay() {
	u.printf("%s", u.position)
	u.printf("Fen: %s\n", u.position.ToFEN())

	if len(u.moves) > 0 {
		u.printf("Moves: %s\n", strings.Join(board.MovesToSAN(u.root, u.moves), " "))
	}

	ms := u.position.PossibleMoves()
	switch {
	case ms.IsCheckmate():
		u.printf("Checkmate\n")
	case ms.IsStalemate():
		u.printf("Stalemate\n")
	default:
		legal := make([]string, len(ms.Moves))
		for i, m := range ms.Moves {
			legal[i] = m.ToSAN(u.position)
		}
		if ms.InCheck {
			u.printf("Check\n")
		}
		u.printf("Legal moves (%d): %s\n", len(legal), strings.Join(legal, " "))
	}
}

// handlePerft runs a perft test, printing the node count below each root
// move.
func (u *UCI) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}
	if depth < 1 {
		u.logger.Error().Int("depth", depth).Msg("perft depth must be positive")
		return
	}

	start := time.Now()
	var nodes uint64
	for _, m := range u.position.PossibleMoves().Moves {
		child := *u.position
		child.MakeMove(m)
		n := board.Perft(&child, depth-1)
		u.printf("%s: %d\n", m, n)
		nodes += n
	}
	elapsed := time.Since(start)

	u.printf("\nNodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		u.printf("NPS: %.0f\n", nps)
	}
}

// handleSnapshot implements save, load, delete and snapshots.
func (u *UCI) handleSnapshot(cmd string, args []string) {
	if u.store == nil {
		u.logger.Error().Str("command", cmd).Msg("storage unavailable")
		return
	}
	if cmd == "snapshots" {
		names, err := u.store.ListSnapshots()
		if err != nil {
			u.logger.Error().Err(err).Msg("list snapshots")
			return
		}
		u.printf("Snapshots: %s\n", strings.Join(names, " "))
		return
	}
	if len(args) != 1 {
		u.logger.Error().Str("command", cmd).Msg("expected a snapshot name")
		return
	}

	name := args[0]
	var err error
	switch cmd {
	case "save":
		err = u.store.SaveSnapshot(name, u.position)
	case "load":
		var b *board.Board
		b, err = u.store.LoadSnapshot(name)
		if err == nil {
			u.reset(b)
		}
	case "delete":
		err = u.store.DeleteSnapshot(name)
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		u.printf("info string no snapshot named %s\n", name)
	case err != nil:
		u.logger.Error().Err(err).Str("name", name).Msg(cmd + " snapshot")
	default:
		u.printf("info string %s %s ok\n", cmd, name)
	}
}
