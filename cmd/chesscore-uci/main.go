package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	depth      = flag.Int("depth", 0, "search depth in plies (overrides the saved preference)")
	difficulty = flag.String("difficulty", "", "easy, medium or hard (overrides the saved preference)")
	dbDir      = flag.String("db", "", "database directory (default: platform data directory)")
	noDB       = flag.Bool("nodb", false, "run without snapshot storage")
	logLevel   = flag.String("log-level", "info", "log level: debug, info, warn, error")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run returns the process exit code once the protocol loop ends.
func run() int {
	// Protocol output owns stdout; logs go to stderr.
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	store := openStorage(&logger)
	if store != nil {
		defer store.Close()
	}

	eng := engine.NewEngine(engine.Config{Logger: &logger})
	prefs := loadPreferences(store, &logger)
	applyPreferences(eng, prefs, &logger)

	// Create and run UCI protocol handler
	protocol := uci.New(eng, store, logger)

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		if err := protocol.StartProfile(profilePath); err != nil {
			logger.Error().Err(err).Msg("could not start CPU profile")
			return 1
		}
	}

	code := 0
	if err := protocol.Run(); err != nil {
		logger.Error().Err(err).Msg("reading commands")
		code = 1
	}

	if store != nil {
		if err := store.SavePreferences(prefs); err != nil {
			logger.Warn().Err(err).Msg("could not save preferences")
		}
	}
	return code
}

func openStorage(logger *zerolog.Logger) *storage.Storage {
	if *noDB {
		return nil
	}

	store, err := storage.Open(storage.Options{Dir: *dbDir, Logger: logger})
	if err != nil {
		logger.Warn().Err(err).Msg("storage unavailable, snapshot commands disabled")
		return nil
	}
	return store
}

// loadPreferences returns the saved preferences, writing the defaults on
// first launch.
func loadPreferences(store *storage.Storage, logger *zerolog.Logger) *storage.Preferences {
	if store == nil {
		return storage.DefaultPreferences()
	}

	first, err := store.IsFirstLaunch()
	if err != nil {
		logger.Warn().Err(err).Msg("could not read launch state")
	}
	if first {
		logger.Info().Msg("first launch, writing default preferences")
		if err := store.SavePreferences(storage.DefaultPreferences()); err != nil {
			logger.Warn().Err(err).Msg("could not save preferences")
		}
		if err := store.MarkFirstLaunchComplete(); err != nil {
			logger.Warn().Err(err).Msg("could not record first launch")
		}
	}

	prefs, err := store.LoadPreferences()
	if err != nil {
		logger.Warn().Err(err).Msg("could not load preferences, using defaults")
		return storage.DefaultPreferences()
	}
	return prefs
}

// applyPreferences configures eng from prefs, then from the command line.
func applyPreferences(eng *engine.Engine, prefs *storage.Preferences, logger *zerolog.Logger) {
	if *difficulty != "" {
		prefs.Difficulty = *difficulty
		prefs.Depth = 0
	}
	if *depth > 0 {
		prefs.Depth = *depth
	}

	d, ok := engine.ParseDifficulty(prefs.Difficulty)
	if !ok {
		logger.Warn().Str("difficulty", prefs.Difficulty).Msg("unknown difficulty, using medium")
		prefs.Difficulty = d.String()
	}
	eng.SetDifficulty(d)
	eng.SetDepth(prefs.Depth)

	logger.Debug().Str("difficulty", prefs.Difficulty).Int("depth", eng.Depth()).Msg("engine configured")
}
