package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
)

// Storage keys
const (
	keyPreferences    = "preferences"
	keyFirstLaunch    = "first_launch"
	keySnapshotPrefix = "snapshot/"
)

// ErrNotFound is returned when a named snapshot does not exist.
var ErrNotFound = errors.New("not found")

// Preferences stores the front end's settings.
type Preferences struct {
	Difficulty string    `json:"difficulty"`
	Depth      int       `json:"depth"` // Overrides Difficulty when positive
	LastPlayed time.Time `json:"last_played"`
}

// DefaultPreferences returns default preferences.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Difficulty: "medium",
	}
}

// Options configures Open.
type Options struct {
	// Dir is the database directory. When empty the database lives under
	// DataHome, or the platform data directory if DataHome is empty too.
	// Both are ignored when InMemory is set.
	Dir      string
	DataHome string
	InMemory bool
	Logger   *zerolog.Logger // Receives badger's own log lines
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// Open opens or creates a database.
func Open(o Options) (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	if !o.InMemory {
		dir := o.Dir
		if dir == "" {
			var err error
			if dir, err = DatabaseDir(o.DataHome); err != nil {
				return nil, fmt.Errorf("resolve database directory: %w", err)
			}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		opts = badger.DefaultOptions(dir)
	}
	if o.Logger != nil {
		opts = opts.WithLogger(newBadgerLogger(*o.Logger))
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	var firstLaunch bool = true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			firstLaunch = true
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Use defaults
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})

	return prefs, err
}

func snapshotKey(name string) []byte {
	return []byte(keySnapshotPrefix + name)
}

// SaveSnapshot stores the 36-byte snapshot of b under name, replacing any
// previous snapshot with that name.
func (s *Storage) SaveSnapshot(name string, b *board.Board) error {
	if name == "" || strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("invalid snapshot name %q", name)
	}
	snap := b.Serialize()
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey(name), snap[:])
	})
}

// LoadSnapshot returns the board saved under name.
func (s *Storage) LoadSnapshot(name string) (*board.Board, error) {
	var b *board.Board

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("snapshot %q: %w", name, ErrNotFound)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			b, err = board.ParseSnapshot(val)
			return err
		})
	})

	return b, err
}

// DeleteSnapshot removes the snapshot saved under name.
func (s *Storage) DeleteSnapshot(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(snapshotKey(name)); errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("snapshot %q: %w", name, ErrNotFound)
		} else if err != nil {
			return err
		}
		return txn.Delete(snapshotKey(name))
	})
}

// ListSnapshots returns the names of all saved snapshots, sorted.
func (s *Storage) ListSnapshots() ([]string, error) {
	var names []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keySnapshotPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			names = append(names, strings.TrimPrefix(key, keySnapshotPrefix))
		}
		return nil
	})

	sort.Strings(names)
	return names, err
}
