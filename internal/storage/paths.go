// Package storage keeps named board snapshots and front-end preferences in
// BadgerDB.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chesscore"

// platform holds what directory resolution reads from the host.
type platform struct {
	goos   string
	getenv func(string) string
	home   func() (string, error)
}

var host = platform{goos: runtime.GOOS, getenv: os.Getenv, home: os.UserHomeDir}

// dataRoot returns the per-user application data root:
//   - macOS: ~/Library/Application Support
//   - Windows: %APPDATA%, else ~/AppData/Roaming
//   - others: $XDG_DATA_HOME, else ~/.local/share
func (p platform) dataRoot() (string, error) {
	switch p.goos {
	case "darwin":
		return p.underHome("Library", "Application Support")
	case "windows":
		if dir := p.getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		return p.underHome("AppData", "Roaming")
	default:
		if dir := p.getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		return p.underHome(".local", "share")
	}
}

func (p platform) underHome(elem ...string) (string, error) {
	home, err := p.home()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, elem...)...), nil
}

// databaseDir resolves the badger directory. A non-empty dataHome replaces
// the platform data root.
func (p platform) databaseDir(dataHome string) (string, error) {
	root := dataHome
	if root == "" {
		var err error
		if root, err = p.dataRoot(); err != nil {
			return "", err
		}
	}
	return filepath.Join(root, appName, "db"), nil
}

// DatabaseDir returns the directory Open uses when Options.Dir is empty.
func DatabaseDir(dataHome string) (string, error) {
	return host.databaseDir(dataHome)
}
