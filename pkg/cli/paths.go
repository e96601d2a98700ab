package cli

import (
	"os"
	"path/filepath"
)

// Paths provides access to the clipgen directory layout:
//
//	~/.clipgen/<app>/config.yaml
//	~/.clipgen/<app>/data/clips/...     saved assets (local store)
//	~/.clipgen/<app>/data/history.db    sqlite history
//	~/.clipgen/<app>/data/history/      badger history
type Paths struct {
	// AppName is the application name
	AppName string

	// HomeDir is the user's home directory
	HomeDir string
}

// NewPaths creates a new Paths instance for the given app
func NewPaths(appName string) (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{
		AppName: appName,
		HomeDir: home,
	}, nil
}

// BaseDir returns the base directory (~/.clipgen)
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

// AppDir returns the app-specific directory (~/.clipgen/<app>)
func (p *Paths) AppDir() string {
	return filepath.Join(p.BaseDir(), p.AppName)
}

// ConfigFile returns the config file path (~/.clipgen/<app>/config.yaml)
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.AppDir(), DefaultConfigFile)
}

// DataDir returns the data directory (~/.clipgen/<app>/data)
func (p *Paths) DataDir() string {
	return filepath.Join(p.AppDir(), "data")
}

// DataPath returns a path within the data directory
func (p *Paths) DataPath(name string) string {
	return filepath.Join(p.DataDir(), name)
}

// EnsureDataDir creates the data directory if it doesn't exist
func (p *Paths) EnsureDataDir() error {
	return os.MkdirAll(p.DataDir(), 0755)
}

// HistoryPath returns the default location for a history backend, or ""
// for backends that keep nothing on disk.
func (p *Paths) HistoryPath(backend string) string {
	switch backend {
	case HistoryBadger:
		return p.DataPath("history")
	case HistorySQLite:
		return p.DataPath("history.db")
	default:
		return ""
	}
}
