package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/caarlos0/env/v11"
)

// Config is the process-level configuration: where the journal lives and
// where this tool keeps its own files. User settings (faction, age
// threshold, CSV path) live in the database instead and are edited from
// the settings screen.
type Config struct {
	DatabasePath string `env:"EDROUTE_DB_PATH"`
	JournalDir   string `env:"EDROUTE_JOURNAL_DIR"`
	LogFile      string `env:"EDROUTE_LOG_FILE"`
}

// Load builds the configuration from platform defaults and EDROUTE_*
// environment overrides.
func Load() (Config, error) {
	cfg := Config{
		DatabasePath: defaultDatabasePath(),
		JournalDir:   DefaultJournalDir(),
		LogFile:      "edroute_debug.log",
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func defaultDatabasePath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "edroute.db"
	}
	return filepath.Join(configDir, "edroute", "edroute.db")
}

// DefaultJournalDir returns where the game writes its journal on this
// platform. On Linux this is the game's directory inside the default
// Steam Proton prefix.
func DefaultJournalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	const savedGames = "Saved Games/Frontier Developments/Elite Dangerous"
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, filepath.FromSlash(savedGames))
	case "darwin":
		return filepath.Join(home,
			"Library/Application Support/Frontier Developments/Elite Dangerous")
	default:
		return filepath.Join(home,
			".steam/steam/steamapps/compatdata/359320/pfx/drive_c/users/steamuser",
			filepath.FromSlash(savedGames))
	}
}
