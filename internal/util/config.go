package util

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`

	LogLevel  string `toml:"log_level"`
	LogFile   string `toml:"log_file"`
	DebugAST  bool   `toml:"debug_ast"`
	RecordDSN string `toml:"record_dsn"`
}

// LoadFile merges settings from a TOML file into the configuration.
// A missing file is not an error, so a project-level fern.toml is optional.
func (c *Configuration) LoadFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return nil
}
