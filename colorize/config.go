// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package colorize

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml"
)

// DefaultConfigFile is the name of the config file read from the working
// directory when no other is given.
const DefaultConfigFile = ".colorsync.toml"

// Config configures the colorizer invocation.
type Config struct {
	// Colorizer is the colorizer executable.
	Colorizer string `toml:"colorizer"`
	// CheckFile is passed to the colorizer with -c.
	CheckFile string `toml:"check_file"`
	// ReplacementFile is passed to the colorizer with -r.
	ReplacementFile string `toml:"replacement_file"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Colorizer:       "Colorizer.exe",
		CheckFile:       "check.txt",
		ReplacementFile: "replacements.txt",
	}
}

// ParseConfig parses a TOML config. Keys that are not set keep their default
// values; unknown keys are an error.
func ParseConfig(b []byte) (Config, error) {
	var parsed Config
	if err := toml.NewDecoder(bytes.NewReader(b)).Strict(true).Decode(&parsed); err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if parsed.Colorizer != "" {
		cfg.Colorizer = parsed.Colorizer
	}
	if parsed.CheckFile != "" {
		cfg.CheckFile = parsed.CheckFile
	}
	if parsed.ReplacementFile != "" {
		cfg.ReplacementFile = parsed.ReplacementFile
	}
	return cfg, nil
}

// LoadConfig reads the config file at path. If the file does not exist and
// required is false, it returns [DefaultConfig].
func LoadConfig(path string, required bool) (Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}
	cfg, err := ParseConfig(b)
	if err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
