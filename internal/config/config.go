package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// defaultConfigLocation is the standard per-user config file.
const defaultConfigLocation = "~/.config/wordcode/config.toml"

// Paths contains file and directory configuration.
type Paths struct {
	Corpus   string `toml:"corpus"`
	Snapshot string `toml:"snapshot"`
	LogDir   string `toml:"log_dir"`
}

// Vocabulary controls how the ranked word list is cut.
type Vocabulary struct {
	MaxSize int `toml:"max_size"`
}

// Codes controls how codes are assigned to vocabulary words.
type Codes struct {
	Seed       int64  `toml:"seed"`
	Length     int    `toml:"length"`
	Assignment string `toml:"assignment"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for wordcode.
//
// Configuration sections by subsystem:
//   - Paths: corpus file, snapshot database, and log directory
//   - Vocabulary: ranked vocabulary size cap
//   - Codes: seed, code length, and assignment strategy
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Vocabulary Vocabulary `toml:"vocabulary"`
	Codes      Codes      `toml:"codes"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigLocation)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		raw, err := os.ReadFile(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

// resolveConfigPath picks the config file to use: an explicit path wins, then
// the per-user default, then wordcode.toml in the working directory.
func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		return findDefaultConfig()
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	switch _, err := os.Stat(expanded); {
	case err == nil:
		return expanded, true, nil
	case errors.Is(err, fs.ErrNotExist):
		return expanded, false, nil
	default:
		return "", false, fmt.Errorf("stat config: %w", err)
	}
}

func findDefaultConfig() (string, bool, error) {
	primary, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	local, err := filepath.Abs("wordcode.toml")
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{primary, local} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return primary, false, nil
}

// EnsureDirectories creates the directories commands write into: the log
// directory and the snapshot's parent directory.
func (c *Config) EnsureDirectories() error {
	dirs := make([]string, 0, 2)
	if dir := strings.TrimSpace(c.Paths.LogDir); dir != "" {
		dirs = append(dirs, dir)
	}
	if snapshot := strings.TrimSpace(c.Paths.Snapshot); snapshot != "" {
		dirs = append(dirs, filepath.Dir(snapshot))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// expandPath turns a ~ prefix into the user's home directory and returns the
// cleaned absolute form. Empty input stays empty.
func expandPath(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	expanded, err := expandHome(raw)
	if err != nil {
		return "", err
	}
	absolute, err := filepath.Abs(filepath.Clean(expanded))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", expanded, err)
	}
	return absolute, nil
}

func expandHome(raw string) (string, error) {
	if !strings.HasPrefix(raw, "~") {
		return raw, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	if raw == "~" {
		return home, nil
	}
	if raw[1] == '/' || raw[1] == '\\' {
		return filepath.Join(home, raw[2:]), nil
	}
	return raw, nil
}

// ExpandPath resolves a user-supplied path the same way configuration paths
// are resolved: ~ expansion followed by absolute cleaning.
func ExpandPath(raw string) (string, error) {
	return expandPath(raw)
}

// CreateSample writes the embedded sample configuration to path, creating
// parent directories as needed.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
