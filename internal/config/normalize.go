package config

import (
	"fmt"
	"strings"
)

// normalize coerces raw file values into canonical form: paths expanded,
// numeric knobs defaulted, enumerations lowercased.
func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeVocabulary()
	c.normalizeCodes()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	c.Paths.Corpus = strings.TrimSpace(c.Paths.Corpus)
	if strings.TrimSpace(c.Paths.Snapshot) == "" {
		c.Paths.Snapshot = defaultSnapshotPath
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	fields := []struct {
		name  string
		value *string
	}{
		{"paths.corpus", &c.Paths.Corpus},
		{"paths.snapshot", &c.Paths.Snapshot},
		{"paths.log_dir", &c.Paths.LogDir},
	}
	for _, f := range fields {
		if *f.value == "" {
			continue
		}
		expanded, err := expandPath(*f.value)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.value = expanded
	}
	return nil
}

func (c *Config) normalizeVocabulary() {
	if c.Vocabulary.MaxSize <= 0 {
		c.Vocabulary.MaxSize = defaultMaxVocabSize
	}
}

func (c *Config) normalizeCodes() {
	if c.Codes.Seed == 0 {
		c.Codes.Seed = defaultSeed
	}
	if c.Codes.Length <= 0 {
		c.Codes.Length = defaultCodeLength
	}
	c.Codes.Assignment = strings.ToLower(strings.TrimSpace(c.Codes.Assignment))
	if c.Codes.Assignment == "" {
		c.Codes.Assignment = defaultAssignment
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format != "json" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
