package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateVocabulary(); err != nil {
		return err
	}
	if err := c.validateCodes(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.Snapshot) == "" {
		return errors.New("paths.snapshot must be set")
	}
	return nil
}

func (c *Config) validateVocabulary() error {
	if c.Vocabulary.MaxSize <= 0 {
		return errors.New("vocabulary.max_size must be positive")
	}
	return nil
}

func (c *Config) validateCodes() error {
	if c.Codes.Length <= 0 {
		return errors.New("codes.length must be positive")
	}
	switch c.Codes.Assignment {
	case "permutation", "generated":
	default:
		return fmt.Errorf("codes.assignment must be %q or %q, got %q", "permutation", "generated", c.Codes.Assignment)
	}
	return nil
}
