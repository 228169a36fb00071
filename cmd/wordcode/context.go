package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"wordcode/internal/codebook"
	"wordcode/internal/config"
	"wordcode/internal/snapshot"
)

// commandContext carries the persistent flag values and the lazily loaded
// configuration shared by every subcommand.
type commandContext struct {
	snapshotFlag string
	configFlag   string

	loadOnce sync.Once
	cfg      *config.Config
	loadErr  error
}

func (c *commandContext) preRun(cmd *cobra.Command, _ []string) error {
	if shouldSkipConfig(cmd) {
		return nil
	}
	_, err := c.ensureConfig()
	return err
}

// ensureConfig loads the configuration exactly once, no matter how many
// commands ask for it.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.loadOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err == nil {
			err = cfg.EnsureDirectories()
		}
		if err != nil {
			c.loadErr = err
			return
		}
		c.cfg = cfg
	})
	return c.cfg, c.loadErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) configPath() string {
	return strings.TrimSpace(c.configFlag)
}

// snapshotPath resolves the snapshot location, preferring the --snapshot flag
// over the configured default.
func (c *commandContext) snapshotPath() (string, error) {
	if flag := strings.TrimSpace(c.snapshotFlag); flag != "" {
		return config.ExpandPath(flag)
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return cfg.Paths.Snapshot, nil
}

// openCipher loads the substitution cipher from the resolved snapshot path.
func (c *commandContext) openCipher(ctx context.Context) (*codebook.Substitution, error) {
	path, err := c.snapshotPath()
	if err != nil {
		return nil, err
	}
	cipher, err := codebook.New(ctx, codebook.Options{SnapshotPath: path})
	if err != nil {
		return nil, wrapSnapshotError(err, path)
	}
	return cipher, nil
}

func wrapSnapshotError(err error, path string) error {
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		return fmt.Errorf("snapshot %s not found; build one with `wordcode build --corpus <file>`", path)
	case errors.Is(err, snapshot.ErrCorrupt):
		return fmt.Errorf("snapshot %s is unusable: %w", path, err)
	default:
		return err
	}
}

// shouldSkipConfig reports whether cmd or any ancestor opts out of config
// loading via the skipConfigLoad annotation.
func shouldSkipConfig(cmd *cobra.Command) bool {
	for ; cmd != nil; cmd = cmd.Parent() {
		if cmd.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
