package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cutroom/internal/batch"
	"cutroom/internal/config"
	"cutroom/internal/logging"
	"cutroom/internal/preset"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	catalog *preset.Catalog
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		catalog:    preset.NewCatalog(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withStore opens the job store for the duration of fn. The store holds the
// exporter lock, so commands keep it open as briefly as possible.
func (c *commandContext) withStore(fn func(*batch.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := batch.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// withEngine opens the store and wires a live ffmpeg engine around it.
func (c *commandContext) withEngine(fn func(*batch.Engine, *batch.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	return c.withStore(func(store *batch.Store) error {
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			return err
		}
		runner := batch.NewFFmpegRunner(batch.WithBinary(cfg.FFmpeg.Binary))
		engine, err := batch.NewEngine(cfg, store, runner, logger)
		if err != nil {
			return err
		}
		return fn(engine, store)
	})
}

func (c *commandContext) lookupPreset(name string) (preset.Preset, error) {
	p, ok := c.catalog.Lookup(name)
	if !ok {
		return preset.Preset{}, fmt.Errorf("unknown preset %q (run 'cutroom presets list')", name)
	}
	return p, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
