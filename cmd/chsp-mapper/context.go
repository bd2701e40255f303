package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/config"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/logging"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/matching"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/registry"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	registryOnce sync.Once
	registry     *registry.Registry
	registryErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
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

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) ensureRegistry() (*registry.Registry, error) {
	c.registryOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.registryErr = err
			return
		}
		reg, err := registry.Open(cfg.Paths.ClientRegistry)
		if err != nil {
			c.registryErr = fmt.Errorf("load client registry: %w", err)
			return
		}
		c.registry = reg
	})
	return c.registry, c.registryErr
}

func (c *commandContext) newMatcher() (*matching.Matcher, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	reg, err := c.ensureRegistry()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return matching.New(reg, matching.OptionsFromConfig(cfg), logger), nil
}

func (c *commandContext) withStore(fn func(*store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

// withRunLock serializes reconciliation runs through a lock file in the
// data directory so two runs never interleave their store writes.
func (c *commandContext) withRunLock(fn func() error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "chsp-mapper.lock")
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock %s: %w", lockPath, err)
	}
	if !locked {
		return fmt.Errorf("another reconciliation run is in progress (lock %s)", lockPath)
	}
	defer func() { _ = lock.Unlock() }()

	return fn()
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
