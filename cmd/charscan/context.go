package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"charscan/internal/config"
	"charscan/internal/journal"
	"charscan/internal/logging"
	"charscan/internal/project"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	registryOnce sync.Once
	registry     *project.Registry
	registryErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
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
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureRegistry() (*project.Registry, error) {
	c.registryOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.registryErr = err
			return
		}
		c.registry, c.registryErr = project.NewRegistry(cfg)
	})
	return c.registry, c.registryErr
}

// lookupProject resolves name against the configured projects.
func (c *commandContext) lookupProject(name string) (*project.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("--project is required")
	}
	registry, err := c.ensureRegistry()
	if err != nil {
		return nil, err
	}
	return registry.Lookup(name)
}

// loggerValue returns the configured logger writing console records to
// console, or a no-op logger when it cannot be built.
func (c *commandContext) loggerValue(console io.Writer) *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg, console)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// openJournal opens the scan journal when enabled. A nil store with a nil
// error means the journal is disabled.
func (c *commandContext) openJournal() (*journal.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	path := cfg.JournalPath()
	if path == "" {
		return nil, nil
	}
	return journal.Open(path)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
