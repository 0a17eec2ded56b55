package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"lexweave/internal/capability"
	"lexweave/internal/config"
	"lexweave/internal/engine"
	"lexweave/internal/lexicon"
	"lexweave/internal/logging"
	"lexweave/internal/report"
	"lexweave/internal/services/dictionary"
	"lexweave/internal/services/match"
	"lexweave/internal/services/normalize"
	"lexweave/internal/services/segment"
	"lexweave/internal/services/translit"
	"lexweave/internal/services/xref"
	"lexweave/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	storeOnce sync.Once
	store     *store.Store
	storeErr  error

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

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// ensureStore opens the database once per process, seeding the lexicon from
// the configured seed file when the table is empty.
func (c *commandContext) ensureStore(ctx context.Context) (*store.Store, error) {
	c.storeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.storeErr = err
			return
		}
		st, err := store.Open(cfg)
		if err != nil {
			c.storeErr = err
			return
		}
		if err := seedLexicon(ctx, st, cfg); err != nil {
			_ = st.Close()
			c.storeErr = err
			return
		}
		c.store = st
	})
	return c.store, c.storeErr
}

func seedLexicon(ctx context.Context, st *store.Store, cfg *config.Config) error {
	if strings.TrimSpace(cfg.Lexicon.SeedPath) == "" {
		return nil
	}
	existing, err := st.AllEntries(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	entries, err := loadLexiconFile(cfg.Lexicon.SeedPath)
	if err != nil {
		return fmt.Errorf("seed lexicon: %w", err)
	}
	_, err = st.ImportLexicon(ctx, entries)
	return err
}

// lexiconIndex builds the in-memory index over the stored lexicon.
func (c *commandContext) lexiconIndex(ctx context.Context) (*lexicon.Index, error) {
	st, err := c.ensureStore(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := st.AllEntries(ctx)
	if err != nil {
		return nil, err
	}
	return lexicon.NewIndex(entries), nil
}

// buildEngine wires the capability backends over the current lexicon.
func (c *commandContext) buildEngine(ctx context.Context, recorder engine.Recorder) (*engine.Engine, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	st, err := c.ensureStore(ctx)
	if err != nil {
		return nil, err
	}
	index, err := c.lexiconIndex(ctx)
	if err != nil {
		return nil, err
	}

	invokers := make(capability.Set)
	invokers.Register(segment.New(index))
	invokers.Register(translit.New(index))
	invokers.Register(dictionary.New(index))
	invokers.Register(normalize.New())
	invokers.Register(match.New())
	invokers.Register(xref.New())

	return engine.New(st, invokers, cfg, c.ensureLogger(), recorder), nil
}

func (c *commandContext) buildEngineWithTracker(ctx context.Context) (*engine.Engine, *report.Tracker, error) {
	tracker := report.NewTracker()
	eng, err := c.buildEngine(ctx, tracker)
	if err != nil {
		return nil, nil, err
	}
	return eng, tracker, nil
}

func (c *commandContext) close() {
	if c.store != nil {
		_ = c.store.Close()
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for current := cmd; current != nil; current = current.Parent() {
		switch current.Name() {
		case "init", "help", "completion", "version":
			return true
		}
	}
	return false
}
