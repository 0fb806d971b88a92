package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/linedoc/internal/config"
	"github.com/dshills/linedoc/internal/logging"
)

// cli holds the state shared by every subcommand.
type cli struct {
	configPath string
	logLevel   string

	cfg   *config.Config
	log   *zap.Logger
	close func()
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "linedoc",
		Short: "Drive a line-based text document from the command line",
		Long: `linedoc replays edit scripts against a document with markers, linked
views and undo history, and inspects bidi ordering of text.

Examples:
  linedoc replay edits.yaml
  linedoc replay edits.yaml --diff
  linedoc bidi "abc אבג 123" --rtl`,
		Version:           fmt.Sprintf("%s (%s, %s)", version, commit, date),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return c.setup(cmd) },
		PersistentPostRun: func(*cobra.Command, []string) { c.teardown() },
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "",
		"Path to a TOML or YAML configuration file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "",
		"Log level: debug, info, warn or error (overrides the configuration)")

	root.AddCommand(newReplayCmd(c), newBidiCmd(c))
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	log, closer, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	c.cfg, c.log, c.close = cfg, log, closer
	log.Debug("configuration loaded", zap.String("path", c.configPath))
	return nil
}

func (c *cli) teardown() {
	if c.close != nil {
		c.close()
	}
}
