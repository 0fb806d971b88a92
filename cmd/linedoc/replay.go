package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dshills/linedoc/internal/engine/mode"
	"github.com/dshills/linedoc/internal/replay"
)

func newReplayCmd(c *cli) *cobra.Command {
	var (
		showDiff   bool
		checkpoint string
		context    int
	)
	cmd := &cobra.Command{
		Use:   "replay SCRIPT",
		Short: "Run a YAML edit script and print the resulting document",
		Long: `Run a YAML edit script against a new document and print the final
text, selection, markers, rejected steps and history as YAML.

Script format:
  text: "initial text"
  steps:
    - replace: {text: "X", from: [0, 1], to: [0, 2]}
    - select: {anchor: [0, 0], head: [0, 3]}
    - type: "abc"
    - mark: {name: m, from: [0, 0], to: [0, 2], readOnly: true}
    - undo: 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			script, err := replay.Parse(data)
			if err != nil {
				return err
			}
			opts, err := c.cfg.Options(mode.Default(), c.log)
			if err != nil {
				return err
			}
			res, err := replay.Run(script, c.log, opts...)
			if err != nil {
				return err
			}
			c.log.Debug("script finished", zap.String("script", args[0]),
				zap.Int("steps", len(script.Steps)), zap.Int("rejected", len(res.Rejected)))

			out := cmd.OutOrStdout()
			if showDiff {
				diff, err := res.Diff(checkpoint, context)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(out, diff)
				return err
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(res); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Print a unified diff instead of the document state")
	cmd.Flags().StringVar(&checkpoint, "since", "", "Checkpoint the diff starts from (default: the initial text)")
	cmd.Flags().IntVar(&context, "context", 3, "Lines of context in the diff")
	return cmd
}
