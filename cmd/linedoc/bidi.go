package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/linedoc/internal/engine/bidi"
)

func newBidiCmd(c *cli) *cobra.Command {
	var rtl bool
	cmd := &cobra.Command{
		Use:   "bidi TEXT",
		Short: "Print the visual order of the runs of a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := bidi.ParseDirection(c.cfg.Document.Direction)
			if err != nil {
				return err
			}
			if rtl {
				dir = bidi.RTL
			}
			out := cmd.OutOrStdout()
			runs := bidi.Order(args[0], dir)
			if runs == nil {
				_, err := fmt.Fprintf(out, "%s: no reordering\n", dir)
				return err
			}
			for _, r := range runs {
				if _, err := fmt.Fprintf(out, "%s %q\n", r, args[0][r.From:r.To]); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&rtl, "rtl", false, "Use a right-to-left base direction")
	return cmd
}
