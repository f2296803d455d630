package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/Carmen-Shannon/oxy-tunnel/config"
	"github.com/spf13/cobra"
)

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in scene presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := config.Presets()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tREPRESENTATION\tSEGMENTS\tDETAIL\tDESCRIPTION")
			for _, p := range presets {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", p.Name, p.Representation, p.Segments, p.Detail, p.Description)
			}
			return tw.Flush()
		},
	}
}
