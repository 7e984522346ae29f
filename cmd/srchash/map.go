package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"srchash/internal/alias"
)

func newMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Inspect alias maps saved by hash --map-out",
	}
	cmd.AddCommand(newMapShowCmd())
	return cmd
}

func newMapShowCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show [flags] MAPFILE",
		Short: "Print a saved alias map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := alias.Load(args[0])
			if err != nil {
				return err
			}
			switch strings.ToLower(format) {
			case "yaml", "yml":
				return doc.WriteYAML(cmd.OutOrStdout())
			case "json":
				return doc.WriteJSON(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unsupported format %q (must be yaml or json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format (yaml|json)")
	return cmd
}
