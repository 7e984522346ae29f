package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"srchash/internal/digest"
)

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the supported digest families",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := setupEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			name := color.New(color.Bold)
			var b strings.Builder
			for _, alg := range digest.Algorithms() {
				mark := " "
				if alg == digest.Default {
					mark = "*"
				}
				fmt.Fprintf(&b, "%s %s %3d hex  %s\n", mark, name.Sprintf("%-8s", alg.String()), alg.HexLen(), alg.Describe())
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), b.String())
			return err
		},
	}
}
