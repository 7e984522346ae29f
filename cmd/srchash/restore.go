package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"srchash/internal/alias"
	"srchash/internal/dialect"
	"srchash/internal/restore"
	"srchash/internal/sink"
)

type restoreOptions struct {
	output      string
	mapFile     string
	aliasPrefix string
	language    string
}

func newRestoreCmd() *cobra.Command {
	var opts restoreOptions
	cmd := &cobra.Command{
		Use:   "restore [flags] FILE",
		Short: "Expand the aliases of a hashed file back into identifiers",
		Long: `Restore reads the alias definitions at the top of a hashed file (or a map
saved with hash --map-out) and writes the file with every alias replaced by
the identifier it stands for.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd, args[0], &opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", sink.Stdout, "output file (- for stdout)")
	f.StringVar(&opts.mapFile, "map", "", "alias map saved by hash --map-out")
	f.StringVar(&opts.aliasPrefix, "alias-prefix", alias.DefaultPrefix, "prefix the aliases were emitted with")
	f.StringVarP(&opts.language, "language", "l", "", "force a dialect instead of picking one by extension")
	return cmd
}

func runRestore(cmd *cobra.Command, input string, opts *restoreOptions) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	var content []byte
	if input == sink.Stdout {
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		// #nosec G304 -- path comes from the command line
		content, err = os.ReadFile(input)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	d := dialect.ForPath(input)
	if opts.language != "" {
		if d, err = dialect.Lookup(opts.language); err != nil {
			return err
		}
	}
	ropts := restore.Options{Dialect: d, Prefix: opts.aliasPrefix}
	if opts.mapFile != "" {
		doc, err := alias.Load(opts.mapFile)
		if err != nil {
			return err
		}
		m, err := doc.Map()
		if err != nil {
			return fmt.Errorf("%s: %w", opts.mapFile, err)
		}
		ropts.Aliases = m
		ropts.Prefix = m.Prefix
		env.Logger.Debug("alias map loaded",
			slog.String("path", opts.mapFile),
			slog.String("run_id", doc.RunID),
			slog.Int("entries", m.Len()))
	}

	res, err := restore.Restore(content, ropts)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	var out sink.Sink
	if opts.output == sink.Stdout {
		out = sink.Writer(cmd.OutOrStdout(), "<stdout>")
	} else if out, err = sink.Open(opts.output, 0o644); err != nil {
		return err
	}
	defer func() { _ = out.Close() }()
	if _, err := out.Write(res.Text); err != nil {
		return fmt.Errorf("write %s: %w", out.Name(), err)
	}
	if err := out.Commit(); err != nil {
		return err
	}
	env.Logger.Info("restored",
		slog.String("file", input),
		slog.String("output", out.Name()),
		slog.Int("replacements", res.Replacements))
	return nil
}
