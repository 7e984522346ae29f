package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"srchash/internal/diagfmt"
	"srchash/internal/driver"
	"srchash/internal/source"
)

func newTokenizeCmd() *cobra.Command {
	var (
		format     string
		language   string
		encoding   string
		hexNumbers bool
	)
	cmd := &cobra.Command{
		Use:   "tokenize [flags] FILE",
		Short: "Dump the token stream of a source file",
		Long:  `Tokenize breaks a C-family source file into the tokens the hasher sees`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setupEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			cfg := driver.DefaultConfig()
			if err := env.Settings.Apply(&cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("language") {
				cfg.Language = language
			}
			if cmd.Flags().Changed("encoding") {
				enc, err := source.ParseEncoding(encoding)
				if err != nil {
					return err
				}
				cfg.Encoding = enc
			}
			if cmd.Flags().Changed("hex-numbers") {
				cfg.HexNumbers = hexNumbers
			}
			cfg.MaxDiagnostics = env.MaxDiags

			p, err := driver.NewPipeline(cfg, driver.WithStdio(cmd.InOrStdin(), cmd.OutOrStdout()))
			if err != nil {
				return err
			}

			// Выполняем токенизацию
			result, err := p.Tokenize(args[0])
			if err != nil {
				return fmt.Errorf("tokenization failed: %w", err)
			}

			// Выводим диагностику в stderr, если есть
			if result.Bag.Len() > 0 && !env.Quiet {
				opts := diagfmt.PrettyOpts{Color: env.Color, ShowNotes: true, Max: env.MaxDiags}
				if err := diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, opts); err != nil {
					return err
				}
			}

			// Выводим токены в выбранном формате
			switch format {
			case "pretty":
				return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
			case "json":
				return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens)
			default:
				return fmt.Errorf("unknown format: %s", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "force a dialect instead of picking one by extension")
	cmd.Flags().StringVar(&encoding, "encoding", source.EncodingUTF8.String(), "source charset (utf-8|latin1|windows-1252)")
	cmd.Flags().BoolVar(&hexNumbers, "hex-numbers", false, "emit numeric literal tokens")
	return cmd
}
