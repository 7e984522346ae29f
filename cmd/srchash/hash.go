package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"srchash/internal/alias"
	"srchash/internal/config"
	"srchash/internal/digest"
	"srchash/internal/driver"
	"srchash/internal/pipeline"
	"srchash/internal/sink"
	"srchash/internal/source"
	"srchash/internal/ui"
	"srchash/internal/watch"
)

type hashOptions struct {
	output      string
	outDir      string
	algorithm   string
	language    string
	saltSize    int
	discardSize int
	entropy     string
	aliasPrefix string
	encoding    string
	hexNumbers  bool
	mapOut      string
	jobs        int
	watch       bool
	ui          string
	format      string
}

func newHashCmd() *cobra.Command {
	var opts hashOptions
	cmd := &cobra.Command{
		Use:   "hash [flags] FILE...",
		Short: "Replace identifiers with salted digest aliases",
		Long: `Hash lexes each FILE, replaces every identifier and string literal with
a salted digest alias and writes the directive block, the alias
definitions and the rewritten body. "-" reads standard input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(cmd, args, &opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file for a single input (- for stdout)")
	f.StringVarP(&opts.outDir, "out-dir", "O", "", "write each input to this directory under its base name")
	f.StringVarP(&opts.algorithm, "algorithm", "a", digest.Default.String(), "digest family ("+strings.Join(digest.Names(), "|")+")")
	f.StringVarP(&opts.language, "language", "l", "", "force a dialect instead of picking one by extension")
	f.IntVar(&opts.saltSize, "random-size", digest.DefaultSaltSize, "salt bytes drawn per identifier")
	f.IntVar(&opts.discardSize, "discard-size", digest.DefaultDiscardSize, "entropy bytes skipped before each salt")
	f.StringVar(&opts.entropy, "entropy", "system", "entropy source (system or a device path)")
	f.StringVar(&opts.aliasPrefix, "alias-prefix", alias.DefaultPrefix, "prefix placed before every digest")
	f.StringVar(&opts.encoding, "encoding", source.EncodingUTF8.String(), "source charset (utf-8|latin1|windows-1252)")
	f.BoolVar(&opts.hexNumbers, "hex-numbers", false, "rewrite decimal integer literals to hexadecimal")
	f.StringVar(&opts.mapOut, "map-out", "", "save the alias map (msgpack) for a single input")
	f.IntVarP(&opts.jobs, "jobs", "j", 0, "files processed in parallel (0 = GOMAXPROCS)")
	f.BoolVar(&opts.watch, "watch", false, "re-run whenever an input changes")
	f.StringVar(&opts.ui, "ui", "auto", "progress UI for batches (auto|on|off)")
	f.StringVar(&opts.format, "format", "pretty", "summary format (pretty|json)")
	return cmd
}

// hashConfig layers the configuration: defaults, then the settings file,
// then every flag the user actually set.
func hashConfig(cmd *cobra.Command, settings *config.Settings, opts *hashOptions, maxDiags int) (driver.Config, int, error) {
	cfg := driver.DefaultConfig()
	if err := settings.Apply(&cfg); err != nil {
		return cfg, 0, err
	}
	jobs := 0
	if settings.IsSet("jobs") {
		jobs = settings.Jobs
	}

	changed := cmd.Flags().Changed
	if changed("algorithm") {
		alg, err := digest.ParseAlgorithm(opts.algorithm)
		if err != nil {
			return cfg, 0, fmt.Errorf("%w: %w", driver.ErrInvalidConfig, err)
		}
		cfg.Algorithm = alg
	}
	if changed("language") {
		cfg.Language = opts.language
	}
	if changed("random-size") {
		cfg.SaltSize = opts.saltSize
	}
	if changed("discard-size") {
		cfg.DiscardSize = opts.discardSize
	}
	if changed("entropy") {
		cfg.Entropy = digest.ParseSource(opts.entropy)
	}
	if changed("alias-prefix") {
		cfg.AliasPrefix = opts.aliasPrefix
	}
	if changed("encoding") {
		enc, err := source.ParseEncoding(opts.encoding)
		if err != nil {
			return cfg, 0, fmt.Errorf("%w: %w", driver.ErrInvalidConfig, err)
		}
		cfg.Encoding = enc
	}
	if changed("hex-numbers") {
		cfg.HexNumbers = opts.hexNumbers
	}
	if changed("jobs") {
		jobs = opts.jobs
	}
	cfg.MaxDiagnostics = maxDiags
	return cfg, jobs, nil
}

// planHash turns the positional inputs and output flags into jobs.
func planHash(inputs []string, opts *hashOptions) ([]driver.Job, error) {
	switch {
	case opts.output != "" && opts.outDir != "":
		return nil, errors.New("--output and --out-dir are mutually exclusive")
	case opts.outDir != "":
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
		return driver.PlanJobs(inputs, opts.outDir)
	case len(inputs) > 1:
		return nil, errors.New("several inputs need --out-dir")
	}
	out := opts.output
	if out == "" {
		out = sink.Stdout
	}
	if out != sink.Stdout && inputs[0] != sink.Stdout {
		if a, err := filepath.Abs(out); err == nil {
			if b, err := filepath.Abs(inputs[0]); err == nil && a == b {
				return nil, fmt.Errorf("%s: output would overwrite the input", inputs[0])
			}
		}
	}
	return []driver.Job{{Input: inputs[0], Output: out}}, nil
}

func runHash(cmd *cobra.Command, inputs []string, opts *hashOptions) error {
	env, err := setupEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	format, err := readSummaryFormat(opts.format)
	if err != nil {
		return err
	}
	mode, err := readUIMode(opts.ui)
	if err != nil {
		return err
	}
	cfg, parallel, err := hashConfig(cmd, env.Settings, opts, env.MaxDiags)
	if err != nil {
		return err
	}
	jobs, err := planHash(inputs, opts)
	if err != nil {
		return err
	}
	if opts.mapOut != "" && len(jobs) != 1 {
		return errors.New("--map-out needs exactly one input")
	}
	if opts.watch && len(jobs) == 1 && (jobs[0].Input == sink.Stdout || jobs[0].Output == sink.Stdout) {
		return errors.New("--watch needs file inputs and outputs")
	}

	// The TUI only makes sense for batches and never while stdout carries data.
	useUI := opts.outDir != "" && len(jobs) > 1 && !env.Quiet && shouldUseTUI(mode)

	rep := &hashReporter{
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		env:    env,
		format: format,
	}
	if jobs[0].Output == sink.Stdout {
		rep.out = cmd.ErrOrStderr()
	}

	run := func(ctx context.Context, list []driver.Job) error {
		fs := source.NewFileSet()
		var results []driver.BatchResult
		work := func(progress pipeline.ProgressSink) error {
			logEvents := pipeline.SinkFunc(func(evt pipeline.Event) {
				if !evt.Status.Terminal() || evt.File == "" {
					return
				}
				env.Logger.Debug("file finished",
					slog.String("file", evt.File),
					slog.String("stage", string(evt.Stage)),
					slog.String("status", string(evt.Status)),
					slog.Duration("elapsed", evt.Elapsed))
			})
			p, perr := driver.NewPipeline(cfg,
				driver.WithProgress(pipeline.Fanout{progress, logEvents}),
				driver.WithStdio(cmd.InOrStdin(), cmd.OutOrStdout()))
			if perr != nil {
				return perr
			}
			var rerr error
			results, rerr = p.RunBatch(ctx, fs, list, parallel)
			return rerr
		}

		var runErr error
		if useUI {
			runErr = ui.RunWithProgress(cmd.ErrOrStderr(), "hashing", displayPaths(list), work)
		} else {
			runErr = work(nil)
		}
		if repErr := rep.report(fs, results); repErr != nil {
			return errors.Join(runErr, repErr)
		}
		if runErr != nil {
			return runErr
		}
		if opts.mapOut != "" {
			res := results[0].Result
			doc := alias.NewDocument(res.Aliases, env.RunID, res.Path, res.Algorithm.String(), cfg.SaltSize)
			if err := alias.Save(opts.mapOut, doc); err != nil {
				return fmt.Errorf("save alias map: %w", err)
			}
			env.Logger.Info("alias map saved", slog.String("path", opts.mapOut), slog.Int("entries", len(doc.Entries)))
		}
		return nil
	}

	ctx := cmd.Context()
	if err := run(ctx, jobs); err != nil {
		if !opts.watch {
			return err
		}
		printError(cmd.ErrOrStderr(), err)
	}
	if !opts.watch {
		return nil
	}
	return watchAndRehash(ctx, cmd, env, jobs, run)
}

// watchAndRehash reruns the jobs whose input changed until interrupted.
func watchAndRehash(ctx context.Context, cmd *cobra.Command, env *runEnv, jobs []driver.Job, run func(context.Context, []driver.Job) error) error {
	byPath := make(map[string]driver.Job, len(jobs))
	inputs := make([]string, 0, len(jobs))
	for _, job := range jobs {
		abs, err := filepath.Abs(job.Input)
		if err != nil {
			return fmt.Errorf("watch %s: %w", job.Input, err)
		}
		byPath[abs] = job
		inputs = append(inputs, abs)
	}

	w, err := watch.New(inputs, watch.Options{
		OnError: func(err error) { printError(cmd.ErrOrStderr(), err) },
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	env.Logger.Info("watching for changes", slog.Int("files", len(inputs)))
	if !env.Quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "watching %d file(s), press Ctrl+C to stop\n", len(inputs))
	}
	return w.Run(ctx, func(ctx context.Context, changed []string) error {
		list := make([]driver.Job, 0, len(changed))
		for _, p := range changed {
			if job, ok := byPath[p]; ok {
				list = append(list, job)
			}
		}
		env.Logger.Info("inputs changed", slog.Int("files", len(list)))
		return run(ctx, list)
	})
}

func displayPaths(jobs []driver.Job) []string {
	out := make([]string, len(jobs))
	for i, job := range jobs {
		out[i] = driver.DisplayPath(job.Input)
	}
	return out
}
