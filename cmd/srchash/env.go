package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"srchash/internal/config"
	"srchash/internal/digest"
	"srchash/internal/driver"
	srclog "srchash/internal/log"
	"srchash/internal/prof"
	"srchash/internal/version"
)

// runEnv is what every command resolves from the global flags before it
// does any work.
type runEnv struct {
	RunID    string
	Logger   *slog.Logger
	Settings *config.Settings
	Color    bool
	Quiet    bool
	Timings  bool
	MaxDiags int

	cleanups []func()
}

// Close releases the tracer and the logger in reverse order of setup.
func (e *runEnv) Close() {
	for i := len(e.cleanups) - 1; i >= 0; i-- {
		e.cleanups[i]()
	}
}

// setupEnv reads the global flags, configures color, logging and tracing
// and attaches the logger and tracer to cmd's context.
func setupEnv(cmd *cobra.Command) (*runEnv, error) {
	flags := cmd.Root().PersistentFlags()
	colorFlag, _ := flags.GetString("color")
	quiet, _ := flags.GetBool("quiet")
	verbose, _ := flags.GetBool("verbose")
	logFormat, _ := flags.GetString("log-format")
	timings, _ := flags.GetBool("timings")
	maxDiags, _ := flags.GetInt("max-diagnostics")
	configPath, _ := flags.GetString("config")

	cm, err := readColorMode(colorFlag)
	if err != nil {
		return nil, err
	}
	useColor := cm.enabled(os.Stderr)
	color.NoColor = !useColor

	format, err := srclog.ParseFormat(logFormat)
	if err != nil {
		return nil, err
	}
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}

	env := &runEnv{
		RunID:    driver.NewRunID(),
		Color:    useColor,
		Quiet:    quiet,
		Timings:  timings,
		MaxDiags: maxDiags,
	}
	logger, shutdown, err := srclog.NewLogger(srclog.LoggerConfig{
		Version:   version.Current().Version,
		RunID:     env.RunID,
		Out:       cmd.ErrOrStderr(),
		Level:     level,
		Format:    format,
		AddSource: verbose && format == srclog.FormatJSON,
	})
	if err != nil {
		return nil, err
	}
	env.Logger = logger
	env.cleanups = append(env.cleanups, func() { _ = shutdown() })

	session, err := setupProfiling(cmd)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.cleanups = append(env.cleanups, func() {
		if err := session.Stop(); err != nil {
			logger.Warn("profiling", slog.String("error", err.Error()))
		}
	})

	cleanupTrace, err := setupTracing(cmd)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.cleanups = append(env.cleanups, cleanupTrace)
	cmd.SetContext(srclog.ContextWithLogger(cmd.Context(), logger))

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	settings, err := config.Discover(wd, configPath)
	if err != nil {
		env.Close()
		return nil, err
	}
	if settings.Path != "" {
		logger.Debug("settings loaded", slog.String("path", settings.Path))
	}
	env.Settings = settings
	return env, nil
}

// setupProfiling starts the runtime profilers the persistent flags ask for.
// The session is nil when none is requested.
func setupProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Heap, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil, nil
	}
	return prof.Start(opts)
}

// printError prints err for the user. Entropy and configuration failures
// get a hint because they are the ones a user can act on.
func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	fmt.Fprintf(w, "%s %v\n", red.Sprint("error:"), err)
	var entropyErr *digest.EntropyError
	switch {
	case errors.As(err, &entropyErr):
		fmt.Fprintln(w, "hint: check --entropy, --random-size and --discard-size")
	case errors.Is(err, driver.ErrInvalidConfig), errors.Is(err, config.ErrUnknownKey):
		fmt.Fprintln(w, "hint: see `srchash hash --help` and `srchash algorithms`")
	}
}
