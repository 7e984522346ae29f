package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"srchash/internal/config"
	"srchash/internal/version"
)

// newRootCmd builds the command tree. Tests get a fresh tree per run so
// flag state never leaks between them.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "srchash",
		Short: "Salted-digest identifier obfuscator for C-family source",
		Long: `srchash replaces every identifier and string literal of a C-family
source file with a salted digest alias and prepends the alias definitions,
so the result still compiles but no longer reads.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Current().Version,
	}

	// Добавляем команды
	root.AddCommand(newHashCmd())
	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newRestoreCmd())
	root.AddCommand(newMapCmd())
	root.AddCommand(newAlgorithmsCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("config", "", "settings file (default: nearest "+config.FileName+" above the working directory)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.BoolP("verbose", "v", false, "log progress at debug level")
	pf.String("log-format", "text", "log record format (text|json)")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("trace", "", "write trace events to this file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|phase|detail|debug)")
	pf.String("trace-format", "", "trace format (text|ndjson, default from the --trace extension)")
	pf.Int("trace-keep", 0, "keep the last N trace events and print them if a file fails")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	return root
}

// main runs the root command and exits with status 1 on any error.
func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		printError(root.ErrOrStderr(), err)
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
