package trace

import (
	"fmt"
	"io"
	"os"
)

// Tracer receives trace events. Implementations must be goroutine-safe.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop discards everything. It is what FromContext returns when no tracer
// was attached.
var Nop Tracer = nopTracer{}

// Config holds tracer configuration.
type Config struct {
	Level Level
	// Output receives the event stream; it wins over OutputPath.
	Output io.Writer
	// OutputPath is a file for the event stream, "-" for stderr. Empty means
	// no stream unless Keep is zero too, in which case events go to stderr.
	OutputPath string
	Format     Format
	// Keep > 0 wraps the stream in a Recorder holding that many events.
	Keep int
}

// New builds the tracer described by cfg. It returns Nop when tracing is off.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}

	var stream Tracer
	if cfg.Output != nil || cfg.OutputPath != "" || cfg.Keep <= 0 {
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		stream = NewStreamTracer(w, cfg.Level, cfg.Format)
	}
	if cfg.Keep <= 0 {
		return stream, nil
	}
	return NewRecorder(cfg.Keep, cfg.Level, stream), nil
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return nopCloser{os.Stderr}, nil
	}
	// #nosec G304 -- trace path comes from the command line
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// nopCloser keeps Close on a stream tracer from closing stderr.
type nopCloser struct{ io.Writer }
