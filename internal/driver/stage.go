package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"srchash/internal/observ"
	"srchash/internal/pipeline"
	"srchash/internal/trace"
)

// stageRunner runs the stages of one file: it reports progress, opens a
// trace span, times the stage and logs its outcome.
type stageRunner struct {
	ctx      context.Context
	file     string
	tracer   trace.Tracer
	parent   uint64
	timer    *observ.Timer
	progress pipeline.ProgressSink
	logger   *slog.Logger
	// failed is the first stage error, kept for the file span.
	failed   string
}

// run executes fn as stage. fn returns a short note for timings and traces.
func (r *stageRunner) run(stage pipeline.Stage, fn func(ctx context.Context) (string, error)) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	pipeline.Emit(r.progress, pipeline.Event{File: r.file, Stage: stage, Status: pipeline.StatusWorking})

	sp := trace.Begin(r.tracer, trace.ScopeStage, string(stage), r.parent)
	idx := r.timer.Begin(string(stage))
	note, err := fn(trace.WithParent(r.ctx, sp.ID()))
	elapsed := r.timer.End(idx, note)
	if err != nil {
		sp.WithExtra("error", err.Error())
		if r.failed == "" {
			r.failed = fmt.Sprintf("%s: %v", stage, err)
		}
	}
	sp.End(note)

	if err != nil {
		pipeline.Emit(r.progress, pipeline.Event{File: r.file, Stage: stage, Status: pipeline.StatusError, Err: err, Elapsed: elapsed})
		return fmt.Errorf("%s: %w", stage, err)
	}
	r.logger.Debug("stage finished",
		slog.String("stage", string(stage)),
		slog.Duration("elapsed", elapsed.Round(time.Microsecond)),
		slog.String("note", note))
	return nil
}
