// Package pipeline defines the progress vocabulary shared by the driver and
// the progress UI: stages, statuses and per-file events.
package pipeline

import "time"

// Stage describes one step of a run.
type Stage string

const (
	// StageLoad reads and decodes the source file.
	StageLoad Stage = "load"
	// StageLex tokenizes the source.
	StageLex Stage = "lex"
	// StageClassify collects identifiers and directives and rewrites numbers.
	StageClassify Stage = "classify"
	// StageHash draws salts and digests every identifier.
	StageHash Stage = "hash"
	// StageSubstitute strips marker lines and replaces identifiers.
	StageSubstitute Stage = "substitute"
	// StageEmit writes the output artifact.
	StageEmit Stage = "emit"
)

// Stages lists the stages of a run in execution order.
func Stages() []Stage {
	return []Stage{StageLoad, StageLex, StageClassify, StageHash, StageSubstitute, StageEmit}
}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running.
	StatusWorking Status = "working"
	// StatusDone indicates the stage (or the whole file) finished.
	StatusDone Status = "done"
	// StatusError indicates the stage failed.
	StatusError Status = "error"
)

// Terminal reports whether s ends a file's progress.
func (s Status) Terminal() bool { return s == StatusDone || s == StatusError }

// Event reports progress for a file (or for the whole batch when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// SinkFunc adapts a plain function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}
