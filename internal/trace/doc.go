// Package trace records spans for srchash runs.
//
// A batch run opens a ScopeRun span, each file gets a ScopeFile span, every
// pipeline stage (lex, classify, hash, substitute, emit) a ScopeStage span,
// and at LevelDebug each hashed identifier a ScopeIdent span. A heartbeat
// goroutine keeps emitting while a stage is stuck, which makes a blocked
// entropy device visible in the trace.
//
//	srchash hash --trace=- --trace-level=detail main.c -o out.c
//
// Tracers travel in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	sp := trace.Begin(trace.FromContext(ctx), trace.ScopeStage, "hash", parent)
//	defer sp.End("")
package trace
