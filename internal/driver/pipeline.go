// Package driver wires the stages into one run: lex, classify, hash,
// substitute and emit. A Pipeline is immutable after NewPipeline and may be
// shared by concurrent runs; runs share no other state.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"

	"srchash/internal/alias"
	"srchash/internal/classify"
	"srchash/internal/diag"
	"srchash/internal/dialect"
	"srchash/internal/digest"
	"srchash/internal/emit"
	"srchash/internal/lexer"
	srclog "srchash/internal/log"
	"srchash/internal/observ"
	"srchash/internal/pipeline"
	"srchash/internal/sink"
	"srchash/internal/source"
	"srchash/internal/subst"
	"srchash/internal/token"
	"srchash/internal/trace"
)

// Pipeline runs the obfuscation stages with one resolved Config.
type Pipeline struct {
	cfg      Config
	hasher   *digest.Hasher
	dialect  *dialect.Dialect
	progress pipeline.ProgressSink
	stdin    io.Reader
	stdout   io.Writer
	perm     os.FileMode
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithProgress delivers per-file stage events to s.
func WithProgress(s pipeline.ProgressSink) Option {
	return func(p *Pipeline) { p.progress = s }
}

// WithStdio replaces the streams used for "-" inputs and outputs.
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(p *Pipeline) {
		p.stdin = in
		p.stdout = out
	}
}

// WithFileMode sets the permissions of written output files.
func WithFileMode(perm os.FileMode) Option {
	return func(p *Pipeline) { p.perm = perm }
}

// NewPipeline validates cfg eagerly: an unsupported algorithm, a negative
// size, an unknown language or a bad alias prefix fails here, before any
// file is read.
func NewPipeline(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Entropy == nil {
		cfg.Entropy = digest.SystemSource{}
	}
	h, err := digest.NewHasher(cfg.Algorithm, cfg.SaltSize, cfg.DiscardSize, cfg.Entropy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	p := &Pipeline{
		cfg:    cfg,
		hasher: h,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		perm:   0o644,
	}
	if cfg.Language != "" {
		d, err := dialect.Lookup(cfg.Language)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		p.dialect = &d
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Config returns the resolved configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// DialectFor returns the dialect used for path: the forced language, or the
// one its extension selects.
func (p *Pipeline) DialectFor(path string) dialect.Dialect {
	var d dialect.Dialect
	if p.dialect != nil {
		d = *p.dialect
	} else {
		d = dialect.ForPath(path)
	}
	return d.WithNumbers(p.cfg.HexNumbers)
}

// Load reads path into fs using the configured encoding. "-" reads stdin.
func (p *Pipeline) Load(fs *source.FileSet, path string) (*source.File, error) {
	var (
		id  source.FileID
		err error
	)
	if path == sink.Stdout {
		raw, rerr := io.ReadAll(p.stdin)
		if rerr != nil {
			return nil, fmt.Errorf("read stdin: %w", rerr)
		}
		id, err = fs.AddVirtualEncoded("<stdin>", raw, p.cfg.Encoding)
	} else {
		id, err = fs.LoadEncoded(path, p.cfg.Encoding)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return fs.Get(id), nil
}

// Run processes file and writes the artifact to w. On error nothing useful
// has been written; callers that need all-or-nothing output use RunTo.
func (p *Pipeline) Run(ctx context.Context, file *source.File, w io.Writer) (*Result, error) {
	if file == nil {
		return nil, errors.New("driver: nil source file")
	}
	d := p.DialectFor(file.Path)
	bag := diag.NewBag(p.cfg.MaxDiagnostics)
	rep := diag.BagReporter{Bag: bag}
	res := &Result{Path: file.Path, Dialect: d.Name, Algorithm: p.cfg.Algorithm, Bag: bag}

	logger := srclog.FromContext(ctx).With(slog.String("file", file.Path))
	tracer := trace.FromContext(ctx)
	fileSpan := trace.Begin(tracer, trace.ScopeFile, file.Path, trace.ParentFrom(ctx))
	timer := observ.NewTimer()
	stages := &stageRunner{
		ctx:      ctx,
		file:     file.Path,
		tracer:   tracer,
		parent:   fileSpan.ID(),
		timer:    timer,
		progress: p.progress,
		logger:   logger,
	}
	defer func() {
		res.Timing = timer.Report()
		fileSpan.WithExtra("identifiers", fmt.Sprint(res.Stats.Identifiers))
		if stages.failed != "" {
			fileSpan.WithExtra("error", stages.failed)
		}
		fileSpan.End(d.Name)
	}()

	var toks []token.Token
	err := stages.run(pipeline.StageLex, func(context.Context) (string, error) {
		toks = slices.Collect(lexer.Scan(file, lexer.Options{Reporter: rep, Dialect: d}))
		for _, t := range toks {
			if t.Kind == token.Invalid {
				res.Stats.Invalid++
			}
		}
		res.Stats.Tokens = len(toks)
		return fmt.Sprintf("%d tokens", len(toks)), nil
	})
	if err != nil {
		return res, err
	}

	var cl *classify.Result
	err = stages.run(pipeline.StageClassify, func(ctx context.Context) (string, error) {
		var cerr error
		cl, cerr = classify.Classify(ctx, file, slices.Values(toks), classify.Options{Reporter: rep})
		if cerr != nil {
			return "", cerr
		}
		res.Identifiers = cl.Identifiers.SubstitutionOrder()
		res.Directives = cl.Directives
		res.Stats.Identifiers = len(res.Identifiers)
		res.Stats.Directives = len(cl.Directives)
		res.Stats.NumberRewrites = cl.Rewrites
		return fmt.Sprintf("%d identifiers, %d directives", len(res.Identifiers), len(cl.Directives)), nil
	})
	if err != nil {
		return res, err
	}
	logger.Info("identifiers collected",
		slog.Int("identifiers", res.Stats.Identifiers),
		slog.Int("directives", res.Stats.Directives))

	err = stages.run(pipeline.StageHash, func(ctx context.Context) (string, error) {
		parent := trace.ParentFrom(ctx)
		total := len(res.Identifiers)
		m, herr := alias.Build(ctx, res.Identifiers, p.cfg.AliasPrefix, p.hasher, func(i int, e alias.Entry) {
			trace.Point(tracer, trace.ScopeIdent, "ident", fmt.Sprintf("%d/%d %s%s", i+1, total, p.cfg.AliasPrefix, e.Digest), parent)
		})
		if herr != nil {
			return "", herr
		}
		res.Aliases = m
		return fmt.Sprintf("%d digests, %s", m.Len(), p.cfg.Algorithm), nil
	})
	if err != nil {
		return res, err
	}

	err = stages.run(pipeline.StageSubstitute, func(ctx context.Context) (string, error) {
		body, st, serr := subst.Substitute(ctx, cl.Body, res.Identifiers, res.Aliases, d)
		if serr != nil {
			return "", serr
		}
		res.Body = body
		res.Stats.StrippedLines = st.StrippedLines
		res.Stats.Replacements = st.Replacements
		return fmt.Sprintf("%d replacements, %d lines stripped", st.Replacements, st.StrippedLines), nil
	})
	if err != nil {
		return res, err
	}

	err = stages.run(pipeline.StageEmit, func(context.Context) (string, error) {
		n, eerr := emit.Write(w, emit.Input{
			Directives: res.Directives,
			Aliases:    res.Aliases,
			Body:       res.Body,
			Marker:     d.Marker,
			Encoding:   file.Encoding,
		})
		res.Stats.BytesWritten = n
		if eerr != nil {
			return "", eerr
		}
		return fmt.Sprintf("%d bytes", n), nil
	})
	if err != nil {
		return res, err
	}
	return res, nil
}

// RunTo runs the pipeline and commits the artifact to output ("-" is
// stdout). A file output is only replaced when every stage succeeded.
func (p *Pipeline) RunTo(ctx context.Context, file *source.File, output string) (*Result, error) {
	start := time.Now()
	fail := func(stage pipeline.Stage, err error) error {
		pipeline.Emit(p.progress, pipeline.Event{File: file.Path, Stage: stage, Status: pipeline.StatusError, Err: err, Elapsed: time.Since(start)})
		return err
	}

	var (
		out sink.Sink
		err error
	)
	if output == sink.Stdout {
		out = sink.Writer(p.stdout, "<stdout>")
	} else {
		out, err = sink.Open(output, p.perm)
		if err != nil {
			return nil, fail(pipeline.StageEmit, err)
		}
	}
	defer func() { _ = out.Close() }()

	res, err := p.Run(ctx, file, out)
	if res != nil {
		res.Output = out.Name()
	}
	if err != nil {
		return res, err
	}
	if err := out.Commit(); err != nil {
		return res, fail(pipeline.StageEmit, err)
	}
	pipeline.Emit(p.progress, pipeline.Event{File: file.Path, Stage: pipeline.StageEmit, Status: pipeline.StatusDone, Elapsed: time.Since(start)})
	srclog.FromContext(ctx).Info("output written",
		slog.String("file", file.Path),
		slog.String("output", out.Name()),
		slog.Int64("bytes", res.Stats.BytesWritten))
	return res, nil
}

// Job names one input and where its artifact goes.
type Job struct {
	Input  string
	Output string
}

// HashFile loads job.Input into fs and runs it to job.Output.
func (p *Pipeline) HashFile(ctx context.Context, fs *source.FileSet, job Job) (*Result, error) {
	file, err := p.Load(fs, job.Input)
	if err != nil {
		return nil, err
	}
	return p.RunTo(ctx, file, job.Output)
}

// NewRunID returns a fresh identifier that ties logs, traces and saved alias
// maps of one invocation together.
func NewRunID() string { return uuid.NewString() }
