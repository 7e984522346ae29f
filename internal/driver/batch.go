package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"srchash/internal/pipeline"
	"srchash/internal/source"
)

// BatchResult is the outcome of one job in a batch.
type BatchResult struct {
	Job    Job
	Result *Result
	Err    error
}

// DisplayPath is the form of path used in progress events and results. It
// matches source.File.Path.
func DisplayPath(path string) string {
	if path == "-" {
		return "<stdin>"
	}
	return filepath.ToSlash(filepath.Clean(path))
}

// OutputPath derives the artifact path for input inside dir. The base name
// is kept so a batch maps foo.c to dir/foo.c.
func OutputPath(dir, input string) string {
	return filepath.Join(dir, filepath.Base(input))
}

// PlanJobs pairs every input with an output under outDir. Two inputs with
// the same base name would overwrite each other and are rejected.
func PlanJobs(inputs []string, outDir string) ([]Job, error) {
	jobs := make([]Job, 0, len(inputs))
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		out := OutputPath(outDir, in)
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%s and %s both write %s", prev, in, out)
		}
		if sameFile(in, out) {
			return nil, fmt.Errorf("%s: output would overwrite the input", in)
		}
		seen[out] = in
		jobs = append(jobs, Job{Input: in, Output: out})
	}
	return jobs, nil
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// RunBatch runs independent pipelines for jobs, at most `jobs` at a time
// (GOMAXPROCS when not positive). Files are loaded into fs up front in input
// order, so diagnostics can be rendered against it afterwards; a nil fs gets
// a fresh one. A failing file does not stop the others. The returned error
// joins every per-file error.
func (p *Pipeline) RunBatch(ctx context.Context, fs *source.FileSet, list []Job, jobs int) ([]BatchResult, error) {
	results := make([]BatchResult, len(list))
	if len(list) == 0 {
		return results, nil
	}

	// Загружаем файлы последовательно: FileSet не потокобезопасен.
	if fs == nil {
		fs = source.NewFileSet()
	}
	files := make([]*source.File, len(list))
	for i, job := range list {
		results[i].Job = job
		pipeline.Emit(p.progress, pipeline.Event{File: DisplayPath(job.Input), Stage: pipeline.StageLoad, Status: pipeline.StatusQueued})
		f, err := p.Load(fs, job.Input)
		if err != nil {
			results[i].Err = err
			pipeline.Emit(p.progress, pipeline.Event{File: DisplayPath(job.Input), Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: err})
			continue
		}
		files[i] = f
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(list)))

	for i := range list {
		if files[i] == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			res, err := p.RunTo(gctx, files[i], list[i].Output)
			results[i].Result = res
			results[i].Err = err
			return nil
		})
	}
	// Горутины не возвращают ошибок: сбой одного файла не отменяет остальные.
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Job.Input, r.Err))
		}
	}
	return results, errors.Join(errs...)
}
