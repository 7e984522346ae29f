package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srchash/internal/driver"
	"srchash/internal/pipeline"
	"srchash/internal/source"
)

func TestPlanJobs(t *testing.T) {
	jobs, err := driver.PlanJobs([]string{"src/a.c", "lib/b.h"}, "out")
	require.NoError(t, err)
	assert.Equal(t, []driver.Job{
		{Input: "src/a.c", Output: filepath.Join("out", "a.c")},
		{Input: "lib/b.h", Output: filepath.Join("out", "b.h")},
	}, jobs)

	_, err = driver.PlanJobs([]string{"src/a.c", "lib/a.c"}, "out")
	assert.ErrorContains(t, err, "both write")

	_, err = driver.PlanJobs([]string{"src/a.c"}, "src")
	assert.ErrorContains(t, err, "overwrite the input")
}

func TestRunBatchIndependentFailures(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	good := []string{"one.c", "two.cpp", "three.h"}
	for _, name := range good {
		require.NoError(t, os.WriteFile(filepath.Join(in, name), []byte("int "+name[:3]+"x;\n"), 0o600))
	}
	inputs := []string{
		filepath.Join(in, "one.c"),
		filepath.Join(in, "missing.c"),
		filepath.Join(in, "two.cpp"),
		filepath.Join(in, "three.h"),
	}
	jobs, err := driver.PlanJobs(inputs, out)
	require.NoError(t, err)

	var rec pipeline.Recorder
	p, err := driver.NewPipeline(driver.DefaultConfig(), driver.WithProgress(&rec))
	require.NoError(t, err)

	results, err := p.RunBatch(context.Background(), source.NewFileSet(), jobs, 2)
	require.Error(t, err)
	assert.ErrorContains(t, err, "missing.c")
	require.Len(t, results, 4)

	for i, r := range results {
		if i == 1 {
			assert.Error(t, r.Err)
			assert.Nil(t, r.Result)
			assert.NoFileExists(t, r.Job.Output)
			continue
		}
		require.NoError(t, r.Err, r.Job.Input)
		assert.FileExists(t, r.Job.Output)
		assert.Equal(t, 2, r.Result.Stats.Identifiers)
	}

	terminal := map[string]pipeline.Status{}
	for _, e := range rec.Events() {
		if e.Status.Terminal() {
			terminal[e.File] = e.Status
		}
	}
	assert.Len(t, terminal, 4)
	assert.Equal(t, pipeline.StatusError, terminal[driver.DisplayPath(inputs[1])])
	assert.Equal(t, pipeline.StatusDone, terminal[driver.DisplayPath(inputs[0])])
}

func TestRunBatchEmpty(t *testing.T) {
	p, err := driver.NewPipeline(driver.DefaultConfig())
	require.NoError(t, err)
	results, err := p.RunBatch(context.Background(), nil, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}
