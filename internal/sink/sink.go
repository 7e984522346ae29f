// Package sink provides output destinations that commit all-or-nothing.
//
// A file sink writes into a temporary file next to the destination and
// renames it into place on Commit. Close without Commit removes the
// temporary file, so a failed run never leaves a half-written output.
package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Stdout is the path that selects standard output.
const Stdout = "-"

// Sink is an output destination. Close is safe to call after Commit and on
// every error path.
type Sink interface {
	io.Writer
	// Commit publishes the written bytes. Nothing is visible before it.
	Commit() error
	Close() error
	// Name describes the destination for logs.
	Name() string
}

// Open returns a stdout sink for "-" and an atomic file sink otherwise.
func Open(path string, perm os.FileMode) (Sink, error) {
	if path == Stdout {
		return &streamSink{w: os.Stdout, name: "<stdout>"}, nil
	}
	return CreateFile(path, perm)
}

// Writer wraps an arbitrary writer; Commit and Close are no-ops.
func Writer(w io.Writer, name string) Sink {
	return &streamSink{w: w, name: name}
}

type streamSink struct {
	w    io.Writer
	name string
}

func (s *streamSink) Write(p []byte) (int, error) { return s.w.Write(p) }
func (s *streamSink) Commit() error               { return nil }
func (s *streamSink) Close() error                { return nil }
func (s *streamSink) Name() string                { return s.name }

// FileSink is an atomic file destination.
type FileSink struct {
	path string
	perm os.FileMode
	tmp  *os.File
	done bool
}

// CreateFile prepares an atomic sink for path. The parent directory is
// created when missing.
func CreateFile(path string, perm os.FileMode) (*FileSink, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp output: %w", err)
	}
	if perm == 0 {
		perm = 0o644
	}
	return &FileSink{path: path, perm: perm, tmp: f}, nil
}

func (s *FileSink) Write(p []byte) (int, error) {
	if s.done {
		return 0, os.ErrClosed
	}
	return s.tmp.Write(p)
}

func (s *FileSink) Name() string { return s.path }

// Commit flushes the temporary file and renames it over the destination.
func (s *FileSink) Commit() error {
	if s.done {
		return os.ErrClosed
	}
	s.done = true
	if err := s.tmp.Chmod(s.perm); err != nil {
		return errors.Join(fmt.Errorf("chmod %s: %w", s.path, err), s.discard())
	}
	if err := s.tmp.Close(); err != nil {
		return errors.Join(fmt.Errorf("close %s: %w", s.path, err), s.discard())
	}
	// Атомарная замена
	if err := os.Rename(s.tmp.Name(), s.path); err != nil {
		return errors.Join(fmt.Errorf("rename %s: %w", s.path, err), s.discard())
	}
	return nil
}

// Close drops the temporary file unless Commit succeeded.
func (s *FileSink) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	_ = s.tmp.Close()
	return s.discard()
}

func (s *FileSink) discard() error {
	if err := os.Remove(s.tmp.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// WriteFile writes data to path atomically.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	s, err := Open(path, perm)
	if err != nil {
		return err
	}
	defer s.Close()
	if _, err := s.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", s.Name(), err)
	}
	return s.Commit()
}
