package trace

import (
	"io"
	"sync"
)

// Recorder keeps the last events of a run and hands every event on to next
// when there is one. A span that ends with an "error" extra marks the
// recording failed, so the CLI prints it only for runs where a file broke.
type Recorder struct {
	next  Tracer
	level Level

	mu     sync.Mutex
	events []Event
	head   int
	full   bool
	failed bool
}

// NewRecorder keeps up to keep events; next may be nil.
func NewRecorder(keep int, level Level, next Tracer) *Recorder {
	if keep <= 0 {
		keep = 1
	}
	return &Recorder{next: next, level: level, events: make([]Event, keep)}
}

func (r *Recorder) Emit(ev *Event) {
	if !r.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	if ev.Seq == 0 {
		ev.Seq = NextSeq()
	}

	r.mu.Lock()
	r.events[r.head] = *ev
	r.head = (r.head + 1) % len(r.events)
	if r.head == 0 {
		r.full = true
	}
	if ev.Kind == KindSpanEnd && ev.Extra["error"] != "" {
		r.failed = true
	}
	r.mu.Unlock()

	if r.next != nil {
		cp := *ev
		r.next.Emit(&cp)
	}
}

// Events returns the kept events, oldest first.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]Event(nil), r.events[:r.head]...)
	}
	out := make([]Event, 0, len(r.events))
	out = append(out, r.events[r.head:]...)
	return append(out, r.events[:r.head]...)
}

// Failed reports whether a recorded span ended with an error.
func (r *Recorder) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed
}

// WriteTo prints the kept events as text.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, ev := range r.Events() {
		m, err := w.Write(formatText(&ev))
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func (r *Recorder) Flush() error {
	if r.next == nil {
		return nil
	}
	return r.next.Flush()
}

func (r *Recorder) Close() error {
	if r.next == nil {
		return nil
	}
	return r.next.Close()
}

func (r *Recorder) Level() Level  { return r.level }
func (r *Recorder) Enabled() bool { return r.level > LevelOff }
