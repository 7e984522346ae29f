package pipeline

import "testing"

func TestFanoutAndRecorder(t *testing.T) {
	var a, b Recorder
	ch := make(chan Event, 1)
	sink := Fanout{&a, nil, &b, ChannelSink{Ch: ch}}

	Emit(sink, Event{File: "a.c", Stage: StageEmit, Status: StatusDone})
	Emit(nil, Event{File: "ignored"})

	if len(a.Events()) != 1 || len(b.Events()) != 1 {
		t.Fatalf("recorders = %d, %d events", len(a.Events()), len(b.Events()))
	}
	if evt := <-ch; evt.File != "a.c" || !evt.Status.Terminal() {
		t.Fatalf("channel got %+v", evt)
	}
}

func TestStagesOrder(t *testing.T) {
	st := Stages()
	if st[0] != StageLoad || st[len(st)-1] != StageEmit {
		t.Fatalf("stages = %v", st)
	}
	if StatusWorking.Terminal() {
		t.Fatalf("working is not terminal")
	}
}

func TestSinkFuncInFanout(t *testing.T) {
	var done []string
	var nilFunc SinkFunc
	sink := Fanout{nilFunc, SinkFunc(func(evt Event) {
		if evt.Status.Terminal() {
			done = append(done, evt.File)
		}
	})}
	Emit(sink, Event{File: "a.c", Stage: StageLex, Status: StatusWorking})
	Emit(sink, Event{File: "a.c", Stage: StageEmit, Status: StatusDone})
	Emit(sink, Event{File: "b.c", Stage: StageHash, Status: StatusError})
	if len(done) != 2 || done[0] != "a.c" || done[1] != "b.c" {
		t.Fatalf("terminal events = %v", done)
	}
}
