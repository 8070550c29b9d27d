package debounce

import (
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu     sync.Mutex
	values []string
	fired  chan string
}

func newRecorder() *recorder {
	return &recorder{fired: make(chan string, 16)}
}

func (r *recorder) call(v string) {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
	r.fired <- v
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values...)
}

func TestTriggerKeepsLastValue(t *testing.T) {
	rec := newRecorder()
	d := New(30*time.Millisecond, rec.call)
	defer d.Stop()

	d.Trigger("v")
	d.Trigger("vi")
	d.Trigger("vite")

	select {
	case v := <-rec.fired:
		if v != "vite" {
			t.Fatalf("expected vite, got %q", v)
		}
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}

	time.Sleep(60 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 1 {
		t.Fatalf("expected exactly one call, got %v", got)
	}
}

func TestTriggerRestartsQuietPeriod(t *testing.T) {
	rec := newRecorder()
	d := New(50*time.Millisecond, rec.call)
	defer d.Stop()

	d.Trigger("a")
	time.Sleep(20 * time.Millisecond)
	d.Trigger("b")
	time.Sleep(20 * time.Millisecond)
	if len(rec.snapshot()) != 0 {
		t.Fatal("fired before the quiet period elapsed")
	}
	if !d.pending() {
		t.Fatal("expected a pending value")
	}

	select {
	case v := <-rec.fired:
		if v != "b" {
			t.Fatalf("expected b, got %q", v)
		}
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}
}

func TestFlushFiresImmediately(t *testing.T) {
	rec := newRecorder()
	d := New(time.Hour, rec.call)
	defer d.Stop()

	d.Trigger("react")
	d.Flush("")

	got := rec.snapshot()
	if len(got) != 1 || got[0] != "" {
		t.Fatalf("expected a single immediate empty call, got %v", got)
	}
	if d.pending() {
		t.Fatal("flush left a pending value")
	}
}

func TestStopDropsPending(t *testing.T) {
	rec := newRecorder()
	d := New(20*time.Millisecond, rec.call)

	d.Trigger("x")
	d.Stop()
	d.Trigger("y")
	d.Flush("z")

	time.Sleep(60 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Fatalf("expected no calls after stop, got %v", got)
	}
}

func TestZeroIntervalUsesDefault(t *testing.T) {
	d := New(0, func(string) {})
	if d.interval != DefaultInterval {
		t.Fatalf("expected %v, got %v", DefaultInterval, d.interval)
	}
}

func TestFlushWaitsForRunningDelivery(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	var mu sync.Mutex
	var last string
	d := New(5*time.Millisecond, func(v string) {
		if v == "old" {
			close(entered)
			<-release
		}
		mu.Lock()
		last = v
		mu.Unlock()
	})
	defer d.Stop()

	d.Trigger("old")
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}

	flushed := make(chan struct{})
	go func() {
		d.Flush("")
		close(flushed)
	}()

	select {
	case <-flushed:
		t.Fatal("flush overlapped a running delivery")
	case <-time.After(30 * time.Millisecond):
	}

	close(release)
	<-flushed

	mu.Lock()
	defer mu.Unlock()
	if last != "" {
		t.Fatalf("older value landed after flush: %q", last)
	}
}

func TestStaleTimerSkippedAfterFlush(t *testing.T) {
	rec := newRecorder()
	d := New(time.Hour, rec.call)
	defer d.Stop()

	d.mu.Lock()
	seq := d.seq
	d.mu.Unlock()

	d.Flush("new")
	d.fire(seq, "old")

	if got := rec.snapshot(); len(got) != 1 || got[0] != "new" {
		t.Fatalf("expected only the flushed value, got %v", got)
	}
}
