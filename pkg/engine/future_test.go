package engine

import (
	"errors"
	"testing"
	"time"
)

func TestFutureSettlesOnce(t *testing.T) {
	f := NewFuture()

	var got []any
	f.onSettle(func(v any, err error) { got = append(got, v) })

	f.Resolve(1)
	f.Resolve(2)
	f.Reject(errors.New("late"))

	if len(got) != 1 || got[0] != 1 {
		t.Errorf("future must settle exactly once, got %v", got)
	}
	if !f.Settled() {
		t.Error("future should report settled")
	}
}

func TestFutureLateSubscriberRunsAsync(t *testing.T) {
	f := Resolved("value")

	done := make(chan any, 1)
	f.onSettle(func(v any, err error) { done <- v })

	select {
	case v := <-done:
		if v != "value" {
			t.Errorf("expected value, got %v", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("late subscriber never ran")
	}
}

func TestFutureGo(t *testing.T) {
	f := Go(func() (any, error) { return 21 * 2, nil })

	done := make(chan any, 1)
	f.onSettle(func(v any, err error) { done <- v })

	select {
	case v := <-done:
		if v != 42 {
			t.Errorf("expected 42, got %v", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Go future never settled")
	}
}

func TestFutureRejected(t *testing.T) {
	boom := errors.New("boom")
	f := Rejected(boom)

	done := make(chan error, 1)
	f.onSettle(func(v any, err error) { done <- err })

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("rejected future never settled")
	}
}

func TestResolveReturnsBeforeSubscribersRun(t *testing.T) {
	f := NewFuture()

	release := make(chan struct{})
	done := make(chan any, 1)
	f.onSettle(func(v any, err error) {
		<-release
		done <- v
	})

	// Resolve must not run the subscriber on this goroutine; if it did,
	// it would block on release forever.
	f.Resolve(7)
	close(release)

	select {
	case v := <-done:
		if v != 7 {
			t.Errorf("expected 7, got %v", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pending subscriber never ran after Resolve")
	}
}
