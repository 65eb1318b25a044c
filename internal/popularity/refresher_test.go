// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package popularity

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type stubStore struct {
	calls atomic.Int64
	err   error
}

func (s *stubStore) RefreshPopularity(ctx context.Context) (int, error) {
	s.calls.Add(1)
	return 3, s.err
}

func TestNewRefresherValidation(t *testing.T) {
	if _, err := NewRefresher(nil, time.Minute); err == nil {
		t.Fatal("expected error for nil store")
	}

	r, err := NewRefresher(&stubStore{}, 0)
	if err != nil {
		t.Fatalf("NewRefresher: %v", err)
	}
	if r.interval != DefaultRefreshInterval {
		t.Fatalf("interval = %v, want %v", r.interval, DefaultRefreshInterval)
	}
}

func TestServeRefreshesOnStartAndTick(t *testing.T) {
	store := &stubStore{}
	r, err := NewRefresher(store, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewRefresher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	// Immediate refresh plus at least one tick.
	deadline := time.After(2 * time.Second)
	for store.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("refresh calls = %d, want >= 2", store.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServeSurvivesRefreshErrors(t *testing.T) {
	store := &stubStore{err: errors.New("aggregation failed")}
	r, err := NewRefresher(store, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewRefresher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for store.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("refresh calls = %d, want >= 3 despite errors", store.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestStringName(t *testing.T) {
	r, err := NewRefresher(&stubStore{}, time.Minute)
	if err != nil {
		t.Fatalf("NewRefresher: %v", err)
	}
	if got := r.String(); got != "popularity-refresher" {
		t.Fatalf("String() = %q", got)
	}
}
