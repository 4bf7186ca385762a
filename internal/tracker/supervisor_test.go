package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"pacer/internal/logging"
)

type fakeClient struct {
	statuses  []any // Status or error, consumed in order
	stopErr   error
	resumeErr error

	statusCalls int
	stopCalls   int
	resumeCalls int
}

func (f *fakeClient) Status(context.Context) (Status, error) {
	f.statusCalls++
	if len(f.statuses) == 0 {
		return Status{}, errors.New("fakeClient: no scripted status")
	}
	next := f.statuses[0]
	f.statuses = f.statuses[1:]
	if err, ok := next.(error); ok {
		return Status{}, err
	}
	return next.(Status), nil
}

func (f *fakeClient) Stop(context.Context) error {
	f.stopCalls++
	return f.stopErr
}

func (f *fakeClient) Resume(context.Context) error {
	f.resumeCalls++
	return f.resumeErr
}

func newTestSupervisor(client Client, opts Options) (*Supervisor, *[]string) {
	if opts.ClientBinary == "" {
		opts.ClientBinary = "TestClient.bin"
	}
	if opts.MaxStatusAttempts == 0 {
		opts.MaxStatusAttempts = 3
	}
	s := NewSupervisor(client, opts, logging.NewNop())
	var launches []string
	s.killByName = func(string) (int, error) { return 0, nil }
	s.launch = func(binary string, _ ...string) error {
		launches = append(launches, binary)
		return nil
	}
	return s, &launches
}

func TestStatusRetriesWhileNotConnected(t *testing.T) {
	client := &fakeClient{statuses: []any{
		ErrNotConnected,
		ErrNotConnected,
		Status{TrackedToday: 90 * time.Minute, Tracking: true},
	}}
	s, launches := newTestSupervisor(client, Options{ReconnectBackoff: time.Millisecond})

	status, err := s.Status(context.Background())
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if status.TrackedToday != 90*time.Minute || !status.Tracking {
		t.Fatalf("unexpected status: %+v", status)
	}
	if client.statusCalls != 3 {
		t.Fatalf("expected 3 status calls, got %d", client.statusCalls)
	}
	if len(*launches) != 2 {
		t.Fatalf("expected a relaunch per failed attempt, got %d", len(*launches))
	}
}

func TestStatusBoundedRetrySurfacesUnavailable(t *testing.T) {
	client := &fakeClient{statuses: []any{ErrNotConnected, ErrNotConnected, ErrNotConnected}}
	s, _ := newTestSupervisor(client, Options{ReconnectBackoff: time.Millisecond, MaxStatusAttempts: 3})

	_, err := s.Status(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestStatusMalformedResponseIsFatal(t *testing.T) {
	parseErr := errors.New("parse status response: bad json")
	client := &fakeClient{statuses: []any{parseErr}}
	s, launches := newTestSupervisor(client, Options{ReconnectBackoff: time.Millisecond})

	_, err := s.Status(context.Background())
	if !errors.Is(err, parseErr) {
		t.Fatalf("expected parse error to propagate, got %v", err)
	}
	if len(*launches) != 0 {
		t.Fatal("malformed response must not trigger a relaunch")
	}
}

func TestStatusUsesCacheUntilInvalidated(t *testing.T) {
	client := &fakeClient{statuses: []any{
		Status{TrackedToday: time.Hour, Tracking: true},
		Status{TrackedToday: time.Hour, Tracking: false},
	}}
	s, _ := newTestSupervisor(client, Options{
		ReconnectBackoff: time.Millisecond,
		StatusCacheTTL:   10 * time.Minute,
	})

	if _, err := s.Status(context.Background()); err != nil {
		t.Fatalf("first Status: %v", err)
	}
	cached, err := s.Status(context.Background())
	if err != nil {
		t.Fatalf("cached Status: %v", err)
	}
	if !cached.Tracking || client.statusCalls != 1 {
		t.Fatalf("expected cached response, calls=%d status=%+v", client.statusCalls, cached)
	}

	s.InvalidateStatus()
	fresh, err := s.Status(context.Background())
	if err != nil {
		t.Fatalf("fresh Status: %v", err)
	}
	if fresh.Tracking || client.statusCalls != 2 {
		t.Fatalf("expected re-poll after invalidate, calls=%d status=%+v", client.statusCalls, fresh)
	}
}

func TestStatusCacheExpiresAfterTTL(t *testing.T) {
	client := &fakeClient{statuses: []any{
		Status{Tracking: true},
		Status{Tracking: false},
	}}
	s, _ := newTestSupervisor(client, Options{
		ReconnectBackoff: time.Millisecond,
		StatusCacheTTL:   10 * time.Minute,
	})
	current := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	if _, err := s.Status(context.Background()); err != nil {
		t.Fatalf("first Status: %v", err)
	}
	current = current.Add(11 * time.Minute)
	if _, err := s.Status(context.Background()); err != nil {
		t.Fatalf("second Status: %v", err)
	}
	if client.statusCalls != 2 {
		t.Fatalf("expected cache expiry to force a re-poll, calls=%d", client.statusCalls)
	}
}

func TestStopRelaunchesOnceWhenNotConnected(t *testing.T) {
	client := &fakeClient{stopErr: ErrNotConnected}
	s, launches := newTestSupervisor(client, Options{ReconnectBackoff: time.Millisecond})

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	if client.stopCalls != 1 {
		t.Fatalf("stop must not retry, calls=%d", client.stopCalls)
	}
	if len(*launches) != 1 {
		t.Fatalf("expected a single relaunch, got %d", len(*launches))
	}
}

func TestResumePropagatesOtherErrors(t *testing.T) {
	failure := errors.New("tracker error: internal")
	client := &fakeClient{resumeErr: failure}
	s, _ := newTestSupervisor(client, Options{ReconnectBackoff: time.Millisecond})

	if err := s.Resume(context.Background()); !errors.Is(err, failure) {
		t.Fatalf("expected resume error to propagate, got %v", err)
	}
}

func TestStatusHonorsContextCancellation(t *testing.T) {
	client := &fakeClient{statuses: []any{ErrNotConnected, ErrNotConnected}}
	s, _ := newTestSupervisor(client, Options{ReconnectBackoff: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Status(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
