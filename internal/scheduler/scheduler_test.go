package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"fin-guardian/internal/service"

	"go.uber.org/zap"
)

type fakeRunner struct {
	calls       atomic.Int32
	hadDeadline atomic.Bool
	err         error
	ran         chan struct{}
	release     chan struct{}
}

func (f *fakeRunner) RunDue(ctx context.Context) (service.RunResult, error) {
	f.calls.Add(1)
	_, ok := ctx.Deadline()
	f.hadDeadline.Store(ok)
	if f.ran != nil {
		f.ran <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return service.RunResult{StartedAt: time.Now()}, f.err
}

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New("not a schedule", time.UTC, &fakeRunner{}, time.Second, false, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestTick(t *testing.T) {
	tests := []struct {
		name         string
		timeout      time.Duration
		err          error
		wantDeadline bool
	}{
		{"with timeout", time.Minute, nil, true},
		{"without timeout", 0, nil, false},
		{"runner error is swallowed", time.Minute, errors.New("boom"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRunner{err: tt.err}
			s, err := New("@daily", time.UTC, r, tt.timeout, false, zap.NewNop())
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			s.Tick()

			if got := r.calls.Load(); got != 1 {
				t.Errorf("RunDue calls = %d, want 1", got)
			}
			if got := r.hadDeadline.Load(); got != tt.wantDeadline {
				t.Errorf("deadline set = %v, want %v", got, tt.wantDeadline)
			}
		})
	}
}

func TestStart_RunOnStart(t *testing.T) {
	r := &fakeRunner{ran: make(chan struct{}, 1)}
	s, err := New("@daily", time.UTC, r, time.Second, true, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s.Start()
	select {
	case <-r.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("expected an immediate run on start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestStart_RunOnStartDoesNotOverlap(t *testing.T) {
	r := &fakeRunner{ran: make(chan struct{}, 2), release: make(chan struct{})}
	s, err := New("@daily", time.UTC, r, time.Second, true, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s.Start()
	select {
	case <-r.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("expected an immediate run on start")
	}

	// a scheduled tick arriving while the start-up run is busy is skipped
	s.job.Run()
	if got := r.calls.Load(); got != 1 {
		t.Errorf("RunDue calls = %d, want 1", got)
	}

	short, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := s.Stop(short); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Stop() during start-up run error = %v, want deadline exceeded", err)
	}

	close(r.release)
	ctx, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	if err := s.Stop(ctx); err != nil {
		t.Errorf("Stop() after start-up run error = %v", err)
	}
}
