// Package scheduler posts due recurring transactions on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fin-guardian/internal/service"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner materialises every recurring template that is due.
type Runner interface {
	RunDue(ctx context.Context) (service.RunResult, error)
}

type Scheduler struct {
	cron *cron.Cron
	// job is Tick behind the recover and skip-if-running wrappers; cron and the start-up
	// run share it so they never overlap.
	job         cron.Job
	startup     sync.WaitGroup
	runner      Runner
	tickTimeout time.Duration
	runOnStart  bool
	logger      *zap.Logger
}

func New(spec string, loc *time.Location, runner Runner, tickTimeout time.Duration, runOnStart bool, logger *zap.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	cl := cronLogger{logger.Sugar()}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
		),
		runner:      runner,
		tickTimeout: tickTimeout,
		runOnStart:  runOnStart,
		logger:      logger,
	}

	s.job = cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(s.Tick))
	if _, err := s.cron.AddJob(spec, s.job); err != nil {
		return nil, fmt.Errorf("invalid recurring schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	if s.runOnStart {
		s.startup.Add(1)
		go func() {
			defer s.startup.Done()
			s.job.Run()
		}()
	}
	s.cron.Start()
	s.logger.Info("Recurring scheduler started", zap.Int("entries", len(s.cron.Entries())))
}

// Stop prevents new ticks and waits for running ones, the start-up run included, until ctx
// is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	cronDone := s.cron.Stop()
	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.startup.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tick runs one pass over the due templates. Failures are logged and left for the next tick.
func (s *Scheduler) Tick() {
	ctx := context.Background()
	if s.tickTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.tickTimeout)
		defer cancel()
	}

	res, err := s.runner.RunDue(ctx)
	if err != nil {
		s.logger.Error("Recurring tick failed", zap.Int("failed", res.Failed), zap.Error(err))
		return
	}
	s.logger.Debug("Recurring tick done", zap.Duration("took", time.Since(res.StartedAt)))
}

// cronLogger routes cron's own messages through zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
