package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"SwingScreener/internal/model"
	"SwingScreener/internal/notifier"
	"SwingScreener/internal/recorder"
	"SwingScreener/internal/report"
	"SwingScreener/internal/universe"
)

var (
	// ErrRunInProgress is returned when a run is requested while one is active.
	ErrRunInProgress = errors.New("screening run already in progress")
	// ErrStopped is returned when a run is requested after Stop.
	ErrStopped = errors.New("scheduler stopped")
)

const sendRetries = 3

// Runner screens a universe.
type Runner interface {
	Run(ctx context.Context, stocks []model.UniverseStock) (*model.RunReport, error)
}

// Sender delivers notifications.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Options wires the scheduler's collaborators. Sender and Recorder are optional.
type Options struct {
	Runner   Runner
	Universe universe.Source
	Writer   *report.Writer
	Sender   Sender
	Recorder recorder.Recorder
	TopN     int
}

// Scheduler runs screening on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron *cron.Cron
	Ctx  context.Context

	opts Options
	log  zerolog.Logger

	mu       sync.Mutex
	running  bool
	stopping bool
	latest   *model.RunReport
	wg       sync.WaitGroup
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, opts Options, log zerolog.Logger) *Scheduler {
	if opts.Recorder == nil {
		opts.Recorder = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron: cron.New(cron.WithSeconds()),
		Ctx:  ctx,
		opts: opts,
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterAll registers the screening job.
func (s *Scheduler) RegisterAll(runCron string) error {
	if _, err := s.Cron.AddFunc(runCron, s.screeningTask); err != nil {
		return fmt.Errorf("register screening task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop refuses new runs, stops the cron scheduler and waits for an
// in-flight run.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopping = true
	s.mu.Unlock()

	<-s.Cron.Stop().Done()
	s.wg.Wait()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) screeningTask() {
	if _, err := s.RunNow(s.Ctx); err != nil {
		s.log.Error().Err(err).Msg("scheduled screening failed")
	}
}

// RunNow executes one full screening: load the universe, screen, write the
// report files, record history and notify.
func (s *Scheduler) RunNow(ctx context.Context) (*model.RunReport, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()
	return s.run(ctx)
}

// begin claims the single run slot. The WaitGroup is only added to under mu
// and never once Stop has started waiting.
func (s *Scheduler) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopping {
		return ErrStopped
	}
	if s.running {
		return ErrRunInProgress
	}
	s.running = true
	s.wg.Add(1)
	return nil
}

func (s *Scheduler) end() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	s.wg.Done()
}

func (s *Scheduler) run(ctx context.Context) (*model.RunReport, error) {
	s.log.Info().Msg("running screening task")
	stocks, err := s.opts.Universe.Load(ctx)
	if err != nil {
		s.trySend(ctx, fmt.Sprintf("❌ Universe load failed: %v", err))
		return nil, fmt.Errorf("load universe: %w", err)
	}

	run, err := s.opts.Runner.Run(ctx, stocks)
	if err != nil {
		return run, fmt.Errorf("screening: %w", err)
	}

	s.mu.Lock()
	s.latest = run
	s.mu.Unlock()

	if s.opts.Writer != nil {
		files, err := s.opts.Writer.Write(run)
		if err != nil {
			s.log.Error().Err(err).Msg("write report")
		} else {
			s.log.Info().Str("results", files.Results).Str("top", files.Top).Msg("report written")
		}
	}
	if id, err := s.opts.Recorder.RecordRun(run); err != nil {
		s.log.Error().Err(err).Msg("record run")
	} else if id > 0 {
		s.log.Debug().Int64("run_id", id).Msg("run recorded")
	}

	s.trySend(ctx, notifier.FormatRunReport(run, s.opts.TopN))
	return run, nil
}

// Running reports whether a screening run is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Latest returns the last run of this process, falling back to the last
// snapshot on disk.
func (s *Scheduler) Latest() *model.RunReport {
	s.mu.Lock()
	latest := s.latest
	s.mu.Unlock()
	if latest != nil || s.opts.Writer == nil {
		return latest
	}
	run, err := report.LoadLatest(s.opts.Writer.Dir)
	if err != nil {
		if !errors.Is(err, report.ErrNoRun) {
			s.log.Warn().Err(err).Msg("load latest report")
		}
		return nil
	}
	return run
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	switch strings.ToLower(fields[0]) {
	case "/top":
		run := s.Latest()
		if run == nil {
			return notifier.FormatStatus(nil, s.Running())
		}
		n := s.opts.TopN
		if len(fields) > 1 {
			if v, err := strconv.Atoi(fields[1]); err == nil && v > 0 {
				n = v
			}
		}
		return notifier.FormatRunReport(run, n)
	case "/run":
		switch err := s.begin(); {
		case errors.Is(err, ErrStopped):
			return "🛑 Scheduler is shutting down."
		case err != nil:
			return "⏳ A screening run is already in progress."
		}
		go func() {
			defer s.end()
			if _, err := s.run(s.Ctx); err != nil {
				s.log.Error().Err(err).Msg("manual screening failed")
			}
		}()
		return "🚀 Screening started, results follow when it finishes."
	case "/status":
		return notifier.FormatStatus(s.Latest(), s.Running())
	case "/history":
		if len(fields) < 2 {
			return "Usage: /history SYMBOL"
		}
		sym := universe.NormalizeSymbol(fields[1])
		hist, err := s.opts.Recorder.History(sym, 10)
		if err != nil {
			s.log.Error().Err(err).Msg("load history")
			return "❌ History unavailable."
		}
		return notifier.FormatHistory(sym, hist)
	default:
		return notifier.FormatHelp()
	}
}

// Wait blocks until background runs started by commands have finished.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.opts.Sender == nil {
		return
	}
	if err := s.opts.Sender.SendWithRetry(ctx, text, sendRetries); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
