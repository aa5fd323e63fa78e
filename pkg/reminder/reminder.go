// Package reminder fires a notification once for every schedule whose
// reminder offset has been reached.
package reminder

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"tableflip.dev/agenda/pkg/logging"
	"tableflip.dev/agenda/pkg/notify"
	"tableflip.dev/agenda/pkg/schedule"
)

const (
	// DefaultInterval is how often reminders are evaluated.
	DefaultInterval = time.Minute
	// DefaultInitialDelay is the wait before the first evaluation after Start.
	DefaultInitialDelay = time.Second

	titlePrefix = "⏰ Reminder: "
	defaultBody = "Starting soon"
)

// Source provides the schedules to evaluate on every tick.
type Source interface {
	All() []schedule.Schedule
}

// Clock reads the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock used to decide what is due.
func WithClock(c Clock) Option { return func(s *Scheduler) { s.clock = c } }

// WithInterval sets the period between evaluations.
func WithInterval(d time.Duration) Option { return func(s *Scheduler) { s.interval = d } }

// WithInitialDelay sets the wait before the first evaluation.
func WithInitialDelay(d time.Duration) Option { return func(s *Scheduler) { s.initialDelay = d } }

// WithLogger sets the logger for fired and failed reminders.
func WithLogger(l zerolog.Logger) Option { return func(s *Scheduler) { s.log = l } }

// WithLocation sets the zone schedule dates and times are read in.
func WithLocation(loc *time.Location) Option { return func(s *Scheduler) { s.loc = loc } }

type firedKey struct {
	id      string
	instant time.Time
}

// Scheduler evaluates reminders periodically.
type Scheduler struct {
	src          Source
	notifier     notify.Notifier
	clock        Clock
	interval     time.Duration
	initialDelay time.Duration
	log          zerolog.Logger
	loc          *time.Location

	tickMu sync.Mutex
	fired  map[firedKey]struct{}

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	timer   *time.Timer
	cron    *cron.Cron
}

// New returns a stopped Scheduler.
func New(src Source, n notify.Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		src:          src,
		notifier:     n,
		clock:        ClockFunc(time.Now),
		interval:     DefaultInterval,
		initialDelay: DefaultInitialDelay,
		log:          zerolog.Nop(),
		loc:          time.Local,
		fired:        make(map[firedKey]struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	if s.initialDelay < 0 {
		s.initialDelay = 0
	}
	return s
}

// Due reports whether the reminder of sc should fire at now: a reminder is
// set, the event is still in the future, and the whole number of minutes
// left equals the reminder offset.
func (s *Scheduler) Due(sc schedule.Schedule, now time.Time) (bool, error) {
	if !sc.HasReminder() {
		return false, nil
	}
	instant, err := sc.Instant(s.loc)
	if err != nil {
		return false, err
	}
	return due(instant, *sc.Reminder, now), nil
}

func due(instant time.Time, reminder int, now time.Time) bool {
	diff := instant.Sub(now)
	if diff <= 0 {
		return false
	}
	// Positive durations truncate, which is floor.
	return int64(diff/time.Minute) == int64(reminder)
}

// Tick evaluates every schedule once and returns the number of
// notifications delivered.
func (s *Scheduler) Tick(ctx context.Context) int {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	return s.tickLocked(ctx)
}

func (s *Scheduler) tickLocked(ctx context.Context) int {
	now := s.clock.Now()
	for k := range s.fired {
		if !k.instant.After(now) {
			delete(s.fired, k)
		}
	}

	sent := 0
	for _, sc := range s.src.All() {
		ok, err := s.Due(sc, now)
		if err != nil {
			s.log.Warn().Err(err).Str("id", sc.ID).Msg("skipping malformed schedule")
			continue
		}
		if !ok {
			continue
		}
		instant, _ := sc.Instant(s.loc)
		key := firedKey{id: sc.ID, instant: instant}
		if _, done := s.fired[key]; done {
			continue
		}

		body := sc.Description
		if body == "" {
			body = defaultBody
		}
		if err := s.notifier.Notify(ctx, titlePrefix+sc.Title, body); err != nil {
			s.log.Error().Err(err).Str("id", sc.ID).Msg("notification failed")
			continue
		}
		s.fired[key] = struct{}{}
		sent++
		s.log.Info().Str("id", sc.ID).Str("title", sc.Title).Time("at", instant).Msg("reminder sent")
	}
	return sent
}

// Start runs a first tick after the initial delay and then one tick per
// interval until Stop is called or ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("reminder: scheduler already started")
	}
	s.started = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	logger := logging.CronLogger{Log: s.log}
	s.cron = cron.New(
		cron.WithLocation(s.loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(func() { s.run(runCtx) }))
	s.cron.Start()
	s.timer = time.AfterFunc(s.initialDelay, func() { s.run(runCtx) })

	go func() {
		<-runCtx.Done()
		s.Stop()
	}()

	s.log.Debug().Dur("interval", s.interval).Dur("initial_delay", s.initialDelay).Msg("reminder scheduler started")
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	if ctx.Err() != nil {
		return
	}
	s.tickLocked(ctx)
}

// Stop halts the scheduler and waits for a running tick to finish. No tick
// starts after Stop returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.timer.Stop()
	s.cancel()
	done := s.cron.Stop()
	s.mu.Unlock()

	<-done.Done()
	// Wait out a tick started by the initial timer.
	s.tickMu.Lock()
	s.tickMu.Unlock()
	s.log.Debug().Msg("reminder scheduler stopped")
}
