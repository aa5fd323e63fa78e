// Package remind runs the reminder daemon.
package remind

import (
	"context"
	"errors"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/rs/zerolog"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/notify"
	"tableflip.dev/agenda/pkg/reminder"
)

// Remind evaluates reminders until ctx is done. Schedules edited by other
// agenda processes are picked up through the store watch.
type Remind struct {
	App          *app.App
	Notifier     notify.Notifier
	Interval     time.Duration
	InitialDelay time.Duration
	Log          zerolog.Logger

	// Once runs a single evaluation and returns.
	Once bool

	// SdNotify reports daemon state to the service manager. Defaults to
	// daemon.SdNotify.
	SdNotify func(state string) (bool, error)
}

func (r *Remind) Do(ctx context.Context) error {
	if r.App == nil {
		return errors.New("can not remind, no app")
	}
	if r.Notifier == nil {
		return errors.New("can not remind, no notifier")
	}

	s := reminder.New(r.App.Schedules(), r.Notifier,
		reminder.WithClock(reminder.ClockFunc(r.App.Now)),
		reminder.WithInterval(r.Interval),
		reminder.WithInitialDelay(r.InitialDelay),
		reminder.WithLogger(r.Log),
	)

	if r.Once {
		n := s.Tick(ctx)
		r.Log.Info().Int("fired", n).Msg("checked reminders")
		return nil
	}

	if err := r.App.Watch(ctx); err != nil {
		return err
	}
	if err := s.Start(ctx); err != nil {
		return err
	}
	r.notify(daemon.SdNotifyReady)
	r.Log.Info().Int("schedules", r.App.Schedules().Len()).Msg("watching for reminders")

	<-ctx.Done()

	r.notify(daemon.SdNotifyStopping)
	s.Stop()
	r.Log.Info().Msg("reminder daemon stopped")
	return nil
}

func (r *Remind) notify(state string) {
	sd := r.SdNotify
	if sd == nil {
		sd = func(state string) (bool, error) { return daemon.SdNotify(false, state) }
	}
	if sent, err := sd(state); err != nil {
		r.Log.Warn().Err(err).Str("state", state).Msg("sd_notify failed")
	} else if sent {
		r.Log.Debug().Str("state", state).Msg("sd_notify")
	}
}
