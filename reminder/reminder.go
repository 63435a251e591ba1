// Package reminder sends a notification whenever a daily schedule slot is due.
package reminder

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"git.0xdad.com/tblyler/medicate/daily"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Every minute, the resolution of schedule times
const Every = "* * * * *"

// Runner checks the daily schedule on every cron tick
type Runner struct {
	aggregator *daily.Aggregator
	notifier   Notifier
	logger     zerolog.Logger
	location   *time.Location
}

// NewRunner for the given schedules and medicines, evaluating slot times in loc (time.Local when nil)
func NewRunner(schedules daily.ScheduleLister, medicines daily.MedicineReader, notifier Notifier, logger zerolog.Logger, loc *time.Location) *Runner {
	if loc == nil {
		loc = time.Local
	}

	return &Runner{
		aggregator: &daily.Aggregator{Schedules: schedules, Medicines: medicines},
		notifier:   notifier,
		logger:     logger,
		location:   loc,
	}
}

// Tick sends the reminder for the slot matching now, if any. It reports whether a reminder was sent.
func (r *Runner) Tick(ctx context.Context, now time.Time) (bool, error) {
	now = now.In(r.location)
	slotTime := now.Format(daily.TimeLayout)

	view, err := r.aggregator.Build(ctx, now.Format(daily.DateLayout))
	if err != nil {
		return false, fmt.Errorf("failed to build daily schedule: %w", err)
	}

	for _, slot := range view.Schedules {
		if slot.Time != slotTime {
			continue
		}

		title := "Medicine reminder " + slot.Time
		if err = r.notifier.Notify(ctx, title, Message(slot)); err != nil {
			return false, err
		}

		r.logger.Info().
			Str("date", view.Date).
			Str("time", slot.Time).
			Int("medicines", len(slot.Medicines)).
			Msg("reminder sent")

		return true, nil
	}

	return false, nil
}

// Message lists each medicine of the slot on its own line
func Message(slot daily.DailySchedule) string {
	lines := make([]string, 0, len(slot.Medicines))
	for _, m := range slot.Medicines {
		name := "unknown medicine"
		if m.Medicine != nil {
			name = m.Medicine.String()
		}

		lines = append(lines, fmt.Sprintf("%s x%s", name, strconv.FormatFloat(m.Amount, 'f', -1, 64)))
	}

	return strings.Join(lines, "\n")
}

// Run ticks every minute until ctx is done
func (r *Runner) Run(ctx context.Context) error {
	logger := CronLogger{Logger: r.logger}

	c := cron.New(
		cron.WithLocation(r.location),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	_, err := c.AddFunc(Every, func() {
		if _, err := r.Tick(ctx, time.Now()); err != nil {
			r.logger.Error().Err(err).Msg("reminder tick failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add reminder cron job: %w", err)
	}

	c.Start()
	r.logger.Info().Str("schedule", Every).Msg("reminder runner started")

	<-ctx.Done()
	<-c.Stop().Done()

	r.logger.Info().Msg("reminder runner stopped")

	return nil
}

// CronLogger adapts zerolog to cron.Logger
type CronLogger struct {
	Logger zerolog.Logger
}

// Info is logged at debug level, cron is chatty
func (l CronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.Logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
