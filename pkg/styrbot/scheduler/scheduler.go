// Package scheduler implements the reminder sweeper: a cron-driven loop
// that finds meetings inside the reminder window and posts a reminder to
// each meeting's channel exactly once per meeting. Delivery is
// at-least-once: if posting succeeds but persisting the sent flag fails,
// the next sweep may repeat the reminder.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/hjalmarsson/styrbot/pkg/styrbot/meetings"
)

// MeetingSource is the slice of the meeting store the sweeper uses. It
// never mutates records directly; marking a reminder sent goes through the
// store's own entry point.
type MeetingSource interface {
	ListNeedingReminders(windowDays int) []*meetings.Meeting
	MarkReminderSent(id string)
}

// Notifier delivers a reminder message to a chat channel.
type Notifier interface {
	Notify(ctx context.Context, channelID, message string) error
}

// Sweeper runs the periodic reminder check. Two states: idle (waiting for
// the next tick) and sweeping. A tick that arrives while a sweep is still
// running is skipped, so sweeps never overlap.
type Sweeper struct {
	source     MeetingSource
	notifier   Notifier
	interval   time.Duration
	windowDays int

	cron     *cron.Cron
	sweeping atomic.Bool

	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Sweeper. interval is the time between sweeps, windowDays
// the reminder lead time.
func New(source MeetingSource, notifier Notifier, interval time.Duration, windowDays int, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		source:     source,
		notifier:   notifier,
		interval:   interval,
		windowDays: windowDays,
		logger:     logger,
	}
}

// Start runs one sweep immediately and then schedules recurring sweeps.
func (s *Sweeper) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.Sweep(s.ctx)

	s.cron = cron.New()
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() { s.Sweep(s.ctx) }); err != nil {
		return fmt.Errorf("scheduling reminder sweep: %w", err)
	}
	s.cron.Start()

	s.logger.Info("reminder sweeper started", "interval", s.interval.String(), "window_days", s.windowDays)
	return nil
}

// Stop halts the cron loop and waits briefly for a running sweep.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		done := s.cron.Stop()
		select {
		case <-done.Done():
		case <-time.After(10 * time.Second):
			s.logger.Warn("sweeper stop timed out")
		}
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.logger.Info("reminder sweeper stopped")
}

// Sweep performs one due-meeting check. Returns the number of reminders
// delivered. Re-entrant calls are rejected while a sweep is in progress.
func (s *Sweeper) Sweep(ctx context.Context) int {
	if !s.sweeping.CompareAndSwap(false, true) {
		s.logger.Warn("skipping sweep (previous sweep still running)")
		return 0
	}
	defer s.sweeping.Store(false)

	sweepID := uuid.NewString()[:8]
	due := s.source.ListNeedingReminders(s.windowDays)
	s.logger.Info("reminder sweep", "sweep_id", sweepID, "due", len(due))

	sent := 0
	for _, m := range due {
		if ctx.Err() != nil {
			break
		}
		if err := s.notifier.Notify(ctx, m.ChannelID, m.ReminderMessage()); err != nil {
			// Leave the flag unset so the next sweep retries.
			s.logger.Error("reminder delivery failed",
				"sweep_id", sweepID, "meeting_id", m.ID, "channel_id", m.ChannelID, "error", err)
			continue
		}
		s.source.MarkReminderSent(m.ID)
		sent++
		s.logger.Info("reminder sent", "sweep_id", sweepID, "meeting_id", m.ID, "title", m.Title)
	}
	return sent
}
