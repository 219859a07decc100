package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/callme-api/internal/bus"
	"github.com/callme-api/internal/domain"
)

// ReminderStore is the minimal store surface the scheduler needs.
type ReminderStore interface {
	ListDue(ctx context.Context, now time.Time) ([]domain.Reminder, error)
	UpdateStatus(ctx context.Context, reminderID string, status domain.ReminderStatus) error
}

// Dispatcher performs the outbound call (or SMS) for one reminder. A nil
// return means the provider accepted the dispatch.
type Dispatcher interface {
	Dispatch(ctx context.Context, phone, message string) error
}

// Publisher fans reminder updates out to live subscribers. Publish never
// returns an error; delivery is best-effort.
type Publisher interface {
	Publish(e bus.Event)
}

// Scheduler polls the store for due reminders on a fixed interval and
// drives each one through dispatch → terminal status → notification.
//
// Ticks are serialized: the loop body runs inline in the ticker select, so
// a tick that is still processing suppresses the next one (time.Ticker
// drops ticks that fire while the body is busy).
type Scheduler struct {
	store           ReminderStore
	dispatcher      Dispatcher
	pub             Publisher
	interval        time.Duration
	dispatchTimeout time.Duration
	log             *slog.Logger

	stop chan struct{}
	done chan struct{}
}

func New(store ReminderStore, dispatcher Dispatcher, pub Publisher, interval, dispatchTimeout time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		store:           store,
		dispatcher:      dispatcher,
		pub:             pub,
		interval:        interval,
		dispatchTimeout: dispatchTimeout,
		log:             log,
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
	}
}

// Start launches the polling loop in a background goroutine.
func (s *Scheduler) Start() {
	go s.run()
}

// Stop signals shutdown and blocks until any in-flight tick has finished,
// so no reminder dispatch is abandoned mid-flight.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Scheduler) run() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.tick(context.Background())
		}
	}
}

// tick snapshots the due set once and processes each reminder in it exactly
// once. Because every processed reminder is flipped to a terminal status
// right after its dispatch attempt, nothing in this snapshot can be
// selected again by a later tick.
func (s *Scheduler) tick(ctx context.Context) {
	now := time.Now().UTC()
	due, err := s.store.ListDue(ctx, now)
	if err != nil {
		// Store unreachable: abort this tick, try again on the next one.
		s.log.Error("due-reminder query failed, skipping tick", "err", err)
		return
	}
	for i := range due {
		if !s.process(ctx, &due[i]) {
			return
		}
	}
}

// process runs the dispatch → status → notify sequence for one reminder.
// Returns false when the status write failed, which aborts the rest of the
// tick (the store is presumed unreachable; work already committed stands).
func (s *Scheduler) process(ctx context.Context, r *domain.Reminder) bool {
	dctx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
	err := s.dispatcher.Dispatch(dctx, r.PhoneNumber, r.Message)
	cancel()

	status := NextStatus(err)
	if err != nil {
		s.log.Warn("call dispatch failed", "reminder_id", r.ReminderID, "title", r.Title, "err", err)
	} else {
		s.log.Info("call triggered", "reminder_id", r.ReminderID, "title", r.Title)
	}

	if uerr := s.store.UpdateStatus(ctx, r.ReminderID, status); uerr != nil {
		s.log.Error("status update failed, aborting tick", "reminder_id", r.ReminderID, "status", status, "err", uerr)
		return false
	}

	// Best-effort: a notification failure never reverts the status update.
	s.pub.Publish(bus.ReminderUpdate(r.ReminderID, status))
	return true
}
