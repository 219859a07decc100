package scheduler

import (
	"time"

	"github.com/callme-api/internal/domain"
)

// IsDue reports whether r should be dispatched at instant now. Only
// scheduled reminders can be due; the comparison is between UTC instants.
func IsDue(r *domain.Reminder, now time.Time) bool {
	return r.Status == domain.StatusScheduled && !r.ScheduledTime.After(now.UTC())
}

// NextStatus maps a dispatch outcome to the reminder's terminal status.
// The mapping is total: a nil error means the call was accepted, anything
// else (provider rejection, network failure, timeout) means failed.
func NextStatus(dispatchErr error) domain.ReminderStatus {
	if dispatchErr != nil {
		return domain.StatusFailed
	}
	return domain.StatusCompleted
}
