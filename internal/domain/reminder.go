package domain

import "time"

// ReminderStatus is the lifecycle state of a reminder.
// Transitions are one-way: scheduled → completed or scheduled → failed.
type ReminderStatus string

const (
	StatusScheduled ReminderStatus = "scheduled"
	StatusCompleted ReminderStatus = "completed"
	StatusFailed    ReminderStatus = "failed"
)

// Terminal reports whether no further status transition is possible.
func (s ReminderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Valid reports whether s is one of the known statuses.
func (s ReminderStatus) Valid() bool {
	return s == StatusScheduled || s == StatusCompleted || s == StatusFailed
}

// Reminder is a one-shot scheduled phone-call reminder.
// ScheduledTime is always stored normalized to UTC; Timezone records the
// IANA zone the user created it in.
type Reminder struct {
	ReminderID    string         `json:"id" dynamodbav:"reminder_id"`
	Title         string         `json:"title" dynamodbav:"title"`
	Message       string         `json:"message" dynamodbav:"message"`
	PhoneNumber   string         `json:"phone_number" dynamodbav:"phone_number"`
	Timezone      string         `json:"timezone" dynamodbav:"timezone"`
	ScheduledTime time.Time      `json:"scheduled_time" dynamodbav:"scheduled_time"`
	Status        ReminderStatus `json:"status" dynamodbav:"status"`
	CreatedAt     time.Time      `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" dynamodbav:"updated_at"`
}

type CreateReminderRequest struct {
	Title         string    `json:"title" validate:"required,max=200"`
	Message       string    `json:"message" validate:"required"`
	PhoneNumber   string    `json:"phone_number" validate:"required,e164"`
	Timezone      string    `json:"timezone" validate:"required,timezone"`
	ScheduledTime time.Time `json:"scheduled_time" validate:"required"`
}

type UpdateReminderRequest struct {
	Title         *string    `json:"title" validate:"omitempty,max=200"`
	Message       *string    `json:"message"`
	PhoneNumber   *string    `json:"phone_number" validate:"omitempty,e164"`
	Timezone      *string    `json:"timezone" validate:"omitempty,timezone"`
	ScheduledTime *time.Time `json:"scheduled_time"`
}
