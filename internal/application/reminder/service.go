package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/callme-api/internal/domain"
	"github.com/callme-api/internal/pkg/id"
	"github.com/callme-api/internal/pkg/validate"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldTitle         = "title"
	fieldMessage       = "message"
	fieldPhoneNumber   = "phone_number"
	fieldTimezone      = "timezone"
	fieldScheduledTime = "scheduled_time"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateReminderRequest) (*domain.Reminder, error)
	List(ctx context.Context, status string) ([]domain.Reminder, error)
	Get(ctx context.Context, reminderID string) (*domain.Reminder, error)
	Update(ctx context.Context, reminderID string, req domain.UpdateReminderRequest) (*domain.Reminder, error)
	Delete(ctx context.Context, reminderID string) error
}

type reminderStore interface {
	Put(ctx context.Context, r *domain.Reminder) error
	Get(ctx context.Context, reminderID string) (*domain.Reminder, error)
	List(ctx context.Context, status domain.ReminderStatus) ([]domain.Reminder, error)
	Update(ctx context.Context, reminderID string, updates map[string]interface{}) error
	Delete(ctx context.Context, reminderID string) error
}

type service struct {
	repo reminderStore
}

func NewService(repo reminderStore) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req domain.CreateReminderRequest) (*domain.Reminder, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	scheduled, err := normalizeSchedule(req.ScheduledTime, req.Timezone)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	r := &domain.Reminder{
		ReminderID:    id.New(),
		Title:         req.Title,
		Message:       req.Message,
		PhoneNumber:   req.PhoneNumber,
		Timezone:      req.Timezone,
		ScheduledTime: scheduled,
		Status:        domain.StatusScheduled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Put(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) List(ctx context.Context, status string) ([]domain.Reminder, error) {
	filter := domain.ReminderStatus(status)
	if status != "" && !filter.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, domain.ErrBadRequest)
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Get(ctx context.Context, reminderID string) (*domain.Reminder, error) {
	return s.repo.Get(ctx, reminderID)
}

func (s *service) Update(ctx context.Context, reminderID string, req domain.UpdateReminderRequest) (*domain.Reminder, error) {
	existing, err := s.repo.Get(ctx, reminderID)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates[fieldTitle] = *req.Title
	}
	if req.Message != nil {
		if *req.Message == "" {
			return nil, fmt.Errorf("message must not be empty: %w", domain.ErrBadRequest)
		}
		updates[fieldMessage] = *req.Message
	}
	if req.PhoneNumber != nil {
		updates[fieldPhoneNumber] = *req.PhoneNumber
	}
	if req.Timezone != nil {
		updates[fieldTimezone] = *req.Timezone
	}
	if req.ScheduledTime != nil {
		tz := existing.Timezone
		if req.Timezone != nil {
			tz = *req.Timezone
		}
		scheduled, err := normalizeSchedule(*req.ScheduledTime, tz)
		if err != nil {
			return nil, err
		}
		updates[fieldScheduledTime] = scheduled
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, reminderID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, reminderID)
}

func (s *service) Delete(ctx context.Context, reminderID string) error {
	if _, err := s.repo.Get(ctx, reminderID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, reminderID)
}

// normalizeSchedule checks that ts is strictly in the future with "now"
// evaluated in the reminder's own timezone, then normalizes to UTC truncated
// to whole seconds (the store's range-key ordering depends on second
// precision). Near DST transitions the local-zone check can disagree with a
// plain UTC comparison; due-detection itself always compares UTC instants.
func normalizeSchedule(ts time.Time, tz string) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("unknown timezone %q: %w", tz, domain.ErrBadRequest)
	}
	now := time.Now().In(loc)
	if !ts.After(now) {
		return time.Time{}, fmt.Errorf("scheduled time must be in the future: %w", domain.ErrBadRequest)
	}
	return ts.UTC().Truncate(time.Second), nil
}
