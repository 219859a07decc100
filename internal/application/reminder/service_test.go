package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/callme-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReminderStore struct{ mock.Mock }

func (m *mockReminderStore) Put(ctx context.Context, r *domain.Reminder) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockReminderStore) Get(ctx context.Context, reminderID string) (*domain.Reminder, error) {
	args := m.Called(ctx, reminderID)
	if r, _ := args.Get(0).(*domain.Reminder); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReminderStore) List(ctx context.Context, status domain.ReminderStatus) ([]domain.Reminder, error) {
	args := m.Called(ctx, status)
	if rs, _ := args.Get(0).([]domain.Reminder); rs != nil {
		return rs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReminderStore) Update(ctx context.Context, reminderID string, updates map[string]interface{}) error {
	return m.Called(ctx, reminderID, updates).Error(0)
}

func (m *mockReminderStore) Delete(ctx context.Context, reminderID string) error {
	return m.Called(ctx, reminderID).Error(0)
}

func validCreateRequest() domain.CreateReminderRequest {
	return domain.CreateReminderRequest{
		Title:         "Dentist",
		Message:       "You have a dentist appointment in one hour",
		PhoneNumber:   "+14155552671",
		Timezone:      "America/New_York",
		ScheduledTime: time.Now().Add(time.Hour),
	}
}

// --- Create ---

func TestCreate_HappyPath(t *testing.T) {
	repo := &mockReminderStore{}
	var stored *domain.Reminder
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Reminder")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Reminder) }).
		Return(nil)

	req := validCreateRequest()
	r, err := NewService(repo).Create(context.Background(), req)
	require.NoError(t, err)

	assert.NotEmpty(t, r.ReminderID)
	assert.Equal(t, domain.StatusScheduled, r.Status)
	assert.Equal(t, req.ScheduledTime.UTC().Truncate(time.Second), r.ScheduledTime)
	assert.Equal(t, time.UTC, r.ScheduledTime.Location())
	assert.False(t, r.CreatedAt.IsZero())
	assert.Equal(t, r.CreatedAt, r.UpdatedAt)
	assert.Same(t, r, stored)
}

func TestCreate_PhoneWithoutPlus_Rejected(t *testing.T) {
	repo := &mockReminderStore{}
	req := validCreateRequest()
	req.PhoneNumber = "14155552671"

	_, err := NewService(repo).Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestCreate_EmptyTitle_Rejected(t *testing.T) {
	req := validCreateRequest()
	req.Title = ""
	_, err := NewService(&mockReminderStore{}).Create(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestCreate_UnknownTimezone_Rejected(t *testing.T) {
	req := validCreateRequest()
	req.Timezone = "Mars/Olympus_Mons"
	_, err := NewService(&mockReminderStore{}).Create(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestCreate_ScheduledTimeInPast_Rejected(t *testing.T) {
	req := validCreateRequest()
	req.ScheduledTime = time.Now().Add(-time.Minute)
	_, err := NewService(&mockReminderStore{}).Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.ErrorContains(t, err, "future")
}

func TestCreate_ScheduledTimeNow_Rejected(t *testing.T) {
	req := validCreateRequest()
	req.ScheduledTime = time.Now()
	_, err := NewService(&mockReminderStore{}).Create(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

// --- List ---

func TestList_PassesStatusFilter(t *testing.T) {
	repo := &mockReminderStore{}
	repo.On("List", mock.Anything, domain.StatusScheduled).Return([]domain.Reminder{{ReminderID: "r1"}}, nil)

	rs, err := NewService(repo).List(context.Background(), "scheduled")
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "r1", rs[0].ReminderID)
}

func TestList_UnknownStatus_Rejected(t *testing.T) {
	_, err := NewService(&mockReminderStore{}).List(context.Background(), "pending")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

// --- Update ---

func TestUpdate_NotFound(t *testing.T) {
	repo := &mockReminderStore{}
	repo.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	_, err := NewService(repo).Update(context.Background(), "missing", domain.UpdateReminderRequest{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdate_PartialFieldsOnly(t *testing.T) {
	repo := &mockReminderStore{}
	existing := &domain.Reminder{ReminderID: "r1", Timezone: "UTC", Status: domain.StatusScheduled}
	repo.On("Get", mock.Anything, "r1").Return(existing, nil)
	repo.On("Update", mock.Anything, "r1", mock.MatchedBy(func(m map[string]interface{}) bool {
		_, hasTitle := m[fieldTitle]
		_, hasPhone := m[fieldPhoneNumber]
		return len(m) == 1 && hasTitle && !hasPhone
	})).Return(nil)

	title := "New title"
	_, err := NewService(repo).Update(context.Background(), "r1", domain.UpdateReminderRequest{Title: &title})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdate_NoFields_ReturnsExistingWithoutWrite(t *testing.T) {
	repo := &mockReminderStore{}
	existing := &domain.Reminder{ReminderID: "r1"}
	repo.On("Get", mock.Anything, "r1").Return(existing, nil)

	got, err := NewService(repo).Update(context.Background(), "r1", domain.UpdateReminderRequest{})
	require.NoError(t, err)
	assert.Same(t, existing, got)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_PastScheduledTime_Rejected(t *testing.T) {
	repo := &mockReminderStore{}
	existing := &domain.Reminder{ReminderID: "r1", Timezone: "UTC"}
	repo.On("Get", mock.Anything, "r1").Return(existing, nil)

	past := time.Now().Add(-time.Hour)
	_, err := NewService(repo).Update(context.Background(), "r1", domain.UpdateReminderRequest{ScheduledTime: &past})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_InvalidPhone_Rejected(t *testing.T) {
	repo := &mockReminderStore{}
	existing := &domain.Reminder{ReminderID: "r1", Timezone: "UTC"}
	repo.On("Get", mock.Anything, "r1").Return(existing, nil)

	phone := "not-a-number"
	_, err := NewService(repo).Update(context.Background(), "r1", domain.UpdateReminderRequest{PhoneNumber: &phone})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

// --- Delete ---

func TestDelete_HappyPath(t *testing.T) {
	repo := &mockReminderStore{}
	repo.On("Get", mock.Anything, "r1").Return(&domain.Reminder{ReminderID: "r1"}, nil)
	repo.On("Delete", mock.Anything, "r1").Return(nil)

	require.NoError(t, NewService(repo).Delete(context.Background(), "r1"))
	repo.AssertExpectations(t)
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockReminderStore{}
	repo.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	err := NewService(repo).Delete(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
