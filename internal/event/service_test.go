package event

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gymhub/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

type MockEventRepo struct{ mock.Mock }

func (m *MockEventRepo) CreateEvent(ctx context.Context, gymID int, req CreateEventRequest) (*Event, error) {
	args := m.Called(ctx, gymID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockEventRepo) GetEventByID(ctx context.Context, id int) (*Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockEventRepo) ListEventsByGym(ctx context.Context, gymID int) ([]Event, error) {
	args := m.Called(ctx, gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Event), args.Error(1)
}

func (m *MockEventRepo) UpdateEvent(ctx context.Context, id int, req CreateEventRequest) (*Event, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockEventRepo) DeleteEvent(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEventRepo) CountOccurrences(ctx context.Context, eventID int) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *MockEventRepo) InsertRuleOccurrence(ctx context.Context, eventID int, date time.Time) error {
	return m.Called(ctx, eventID, date).Error(0)
}

func (m *MockEventRepo) CreateCustomOccurrence(ctx context.Context, eventID int, date time.Time, note *string) (*Occurrence, error) {
	args := m.Called(ctx, eventID, date, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Occurrence), args.Error(1)
}

func (m *MockEventRepo) OccurrenceExistsOn(ctx context.Context, eventID int, date time.Time) (bool, error) {
	args := m.Called(ctx, eventID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventRepo) ListOccurrences(ctx context.Context, eventID int, from, to time.Time) ([]Occurrence, error) {
	args := m.Called(ctx, eventID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Occurrence), args.Error(1)
}

func (m *MockEventRepo) GetOccurrenceByID(ctx context.Context, id int) (*Occurrence, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Occurrence), args.Error(1)
}

func (m *MockEventRepo) SetOccurrenceStatus(ctx context.Context, id int, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockEventRepo) DeleteCustomOccurrence(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEventRepo) ListGoingRecipients(ctx context.Context, occurrenceID int) ([]Recipient, error) {
	args := m.Called(ctx, occurrenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Recipient), args.Error(1)
}

type MockCancellationSender struct{ mock.Mock }

func (m *MockCancellationSender) SendEventCancellation(ctx context.Context, email, name, eventTitle string, date time.Time) error {
	return m.Called(ctx, email, name, eventTitle, date).Error(0)
}

func weeklyEvent(gymID int) *Event {
	return &Event{
		ID:            1,
		GymID:         gymID,
		Title:         "Morning Strength",
		StartTime:     "06:00",
		EndTime:       "07:00",
		Weekdays:      pq.Int64Array{1, 3, 5},
		IntervalWeeks: 1,
		CreatedAt:     time.Date(2026, time.June, 1, 10, 0, 0, 0, time.Local),
	}
}

func TestService_CreateEvent_RejectsBadTimes(t *testing.T) {
	repo := new(MockEventRepo)
	svc := NewService(repo, new(MockCancellationSender))

	tests := []struct {
		name      string
		startTime string
		endTime   string
	}{
		{"end before start", "18:00", "06:00"},
		{"end equals start", "06:00", "06:00"},
		{"garbage start", "six am", "07:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateEvent(context.Background(), 1, CreateEventRequest{
				Title:     "Test",
				StartTime: tt.startTime,
				EndTime:   tt.endTime,
			})
			assert.ErrorIs(t, err, ErrInvalidTimeOfDay)
		})
	}

	repo.AssertNotCalled(t, "CreateEvent")
}

func TestService_Occurrences_MaterializesRule(t *testing.T) {
	repo := new(MockEventRepo)
	svc := NewService(repo, new(MockCancellationSender))

	event := weeklyEvent(1)
	repo.On("GetEventByID", mock.Anything, 1).Return(event, nil)

	from := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2026, time.June, 7, 0, 0, 0, 0, time.Local)

	// Mon 1st, Wed 3rd, Fri 5th get inserted, each exactly once.
	for _, day := range []int{1, 3, 5} {
		d := time.Date(2026, time.June, day, 0, 0, 0, 0, time.Local)
		repo.On("InsertRuleOccurrence", mock.Anything, 1, d).Return(nil).Once()
	}
	repo.On("ListOccurrences", mock.Anything, 1, from, to).Return([]Occurrence{
		{ID: 10, EventID: 1, Date: from, Status: StatusScheduled},
	}, nil)

	occurrences, err := svc.Occurrences(context.Background(), 1, 1, from, to)

	assert.NoError(t, err)
	assert.Len(t, occurrences, 1)
	repo.AssertExpectations(t)
}

func TestService_Occurrences_CrossTenantHidden(t *testing.T) {
	repo := new(MockEventRepo)
	svc := NewService(repo, new(MockCancellationSender))

	repo.On("GetEventByID", mock.Anything, 1).Return(weeklyEvent(2), nil)

	_, err := svc.Occurrences(context.Background(), 1, 1, time.Now(), time.Now().AddDate(0, 0, 7))

	assert.ErrorIs(t, err, ErrEventNotFound)
	repo.AssertNotCalled(t, "InsertRuleOccurrence")
}

func TestService_AddCustomOccurrence_DuplicateDate(t *testing.T) {
	repo := new(MockEventRepo)
	svc := NewService(repo, new(MockCancellationSender))

	repo.On("GetEventByID", mock.Anything, 1).Return(weeklyEvent(1), nil)
	repo.On("OccurrenceExistsOn", mock.Anything, 1, mock.Anything).Return(true, nil)

	_, err := svc.AddCustomOccurrence(context.Background(), 1, 1, AddOccurrenceRequest{Date: "2026-06-06"})

	assert.ErrorIs(t, err, ErrDuplicateDate)
	repo.AssertNotCalled(t, "CreateCustomOccurrence")
}

func TestService_AddCustomOccurrence_BadDate(t *testing.T) {
	repo := new(MockEventRepo)
	svc := NewService(repo, new(MockCancellationSender))

	repo.On("GetEventByID", mock.Anything, 1).Return(weeklyEvent(1), nil)

	_, err := svc.AddCustomOccurrence(context.Background(), 1, 1, AddOccurrenceRequest{Date: "June 6th"})

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestService_DeleteOccurrence_RuleDerivedRejected(t *testing.T) {
	repo := new(MockEventRepo)
	svc := NewService(repo, new(MockCancellationSender))

	repo.On("GetOccurrenceByID", mock.Anything, 10).Return(&Occurrence{
		ID: 10, EventID: 1, IsCustom: false, Status: StatusScheduled,
	}, nil)
	repo.On("GetEventByID", mock.Anything, 1).Return(weeklyEvent(1), nil)

	err := svc.DeleteOccurrence(context.Background(), 1, 10)

	assert.ErrorIs(t, err, ErrNotCustom)
	repo.AssertNotCalled(t, "DeleteCustomOccurrence")
}

func TestService_DeleteOccurrence_Custom(t *testing.T) {
	repo := new(MockEventRepo)
	svc := NewService(repo, new(MockCancellationSender))

	repo.On("GetOccurrenceByID", mock.Anything, 10).Return(&Occurrence{
		ID: 10, EventID: 1, IsCustom: true, Status: StatusScheduled,
	}, nil)
	repo.On("GetEventByID", mock.Anything, 1).Return(weeklyEvent(1), nil)
	repo.On("DeleteCustomOccurrence", mock.Anything, 10).Return(nil)

	err := svc.DeleteOccurrence(context.Background(), 1, 10)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_CancelOccurrence_NotifyCountsFailures(t *testing.T) {
	repo := new(MockEventRepo)
	sender := new(MockCancellationSender)
	svc := NewService(repo, sender)

	occDate := time.Date(2026, time.June, 5, 0, 0, 0, 0, time.Local)
	repo.On("GetOccurrenceByID", mock.Anything, 10).Return(&Occurrence{
		ID: 10, EventID: 1, Date: occDate, Status: StatusScheduled,
	}, nil)
	repo.On("GetEventByID", mock.Anything, 1).Return(weeklyEvent(1), nil)
	repo.On("SetOccurrenceStatus", mock.Anything, 10, StatusCanceled).Return(nil)
	repo.On("ListGoingRecipients", mock.Anything, 10).Return([]Recipient{
		{UserID: 2, Name: "Ann", Email: "ann@example.com"},
		{UserID: 3, Name: "Bob", Email: "bob@example.com"},
		{UserID: 4, Name: "Cid", Email: "cid@example.com"},
	}, nil)

	sender.On("SendEventCancellation", mock.Anything, "ann@example.com", "Ann", "Morning Strength", occDate).Return(nil)
	sender.On("SendEventCancellation", mock.Anything, "bob@example.com", "Bob", "Morning Strength", occDate).Return(errors.New("smtp down"))
	sender.On("SendEventCancellation", mock.Anything, "cid@example.com", "Cid", "Morning Strength", occDate).Return(nil)

	occ, notified, failed, err := svc.CancelOccurrence(context.Background(), 1, 10, true)

	assert.NoError(t, err)
	assert.Equal(t, StatusCanceled, occ.Status)
	assert.Equal(t, 2, notified)
	assert.Equal(t, 1, failed)
	sender.AssertExpectations(t)
}

func TestService_CancelOccurrence_NoNotify(t *testing.T) {
	repo := new(MockEventRepo)
	sender := new(MockCancellationSender)
	svc := NewService(repo, sender)

	repo.On("GetOccurrenceByID", mock.Anything, 10).Return(&Occurrence{
		ID: 10, EventID: 1, Status: StatusScheduled,
	}, nil)
	repo.On("GetEventByID", mock.Anything, 1).Return(weeklyEvent(1), nil)
	repo.On("SetOccurrenceStatus", mock.Anything, 10, StatusCanceled).Return(nil)

	_, notified, failed, err := svc.CancelOccurrence(context.Background(), 1, 10, false)

	assert.NoError(t, err)
	assert.Zero(t, notified)
	assert.Zero(t, failed)
	sender.AssertNotCalled(t, "SendEventCancellation")
}

func TestService_RestoreOccurrence(t *testing.T) {
	repo := new(MockEventRepo)
	svc := NewService(repo, new(MockCancellationSender))

	repo.On("GetOccurrenceByID", mock.Anything, 10).Return(&Occurrence{
		ID: 10, EventID: 1, Status: StatusCanceled,
	}, nil)
	repo.On("GetEventByID", mock.Anything, 1).Return(weeklyEvent(1), nil)
	repo.On("SetOccurrenceStatus", mock.Anything, 10, StatusScheduled).Return(nil)

	occ, err := svc.RestoreOccurrence(context.Background(), 1, 10)

	assert.NoError(t, err)
	assert.Equal(t, StatusScheduled, occ.Status)
}

func TestService_DeleteEvent_BlockedByOccurrences(t *testing.T) {
	repo := new(MockEventRepo)
	svc := NewService(repo, new(MockCancellationSender))

	repo.On("GetEventByID", mock.Anything, 1).Return(weeklyEvent(1), nil)
	repo.On("CountOccurrences", mock.Anything, 1).Return(4, nil)

	err := svc.DeleteEvent(context.Background(), 1, 1)

	assert.ErrorIs(t, err, ErrEventHasOccurrences)
	repo.AssertNotCalled(t, "DeleteEvent")
}
