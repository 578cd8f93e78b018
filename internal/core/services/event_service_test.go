package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/orghub/orghub-backend/internal/apperrors"
	"github.com/orghub/orghub-backend/internal/core/domain"
	portssvc "github.com/orghub/orghub-backend/internal/core/ports/services"
	"github.com/orghub/orghub-backend/internal/core/services"
	"github.com/orghub/orghub-backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock EventRepository ---
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) SaveEvent(ctx context.Context, event domain.Event) (*domain.Event, error) {
	args := m.Called(ctx, event)
	var result *domain.Event
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.Event)
	}
	return result, args.Error(1)
}

func (m *MockEventRepository) FindEventByID(ctx context.Context, id int64) (*domain.Event, error) {
	args := m.Called(ctx, id)
	var result *domain.Event
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.Event)
	}
	return result, args.Error(1)
}

func (m *MockEventRepository) ListEvents(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	args := m.Called(ctx, limit, offset)
	var result []domain.Event
	if args.Get(0) != nil {
		result = args.Get(0).([]domain.Event)
	}
	return result, args.Error(1)
}

func (m *MockEventRepository) UpdateEvent(ctx context.Context, id int64, update domain.EventUpdate, updatedBy string, updatedAt time.Time) (*domain.Event, error) {
	args := m.Called(ctx, id, update, updatedBy, updatedAt)
	var result *domain.Event
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.Event)
	}
	return result, args.Error(1)
}

func (m *MockEventRepository) DeleteEvent(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEventRepository) SaveAttendance(ctx context.Context, att domain.Attendance) error {
	args := m.Called(ctx, att)
	return args.Error(0)
}

func (m *MockEventRepository) ListAttendanceByEvent(ctx context.Context, eventID int64) ([]domain.Attendance, error) {
	args := m.Called(ctx, eventID)
	var result []domain.Attendance
	if args.Get(0) != nil {
		result = args.Get(0).([]domain.Attendance)
	}
	return result, args.Error(1)
}

// --- Mock NotificationSvc ---
type MockNotificationSvc struct {
	mock.Mock
}

func (m *MockNotificationSvc) Notify(ctx context.Context, userID, title, content string) (*domain.Notification, error) {
	args := m.Called(ctx, userID, title, content)
	var result *domain.Notification
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.Notification)
	}
	return result, args.Error(1)
}

func (m *MockNotificationSvc) Broadcast(ctx context.Context, title, content string) {
	m.Called(ctx, title, content)
}

func (m *MockNotificationSvc) ListInbox(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	var result []domain.Notification
	if args.Get(0) != nil {
		result = args.Get(0).([]domain.Notification)
	}
	return result, args.Error(1)
}

func (m *MockNotificationSvc) MarkRead(ctx context.Context, id int64, userID string) (*domain.Notification, error) {
	args := m.Called(ctx, id, userID)
	var result *domain.Notification
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.Notification)
	}
	return result, args.Error(1)
}

func (m *MockNotificationSvc) OpenChannel(userID string) (<-chan domain.Notification, func()) {
	args := m.Called(userID)
	return args.Get(0).(<-chan domain.Notification), args.Get(1).(func())
}

func (m *MockNotificationSvc) SaveFCMToken(ctx context.Context, userID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

// --- Test Suite ---
type EventServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockEventRepository
	mockNotif *MockNotificationSvc
	service   portssvc.EventSvcFacade
}

func (suite *EventServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockEventRepository)
	suite.mockNotif = new(MockNotificationSvc)
	suite.service = services.NewEventService(suite.mockRepo, suite.mockNotif)
}

func validEventRequest() dto.CreateEventRequest {
	start := time.Date(2025, 9, 20, 18, 0, 0, 0, time.UTC)
	return dto.CreateEventRequest{
		Title:     "Annual meeting",
		Location:  "Community hall",
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
	}
}

func (suite *EventServiceTestSuite) TestCreateEvent_BroadcastsToMembers() {
	ctx := context.Background()
	req := validEventRequest()
	saved := &domain.Event{ID: 1, Title: req.Title, Location: req.Location, StartTime: req.StartTime, EndTime: req.EndTime}

	suite.mockRepo.On("SaveEvent", ctx, mock.MatchedBy(func(e domain.Event) bool {
		return e.Title == req.Title && e.CreatedBy == "admin-1"
	})).Return(saved, nil).Once()
	suite.mockNotif.On("Broadcast", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Once()

	created, err := suite.service.CreateEvent(ctx, req, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(int64(1), created.ID)
	suite.mockNotif.AssertExpectations(suite.T())
}

func (suite *EventServiceTestSuite) TestCreateEvent_RejectsInvertedTimes() {
	ctx := context.Background()
	req := validEventRequest()
	req.EndTime = req.StartTime.Add(-time.Hour)

	_, err := suite.service.CreateEvent(ctx, req, "admin-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEvent", mock.Anything, mock.Anything)
}

func (suite *EventServiceTestSuite) TestUpdateEvent_RescheduleBroadcasts() {
	ctx := context.Background()
	newStart := time.Date(2025, 9, 21, 18, 0, 0, 0, time.UTC)
	req := dto.UpdateEventRequest{StartTime: &newStart}
	updated := &domain.Event{ID: 1, Title: "Annual meeting", StartTime: newStart, EndTime: newStart.Add(time.Hour)}

	suite.mockRepo.On("UpdateEvent", ctx, int64(1), mock.AnythingOfType("domain.EventUpdate"), "admin-1", mock.AnythingOfType("time.Time")).
		Return(updated, nil).Once()
	suite.mockNotif.On("Broadcast", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Once()

	_, err := suite.service.UpdateEvent(ctx, 1, req, "admin-1")

	suite.Require().NoError(err)
	suite.mockNotif.AssertExpectations(suite.T())
}

func (suite *EventServiceTestSuite) TestUpdateEvent_CosmeticChangeDoesNotBroadcast() {
	ctx := context.Background()
	newTitle := "Renamed meeting"
	req := dto.UpdateEventRequest{Title: &newTitle}
	updated := &domain.Event{ID: 1, Title: newTitle}

	suite.mockRepo.On("UpdateEvent", ctx, int64(1), mock.AnythingOfType("domain.EventUpdate"), "admin-1", mock.AnythingOfType("time.Time")).
		Return(updated, nil).Once()

	_, err := suite.service.UpdateEvent(ctx, 1, req, "admin-1")

	suite.Require().NoError(err)
	suite.mockNotif.AssertNotCalled(suite.T(), "Broadcast", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EventServiceTestSuite) TestMarkAttendance_EventMustExist() {
	ctx := context.Background()

	suite.mockRepo.On("FindEventByID", ctx, int64(99)).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.MarkAttendance(ctx, 99, "user-1", domain.AttendancePresent)

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAttendance", mock.Anything, mock.Anything)
}

func (suite *EventServiceTestSuite) TestMarkAttendance_RecordsStatus() {
	ctx := context.Background()
	event := &domain.Event{ID: 7}

	suite.mockRepo.On("FindEventByID", ctx, int64(7)).Return(event, nil).Once()
	suite.mockRepo.On("SaveAttendance", ctx, mock.MatchedBy(func(a domain.Attendance) bool {
		return a.EventID == 7 && a.UserID == "user-1" && a.Status == domain.AttendanceExcused
	})).Return(nil).Once()

	err := suite.service.MarkAttendance(ctx, 7, "user-1", domain.AttendanceExcused)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestEventServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EventServiceTestSuite))
}
