package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/orghub/orghub-backend/internal/apperrors"
	"github.com/orghub/orghub-backend/internal/core/domain"
	portssvc "github.com/orghub/orghub-backend/internal/core/ports/services"
	"github.com/orghub/orghub-backend/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock NotificationRepository ---
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) (*domain.Notification, error) {
	args := m.Called(ctx, n)
	var result *domain.Notification
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.Notification)
	}
	return result, args.Error(1)
}

func (m *MockNotificationRepository) ListNotificationsByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	var result []domain.Notification
	if args.Get(0) != nil {
		result = args.Get(0).([]domain.Notification)
	}
	return result, args.Error(1)
}

func (m *MockNotificationRepository) MarkNotificationRead(ctx context.Context, id int64, userID string) (*domain.Notification, error) {
	args := m.Called(ctx, id, userID)
	var result *domain.Notification
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.Notification)
	}
	return result, args.Error(1)
}

// --- Mock UserRepository (only what the notification service touches) ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var ids []string
	if args.Get(0) != nil {
		ids = args.Get(0).([]string)
	}
	return ids, args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, userID string, update domain.UserUpdate, updatedBy string, updatedAt time.Time) (*domain.User, error) {
	args := m.Called(ctx, userID, update, updatedBy, updatedAt)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string, deletedBy string, deletedAt time.Time) error {
	args := m.Called(ctx, userID, deletedBy, deletedAt)
	return args.Error(0)
}

func (m *MockUserRepository) SaveFCMToken(ctx context.Context, userID string, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

// --- Test Suite ---
type NotificationServiceTestSuite struct {
	suite.Suite
	mockNotifRepo *MockNotificationRepository
	mockUserRepo  *MockUserRepository
	relay         *services.NotificationRelay
	service       portssvc.NotificationSvcFacade
}

func (suite *NotificationServiceTestSuite) SetupTest() {
	suite.mockNotifRepo = new(MockNotificationRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.relay = services.NewNotificationRelay()
	suite.service = services.NewNotificationService(suite.mockNotifRepo, suite.mockUserRepo, suite.relay)
}

func (suite *NotificationServiceTestSuite) TestNotify_PersistsAndPushesToOpenChannel() {
	ctx := context.Background()
	saved := &domain.Notification{ID: 1, UserID: "user-1", Title: "Reminder", Content: "Meeting at 5"}

	suite.mockNotifRepo.On("SaveNotification", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.UserID == "user-1" && n.Title == "Reminder" && !n.IsRead
	})).Return(saved, nil).Once()

	ch, cancel := suite.service.OpenChannel("user-1")
	defer cancel()

	result, err := suite.service.Notify(ctx, "user-1", "Reminder", "Meeting at 5")

	suite.Require().NoError(err)
	suite.Equal(int64(1), result.ID)

	select {
	case pushed := <-ch:
		suite.Equal(int64(1), pushed.ID)
	default:
		suite.Fail("expected a live push")
	}
	suite.mockNotifRepo.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestNotify_SucceedsWithoutOpenChannel() {
	ctx := context.Background()
	saved := &domain.Notification{ID: 2, UserID: "offline-user", Title: "News"}

	suite.mockNotifRepo.On("SaveNotification", ctx, mock.AnythingOfType("domain.Notification")).
		Return(saved, nil).Once()

	result, err := suite.service.Notify(ctx, "offline-user", "News", "Content")

	suite.Require().NoError(err)
	suite.Equal(int64(2), result.ID)
}

func (suite *NotificationServiceTestSuite) TestNotify_PersistenceFailureIsReturned() {
	ctx := context.Background()

	suite.mockNotifRepo.On("SaveNotification", ctx, mock.AnythingOfType("domain.Notification")).
		Return(nil, apperrors.NewAppError(500, "insert failed", nil)).Once()

	result, err := suite.service.Notify(ctx, "user-1", "Title", "Content")

	suite.Require().Error(err)
	suite.Nil(result)
}

func (suite *NotificationServiceTestSuite) TestBroadcast_DeliversToEveryMember() {
	ctx := context.Background()
	userIDs := []string{"user-1", "user-2", "user-3"}

	saveCalls := make(chan string, len(userIDs))
	suite.mockUserRepo.On("ListUserIDs", mock.Anything).Return(userIDs, nil).Once()
	suite.mockNotifRepo.On("SaveNotification", mock.Anything, mock.AnythingOfType("domain.Notification")).
		Run(func(args mock.Arguments) {
			n := args.Get(1).(domain.Notification)
			saveCalls <- n.UserID
		}).
		Return(&domain.Notification{ID: 1}, nil).Times(len(userIDs))

	suite.service.Broadcast(ctx, "Event", "Details")

	received := map[string]bool{}
	for range userIDs {
		select {
		case id := <-saveCalls:
			received[id] = true
		case <-time.After(2 * time.Second):
			suite.Fail("timed out waiting for broadcast deliveries")
		}
	}
	for _, id := range userIDs {
		suite.True(received[id], "expected delivery to %s", id)
	}
}

func (suite *NotificationServiceTestSuite) TestBroadcast_ContinuesPastPerRecipientFailures() {
	ctx := context.Background()
	userIDs := []string{"user-1", "user-2"}

	saveCalls := make(chan string, len(userIDs))
	suite.mockUserRepo.On("ListUserIDs", mock.Anything).Return(userIDs, nil).Once()
	suite.mockNotifRepo.On("SaveNotification", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
		return n.UserID == "user-1"
	})).Run(func(args mock.Arguments) {
		saveCalls <- "user-1"
	}).Return(nil, apperrors.NewAppError(500, "insert failed", nil)).Once()
	suite.mockNotifRepo.On("SaveNotification", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
		return n.UserID == "user-2"
	})).Run(func(args mock.Arguments) {
		saveCalls <- "user-2"
	}).Return(&domain.Notification{ID: 9, UserID: "user-2"}, nil).Once()

	suite.service.Broadcast(ctx, "Title", "Content")

	for i := 0; i < len(userIDs); i++ {
		select {
		case <-saveCalls:
		case <-time.After(2 * time.Second):
			suite.Fail("timed out waiting for broadcast to continue past a failure")
		}
	}
}

func (suite *NotificationServiceTestSuite) TestMarkRead_PassesOwnership() {
	ctx := context.Background()
	read := &domain.Notification{ID: 4, UserID: "user-1", IsRead: true}

	suite.mockNotifRepo.On("MarkNotificationRead", ctx, int64(4), "user-1").Return(read, nil).Once()

	result, err := suite.service.MarkRead(ctx, 4, "user-1")

	suite.Require().NoError(err)
	suite.True(result.IsRead)
}

func (suite *NotificationServiceTestSuite) TestMarkRead_ForeignNotificationIsNotFound() {
	ctx := context.Background()

	suite.mockNotifRepo.On("MarkNotificationRead", ctx, int64(4), "intruder").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.MarkRead(ctx, 4, "intruder")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
