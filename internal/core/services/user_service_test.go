package services_test

import (
	"context"
	"testing"

	"github.com/orghub/orghub-backend/internal/apperrors"
	"github.com/orghub/orghub-backend/internal/core/domain"
	portssvc "github.com/orghub/orghub-backend/internal/core/ports/services"
	"github.com/orghub/orghub-backend/internal/core/services"
	"github.com/orghub/orghub-backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockRepo)
}

func (suite *UserServiceTestSuite) TestCreateUser_HashesPasswordAndDefaultsRole() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Name:     "Test Member",
		Email:    "member@example.com",
		Password: "plaintext-password",
	}

	var saved domain.User
	suite.mockRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.User)
		}).
		Return(nil).Once()

	created, err := suite.service.CreateUser(ctx, req, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(domain.RoleMember, created.Role)
	suite.NotEmpty(created.UserID)
	suite.Equal("admin-1", saved.CreatedBy)
	suite.NotEqual(req.Password, saved.PasswordHash)
	suite.NoError(bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte(req.Password)))
}

func (suite *UserServiceTestSuite) TestCreateUser_KeepsExplicitRole() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Name:     "Second Admin",
		Email:    "admin2@example.com",
		Password: "plaintext-password",
		Role:     domain.RoleAdmin,
	}

	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleAdmin
	})).Return(nil).Once()

	created, err := suite.service.CreateUser(ctx, req, "admin-1")

	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, created.Role)
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateEmailSurfaces() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Name:     "Test Member",
		Email:    "taken@example.com",
		Password: "plaintext-password",
	}
	dupErr := apperrors.NewAppError(409, "email already in use", apperrors.ErrDuplicate)

	suite.mockRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(dupErr).Once()

	_, err := suite.service.CreateUser(ctx, req, "admin-1")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *UserServiceTestSuite) TestGetUser_NotFoundPropagates() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetUser(ctx, "missing")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
