package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/orghub/orghub-backend/internal/apperrors"
	"github.com/orghub/orghub-backend/internal/core/domain"
	portssvc "github.com/orghub/orghub-backend/internal/core/ports/services"
	"github.com/orghub/orghub-backend/internal/dto"
	"github.com/orghub/orghub-backend/internal/middleware"
	"github.com/orghub/orghub-backend/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

// authService verifies credentials and issues bearer tokens.
type authService struct {
	cfg     *config.Config
	userSvc portssvc.UserSvcFacade
}

// NewAuthService creates the auth service.
func NewAuthService(cfg *config.Config, userSvc portssvc.UserSvcFacade) portssvc.AuthSvcFacade {
	return &authService{cfg: cfg, userSvc: userSvc}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login verifies email and password and returns a signed token on success.
// A missing user and a wrong password produce the same error.
func (s *authService) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	invalidCredentials := apperrors.NewAppError(401, "invalid email or password", apperrors.ErrForbidden)

	user, err := s.userSvc.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Login failed, unknown email")
			return nil, invalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Warn("Login failed, wrong password", slog.String("user_id", user.UserID))
		return nil, invalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sign token", err)
	}

	logger.Info("Login succeeded", slog.String("user_id", user.UserID))
	return &dto.LoginResponse{
		Token: token,
		User:  dto.ToUserResponse(user),
	}, nil
}

// Register creates a new member account. Admin callers may set the role;
// self-registration always yields a Member.
func (s *authService) Register(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	return s.userSvc.CreateUser(ctx, req, creatorUserID)
}

func (s *authService) issueToken(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			Issuer:    s.cfg.JWTIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiryDuration)),
		},
		Role: user.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
