package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/orghub/orghub-backend/internal/core/domain"
	"github.com/orghub/orghub-backend/internal/middleware"
	"github.com/stretchr/testify/suite"
)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	router    *gin.Engine
	jwtSecret string
}

func (suite *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.router = gin.New()
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.router.GET("/whoami", func(c *gin.Context) {
		userID, _ := middleware.GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userID": userID})
	})

	admin := suite.router.Group("/admin", middleware.RequireAdmin())
	admin.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// signToken issues a token for the given subject and role, expiring at exp.
func (suite *AuthMiddlewareTestSuite) signToken(userID string, role domain.Role, exp time.Time) string {
	claims := middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "orghub-test",
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	suite.Require().NoError(err)
	return signed
}

func (suite *AuthMiddlewareTestSuite) do(path, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	suite.router.ServeHTTP(rr, req)
	return rr
}

func (suite *AuthMiddlewareTestSuite) TestMissingHeaderIsUnauthorized() {
	rr := suite.do("/whoami", "")
	suite.Equal(http.StatusUnauthorized, rr.Code)
}

func (suite *AuthMiddlewareTestSuite) TestMalformedHeaderIsUnauthorized() {
	rr := suite.do("/whoami", "NotBearer xyz")
	suite.Equal(http.StatusUnauthorized, rr.Code)
}

func (suite *AuthMiddlewareTestSuite) TestExpiredTokenIsUnauthorized() {
	token := suite.signToken("user-1", domain.RoleMember, time.Now().Add(-time.Hour))
	rr := suite.do("/whoami", "Bearer "+token)
	suite.Equal(http.StatusUnauthorized, rr.Code)
	suite.Contains(rr.Body.String(), "expired")
}

func (suite *AuthMiddlewareTestSuite) TestTokenSignedWithWrongSecretIsUnauthorized() {
	claims := middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: domain.RoleAdmin,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("some-other-secret"))
	suite.Require().NoError(err)

	rr := suite.do("/whoami", "Bearer "+signed)
	suite.Equal(http.StatusUnauthorized, rr.Code)
}

func (suite *AuthMiddlewareTestSuite) TestValidTokenResolvesIdentity() {
	token := suite.signToken("user-42", domain.RoleMember, time.Now().Add(time.Hour))
	rr := suite.do("/whoami", "Bearer "+token)
	suite.Equal(http.StatusOK, rr.Code)
	suite.Contains(rr.Body.String(), "user-42")
}

func (suite *AuthMiddlewareTestSuite) TestMemberBlockedFromAdminRoute() {
	token := suite.signToken("user-1", domain.RoleMember, time.Now().Add(time.Hour))
	rr := suite.do("/admin/ping", "Bearer "+token)
	suite.Equal(http.StatusForbidden, rr.Code)
}

func (suite *AuthMiddlewareTestSuite) TestAdminAllowedOnAdminRoute() {
	token := suite.signToken("admin-1", domain.RoleAdmin, time.Now().Add(time.Hour))
	rr := suite.do("/admin/ping", "Bearer "+token)
	suite.Equal(http.StatusNoContent, rr.Code)
}

func (suite *AuthMiddlewareTestSuite) TestUnknownRoleDowngradedToMember() {
	token := suite.signToken("user-1", domain.Role("Owner"), time.Now().Add(time.Hour))
	rr := suite.do("/admin/ping", "Bearer "+token)
	suite.Equal(http.StatusForbidden, rr.Code)
}

func TestAuthMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}
