package handlers

import (
	"github.com/orghub/orghub-backend/cmd/docs"
	portssvc "github.com/orghub/orghub-backend/internal/core/ports/services"
	"github.com/orghub/orghub-backend/internal/middleware"
	"github.com/orghub/orghub-backend/pkg/config"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	r.GET("/", getHome)
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Public authentication routes
	registerAuthRoutes(r, cfg, services)

	setupAPIV1Routes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)

	// Uploaded files are served statically.
	r.Static("/uploads", cfg.UploadDir)
}

// setupAPIV1Routes configures the /api/v1 group behind the auth middleware
// and delegates to the per-entity registrations.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerFinanceRoutes(v1, services.Finance)
	registerNotificationRoutes(v1, services.Notification, cfg.SSEKeepaliveInterval)
	registerMemberRoutes(v1, services.User)
	registerEventRoutes(v1, services.Event)
	registerNewsRoutes(v1, services.News)
	registerMinutesRoutes(v1, services.Minutes)
	registerUploadRoutes(v1, cfg.UploadDir)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
