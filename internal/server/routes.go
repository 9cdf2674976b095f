package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/embedhub/embedhub/internal/server/api"
	"github.com/embedhub/embedhub/internal/server/biz"
	"github.com/embedhub/embedhub/internal/server/middleware"
)

type Handlers struct {
	fx.In

	Auth      *api.AuthHandlers
	System    *api.SystemHandlers
	Users     *api.UserHandlers
	Spaces    *api.SpaceHandlers
	Embedders *api.EmbedderHandlers
	APIKeys   *api.APIKeyHandlers
}

type Services struct {
	fx.In

	AuthService   *biz.AuthService
	UserService   *biz.UserService
	APIKeyService *biz.APIKeyService
}

func SetupRoutes(server *Server, handlers Handlers, services Services) {
	server.Use(middleware.AccessLog())
	server.Use(middleware.WithLoggingTracing(server.Config.Trace))

	if server.Config.CORS.Enabled {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = server.Config.CORS.AllowedOrigins
		corsConfig.AllowMethods = server.Config.CORS.AllowedMethods
		corsConfig.AllowHeaders = server.Config.CORS.AllowedHeaders
		corsConfig.ExposeHeaders = server.Config.CORS.ExposedHeaders
		corsConfig.AllowCredentials = server.Config.CORS.AllowCredentials
		corsConfig.MaxAge = server.Config.CORS.MaxAge

		corsHandler := cors.New(corsConfig)
		server.Use(corsHandler)
		server.OPTIONS("*any", corsHandler)
	}

	publicGroup := server.Group("", middleware.WithTimeout(server.Config.RequestTimeout))
	{
		// Health check endpoint - no authentication required
		publicGroup.GET("/health", handlers.System.Health)
	}

	unSecureAdminGroup := server.Group("/admin", middleware.WithTimeout(server.Config.RequestTimeout))
	{
		// System status and initialize - DO NOT AUTH
		unSecureAdminGroup.GET("/system/status", handlers.System.GetSystemStatus)
		unSecureAdminGroup.POST("/system/initialize", handlers.System.InitializeSystem)
		// User login - DO NOT AUTH
		unSecureAdminGroup.POST("/auth/signin", handlers.Auth.SignIn)
	}

	// Console routes, JWT authenticated.
	adminGroup := server.Group("/admin",
		middleware.WithTimeout(server.Config.RequestTimeout),
		middleware.WithJWTAuth(services.AuthService, services.UserService),
	)
	{
		adminGroup.GET("/me", handlers.Users.Me)
		registerResourceRoutes(adminGroup, handlers)
	}

	// Programmatic routes, API key authenticated.
	apiGroup := server.Group("/v1",
		middleware.WithTimeout(server.Config.RequestTimeout),
		middleware.WithAPIKeyAuth(services.APIKeyService),
	)
	{
		registerResourceRoutes(apiGroup, handlers)
	}
}

func registerResourceRoutes(group *gin.RouterGroup, handlers Handlers) {
	spaces := group.Group("/spaces")
	{
		spaces.POST("", handlers.Spaces.Create)
		spaces.GET("", handlers.Spaces.List)
		spaces.GET("/:id", handlers.Spaces.Get)
		spaces.PATCH("/:id", handlers.Spaces.Update)
		spaces.DELETE("/:id", handlers.Spaces.Delete)
	}

	embedders := group.Group("/embedders")
	{
		embedders.POST("", handlers.Embedders.Create)
		embedders.GET("", handlers.Embedders.List)
		embedders.GET("/:id", handlers.Embedders.Get)
		embedders.PATCH("/:id", handlers.Embedders.Update)
		embedders.DELETE("/:id", handlers.Embedders.Delete)
	}

	apiKeys := group.Group("/api-keys")
	{
		apiKeys.POST("", handlers.APIKeys.Create)
		apiKeys.GET("", handlers.APIKeys.List)
		apiKeys.GET("/:id", handlers.APIKeys.Get)
		apiKeys.PATCH("/:id", handlers.APIKeys.Update)
		apiKeys.POST("/:id/status", handlers.APIKeys.UpdateStatus)
		apiKeys.DELETE("/:id", handlers.APIKeys.Delete)
	}

	users := group.Group("/users")
	{
		users.POST("", handlers.Users.Create)
		users.GET("", handlers.Users.List)
		users.GET("/:id", handlers.Users.Get)
		users.PATCH("/:id", handlers.Users.Update)
		users.PUT("/:id/permissions", handlers.Users.UpdatePermissions)
		users.POST("/:id/status", handlers.Users.UpdateStatus)
		users.DELETE("/:id", handlers.Users.Delete)
	}
}
