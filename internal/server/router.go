package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shotlist-app/shotlist-backend/internal/handlers"
	"github.com/shotlist-app/shotlist-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	UserHandler    *handlers.UserHandler
	ProjectHandler *handlers.ProjectHandler
	ListHandler    *handlers.ListHandler
	PortalHandler  *handlers.PortalHandler
	LiveHandler    *handlers.LiveHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.PATCH("/user", cfg.UserHandler.UpdateMe)
	protected.POST("/user/avatar", cfg.UserHandler.UploadAvatar)
	// Projects
	protected.POST("/projects", cfg.ProjectHandler.Create)
	protected.GET("/projects", cfg.ProjectHandler.List)
	protected.GET("/projects/:projectID", cfg.ProjectHandler.Get)
	protected.PATCH("/projects/:projectID", cfg.ProjectHandler.Update)
	protected.DELETE("/projects/:projectID", cfg.ProjectHandler.Delete)
	// Lists
	protected.GET("/projects/:projectID/lists", cfg.ListHandler.GetByProject)
	protected.GET("/lists/:listID", cfg.ListHandler.Get)
	protected.POST("/lists/:listID/items", cfg.ListHandler.AddItem)
	protected.PATCH("/lists/:listID/items", cfg.ListHandler.BatchUpdateItems)
	protected.DELETE("/lists/:listID/items", cfg.ListHandler.BatchDeleteItems)
	protected.PUT("/lists/:listID", cfg.ListHandler.CreateOrReset)
	protected.DELETE("/lists/:listID", cfg.ListHandler.Delete)
	protected.POST("/lists/:listID/items/:itemID/image", cfg.ListHandler.UploadItemImage)
	// Portal
	protected.POST("/projects/:projectID/portal", cfg.PortalHandler.Create)
	protected.GET("/projects/:projectID/portal", cfg.PortalHandler.GetByProject)
	protected.PATCH("/portals/:portalID/steps/:stepID", cfg.PortalHandler.SetStepStatus)
	protected.POST("/portals/:portalID/reset", cfg.PortalHandler.ResetSteps)
	protected.POST("/portals/:portalID/lock", cfg.PortalHandler.Lock)
	protected.POST("/portals/:portalID/link", cfg.PortalHandler.GenerateLink)
	protected.DELETE("/portals/:portalID/link", cfg.PortalHandler.DisableLink)
	// Live updates
	if cfg.LiveHandler != nil {
		protected.GET("/projects/:projectID/live", cfg.LiveHandler.Stream)
	}

	return router
}
