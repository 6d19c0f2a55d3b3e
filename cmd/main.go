package main

import (
	"fmt"
	"os"
	"time"

	"github.com/shotlist-app/shotlist-backend/internal/clients/callable"
	redisclient "github.com/shotlist-app/shotlist-backend/internal/clients/redis"
	"github.com/shotlist-app/shotlist-backend/internal/db"
	"github.com/shotlist-app/shotlist-backend/internal/errs"
	"github.com/shotlist-app/shotlist-backend/internal/handlers"
	"github.com/shotlist-app/shotlist-backend/internal/logger"
	"github.com/shotlist-app/shotlist-backend/internal/middleware"
	"github.com/shotlist-app/shotlist-backend/internal/repos"
	"github.com/shotlist-app/shotlist-backend/internal/server"
	"github.com/shotlist-app/shotlist-backend/internal/services"
	"github.com/shotlist-app/shotlist-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	projectRepo := repos.NewProjectRepo(thePG, log)
	listRepo := repos.NewListRepo(thePG, log)
	portalRepo := repos.NewPortalRepo(thePG, log)

	// Live bus
	log.Info("Setting up live bus from main...")
	var liveBus redisclient.Subscribable
	if bus, err := redisclient.NewLiveBus(log); err != nil {
		log.Warn("Could not init LiveBus, live updates disabled", "error", err)
	} else {
		liveBus = bus
		defer bus.Close()
	}

	// Services
	log.Info("Setting up Services from main...")
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService, uploads disabled", "error", err)
	}
	geocoder, err := services.NewGeocodingService(log)
	if err != nil {
		log.Warn("Could not init GeocodingService, venue lookup disabled", "error", err)
	}
	callableClient, err := callable.NewClient(log)
	if err != nil {
		log.Warn("Could not init callable client, portal links disabled", "error", err)
	}
	masterListService, err := services.NewMasterListService(log)
	if err != nil {
		log.Error("Could not init MasterListService", "error", err)
		os.Exit(1)
	}
	limiter := services.NewRateLimiter(5, 15*time.Minute)
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, limiter, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo, bucketService)
	listService := services.NewListService(thePG, log, listRepo, liveBus)
	projectService := services.NewProjectService(thePG, log, projectRepo, listRepo, portalRepo, masterListService, geocoder)
	portalService := services.NewPortalService(thePG, log, portalRepo, listRepo, callableClient)
	imageService := services.NewImageService(log, listService, bucketService)

	// Handlers
	log.Info("Setting up handlers from main...")
	handlers.UseErrorFunnel(errs.NewHandler(log))
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	listHandler := handlers.NewListHandler(listService, imageService, userService)
	portalHandler := handlers.NewPortalHandler(portalService)
	var liveHandler *handlers.LiveHandler
	if liveBus != nil {
		liveHandler = handlers.NewLiveHandler(log, liveBus)
	}

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		UserHandler:    userHandler,
		ProjectHandler: projectHandler,
		ListHandler:    listHandler,
		PortalHandler:  portalHandler,
		LiveHandler:    liveHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
