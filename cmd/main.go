package main

import (
  "fmt"
  "os"
  "time"

  "github.com/promptdeck/promptdeck-backend/internal/db"
  "github.com/promptdeck/promptdeck-backend/internal/handlers"
  "github.com/promptdeck/promptdeck-backend/internal/logger"
  "github.com/promptdeck/promptdeck-backend/internal/middleware"
  "github.com/promptdeck/promptdeck-backend/internal/ratelimit"
  "github.com/promptdeck/promptdeck-backend/internal/repos"
  "github.com/promptdeck/promptdeck-backend/internal/server"
  "github.com/promptdeck/promptdeck-backend/internal/services"
  "github.com/promptdeck/promptdeck-backend/internal/utils"
)

func main() {
  // Logger Setup
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Environment Variables
  log.Info("Attempting to load environment variables for Main now...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  redisAddress := utils.GetEnv("REDIS_ADDRESS", "localhost:6379", log)
  redisPassword := utils.GetEnv("REDIS_PASSWORD", "", log)
  rateLimitRequests := utils.GetEnvAsInt("RATE_LIMIT_REQUESTS", 30, log)
  rateLimitWindow := utils.GetEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60, log)
  log.Debug("Environment variables loaded for Main :)",
    "accessTokenTTL", accessTokenTTL,
    "refreshTokenTTL", refreshTokenTTL,
    "redisAddress", redisAddress,
    "rateLimitRequests", rateLimitRequests,
    "rateLimitWindow", rateLimitWindow,
  )

  // Postgres Setup
  log.Info("Setting Up Postgres from Main now...")
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("DB init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()
  log.Info("Postgres Setup From Main Successful :)")

  // Repositories Setup
  log.Info("Setting Up Repositories from Main now...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  projectRepo := repos.NewProjectRepo(thePG, log)
  chatRepo := repos.NewChatRepo(thePG, log)
  messageRepo := repos.NewMessageRepo(thePG, log)
  fileRepo := repos.NewFileRepo(thePG, log)
  log.Info("Repositories Set Up From Main Successful :)")

  // Services Setup
  log.Info("Setting up Services from Main now...")
  bucketService, err := services.NewBucketService(log)
  if err != nil {
    log.Warn("Could not init BucketService", "error", err)
  }
  avatarService, err := services.NewAvatarService(log, bucketService)
  if err != nil {
    log.Warn("Could not init AvatarService", "error", err)
  }
  openAIService, err := services.NewOpenAIService(log)
  if err != nil {
    log.Warn("Could not init OpenAIService", "error", err)
  }
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, avatarService, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  meService := services.NewMeService(thePG, log, userRepo)
  projectService := services.NewProjectService(thePG, log, projectRepo, fileRepo, bucketService)
  chatService := services.NewChatService(thePG, log, projectRepo, chatRepo, messageRepo)
  fileService := services.NewFileService(thePG, log, projectRepo, fileRepo, bucketService)
  uploadService := services.NewUploadService(thePG, log, projectRepo, fileRepo, bucketService, openAIService)
  completionService := services.NewCompletionService(thePG, log, projectRepo, chatRepo, messageRepo, openAIService)
  log.Info("Services Set Up From Main Successful :)")

  // Rate Limiter Setup
  log.Info("Setting Up Rate Limiter from Main now...")
  limiter, err := ratelimit.NewRedisFixedWindowLimiter(redisAddress, redisPassword, "promptdeck:ratelimit", rateLimitRequests, time.Duration(rateLimitWindow)*time.Second)
  if err != nil {
    log.Warn("Could not init rate limiter, relay routes will not be limited :(", "error", err)
  }
  log.Info("Rate Limiter Set Up From Main Successful :)")

  //  Handler Setup
  log.Info("Setting Up Handlers from Main now...")
  authHandler := handlers.NewAuthHandler(authService)
  meHandler := handlers.NewMeHandler(meService)
  projectHandler := handlers.NewProjectHandler(projectService)
  chatHandler := handlers.NewChatHandler(chatService)
  fileHandler := handlers.NewFileHandler(fileService)
  uploadHandler := handlers.NewUploadHandler(uploadService)
  completionHandler := handlers.NewCompletionHandler(completionService)
  log.Info("Handlers Set Up From Main Successful :)")

  // MiddleWare Setup
  log.Info("Setting Up Middleware from Main now...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)
  rateLimitMiddleware := middleware.NewRateLimitMiddleware(log, limiter)
  log.Info("Middleware Set Up From Main Successful :)")

  // Router Setup
  log.Info("Setting Up Router from Main now...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:         authHandler,
    AuthMiddleware:      authMiddleware,
    RateLimitMiddleware: rateLimitMiddleware,
    MeHandler:           meHandler,
    ProjectHandler:      projectHandler,
    ChatHandler:         chatHandler,
    FileHandler:         fileHandler,
    UploadHandler:       uploadHandler,
    CompletionHandler:   completionHandler,
  })
  log.Info("Router Set Up From Main Successful :)")

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed: %v", err)
  }
}
