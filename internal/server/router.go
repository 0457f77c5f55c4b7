package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/promptdeck/promptdeck-backend/internal/handlers"
  "github.com/promptdeck/promptdeck-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler         *handlers.AuthHandler
  AuthMiddleware      *middleware.AuthMiddleware
  RateLimitMiddleware *middleware.RateLimitMiddleware
  MeHandler           *handlers.MeHandler
  ProjectHandler      *handlers.ProjectHandler
  ChatHandler         *handlers.ChatHandler
  FileHandler         *handlers.FileHandler
  UploadHandler       *handlers.UploadHandler
  CompletionHandler   *handlers.CompletionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  //-----------------------------------------
  // Cors Setup
  //-----------------------------------------
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:3000",
      "http://localhost:5173",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  //-----------------------------------------
  // Health Routes
  //-----------------------------------------
  router.GET("/healthz", handlers.Healthz)

  //-----------------------------------------
  // Public Routes
  //-----------------------------------------
  api := router.Group("/api")
  {
    api.POST("/register", cfg.AuthHandler.Register)
    api.POST("/login", cfg.AuthHandler.Login)
  }

  //------------------------------------------
  // Protected Routes
  //------------------------------------------
  protected := api.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  protected.POST("/refresh", cfg.AuthHandler.Refresh)
  protected.POST("/logout", cfg.AuthHandler.Logout)

  //ME
  protected.GET("/me", cfg.MeHandler.GetMe)

  //Projects
  protected.POST("/projects", cfg.ProjectHandler.CreateProject)
  protected.GET("/projects", cfg.ProjectHandler.GetMyProjects)
  protected.GET("/projects/:projectID", cfg.ProjectHandler.GetProject)
  protected.PATCH("/projects/:projectID", cfg.ProjectHandler.UpdateProject)
  protected.DELETE("/projects/:projectID", cfg.ProjectHandler.DeleteProject)

  //Chats
  protected.POST("/projects/:projectID/chats", cfg.ChatHandler.CreateChat)
  protected.GET("/projects/:projectID/chats", cfg.ChatHandler.GetProjectChats)
  protected.GET("/chats/:chatID", cfg.ChatHandler.GetChat)
  protected.PATCH("/chats/:chatID", cfg.ChatHandler.RenameChat)
  protected.DELETE("/chats/:chatID", cfg.ChatHandler.DeleteChat)

  //Messages
  protected.GET("/chats/:chatID/messages", cfg.ChatHandler.GetChatMessages)
  protected.POST("/chats/:chatID/messages", cfg.ChatHandler.AddUserMessage)

  //Files
  protected.GET("/projects/:projectID/files", cfg.FileHandler.GetProjectFiles)
  protected.DELETE("/files/:fileID", cfg.FileHandler.DeleteFile)

  //Relays sit behind the per-user rate limiter since they call upstream services.
  relays := protected.Group("/")
  relays.Use(cfg.RateLimitMiddleware.LimitPerUser())
  relays.POST("/completions", cfg.CompletionHandler.Complete)
  relays.POST("/uploads", cfg.UploadHandler.Upload)

  return router
}
