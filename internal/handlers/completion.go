package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/promptdeck/promptdeck-backend/internal/services"
)

type CompletionHandler struct {
  completionService services.CompletionService
}

func NewCompletionHandler(completionService services.CompletionService) *CompletionHandler {
  return &CompletionHandler{completionService: completionService}
}

func (coh *CompletionHandler) Complete(c *gin.Context) {
  var req struct {
    Messages  []services.ChatCompletionMessage `json:"messages"`
    ChatID    string                           `json:"chatId"`
    ProjectID string                           `json:"projectId"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if len(req.Messages) == 0 {
    c.JSON(http.StatusBadRequest, gin.H{"error": "missing messages"})
    return
  }
  if req.ChatID == "" || req.ProjectID == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "missing chatId or projectId"})
    return
  }
  chatID, err := uuid.Parse(req.ChatID)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
    return
  }
  projectID, err := uuid.Parse(req.ProjectID)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
    return
  }
  result, err := coh.completionService.Complete(c.Request.Context(), chatID, projectID, req.Messages)
  if err != nil {
    c.JSON(errorStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "message": result.Message,
    "usage":   result.Usage,
  })
}
