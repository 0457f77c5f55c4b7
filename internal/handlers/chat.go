package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/promptdeck/promptdeck-backend/internal/services"
)

type ChatHandler struct {
  chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
  return &ChatHandler{chatService: chatService}
}

func (ch *ChatHandler) CreateChat(c *gin.Context) {
  projectID, err := uuid.Parse(c.Param("projectID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
    return
  }
  var req struct {
    Title string `json:"title"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  chat, err := ch.chatService.CreateChat(c.Request.Context(), projectID, req.Title)
  if err != nil {
    c.JSON(errorStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"chat": chat})
}

func (ch *ChatHandler) GetProjectChats(c *gin.Context) {
  projectID, err := uuid.Parse(c.Param("projectID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
    return
  }
  chats, err := ch.chatService.GetProjectChats(c.Request.Context(), projectID)
  if err != nil {
    c.JSON(errorStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"chats": chats})
}

func (ch *ChatHandler) GetChat(c *gin.Context) {
  chatID, err := uuid.Parse(c.Param("chatID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
    return
  }
  chat, err := ch.chatService.GetChat(c.Request.Context(), chatID)
  if err != nil {
    c.JSON(errorStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"chat": chat})
}

func (ch *ChatHandler) RenameChat(c *gin.Context) {
  chatID, err := uuid.Parse(c.Param("chatID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
    return
  }
  var req struct {
    Title string `json:"title"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if req.Title == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "missing chat title"})
    return
  }
  chat, err := ch.chatService.RenameChat(c.Request.Context(), chatID, req.Title)
  if err != nil {
    c.JSON(errorStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"chat": chat})
}

func (ch *ChatHandler) DeleteChat(c *gin.Context) {
  chatID, err := uuid.Parse(c.Param("chatID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
    return
  }
  if err := ch.chatService.DeleteChat(c.Request.Context(), chatID); err != nil {
    c.JSON(errorStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "chat deleted"})
}

func (ch *ChatHandler) GetChatMessages(c *gin.Context) {
  chatID, err := uuid.Parse(c.Param("chatID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
    return
  }
  msgs, err := ch.chatService.GetChatMessages(c.Request.Context(), chatID)
  if err != nil {
    c.JSON(errorStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (ch *ChatHandler) AddUserMessage(c *gin.Context) {
  chatID, err := uuid.Parse(c.Param("chatID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
    return
  }
  var req struct {
    Content string `json:"content"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if req.Content == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "missing message content"})
    return
  }
  msg, err := ch.chatService.AddUserMessage(c.Request.Context(), chatID, req.Content)
  if err != nil {
    c.JSON(errorStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": msg})
}
