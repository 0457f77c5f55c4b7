package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/promptdeck/promptdeck-backend/internal/services"
)

type UploadHandler struct {
  uploadService services.UploadService
}

func NewUploadHandler(uploadService services.UploadService) *UploadHandler {
  return &UploadHandler{uploadService: uploadService}
}

func (uh *UploadHandler) Upload(c *gin.Context) {
  //1) The project the file belongs to rides along as a form field.
  projectIDValue := c.PostForm("projectId")
  if projectIDValue == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "missing projectId"})
    return
  }
  projectID, err := uuid.Parse(projectIDValue)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
    return
  }
  //2) Pull the multipart file itself.
  fileHeader, err := c.FormFile("file")
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
    return
  }
  opened, err := fileHeader.Open()
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
    return
  }
  defer opened.Close()
  result, err := uh.uploadService.Upload(c.Request.Context(), projectID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), opened)
  if err != nil {
    c.JSON(errorStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "file":         result.File,
    "openaiFileId": result.OpenAIFileID,
    "message":      "file uploaded",
  })
}
