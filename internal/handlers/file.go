package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/promptdeck/promptdeck-backend/internal/services"
)

type FileHandler struct {
  fileService services.FileService
}

func NewFileHandler(fileService services.FileService) *FileHandler {
  return &FileHandler{fileService: fileService}
}

func (fh *FileHandler) GetProjectFiles(c *gin.Context) {
  projectID, err := uuid.Parse(c.Param("projectID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
    return
  }
  files, err := fh.fileService.GetProjectFiles(c.Request.Context(), projectID)
  if err != nil {
    c.JSON(errorStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"files": files})
}

func (fh *FileHandler) DeleteFile(c *gin.Context) {
  fileID, err := uuid.Parse(c.Param("fileID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
    return
  }
  if err := fh.fileService.DeleteFile(c.Request.Context(), fileID); err != nil {
    c.JSON(errorStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "file deleted"})
}
