package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/promptdeck/promptdeck-backend/internal/services"
)

type ProjectHandler struct {
  projectService services.ProjectService
}

func NewProjectHandler(projectService services.ProjectService) *ProjectHandler {
  return &ProjectHandler{projectService: projectService}
}

func (ph *ProjectHandler) CreateProject(c *gin.Context) {
  var req struct {
    Name         string `json:"name"`
    Description  string `json:"description"`
    SystemPrompt string `json:"system_prompt"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if req.Name == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "missing project name"})
    return
  }
  project, err := ph.projectService.CreateProject(c.Request.Context(), req.Name, req.Description, req.SystemPrompt)
  if err != nil {
    c.JSON(errorStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"project": project})
}

func (ph *ProjectHandler) GetMyProjects(c *gin.Context) {
  projects, err := ph.projectService.GetMyProjects(c.Request.Context())
  if err != nil {
    c.JSON(errorStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (ph *ProjectHandler) GetProject(c *gin.Context) {
  projectID, err := uuid.Parse(c.Param("projectID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
    return
  }
  project, err := ph.projectService.GetProject(c.Request.Context(), projectID)
  if err != nil {
    c.JSON(errorStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"project": project})
}

func (ph *ProjectHandler) UpdateProject(c *gin.Context) {
  projectID, err := uuid.Parse(c.Param("projectID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
    return
  }
  var req struct {
    Name         *string `json:"name"`
    Description  *string `json:"description"`
    SystemPrompt *string `json:"system_prompt"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  project, err := ph.projectService.UpdateProject(c.Request.Context(), projectID, req.Name, req.Description, req.SystemPrompt)
  if err != nil {
    c.JSON(errorStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"project": project})
}

func (ph *ProjectHandler) DeleteProject(c *gin.Context) {
  projectID, err := uuid.Parse(c.Param("projectID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
    return
  }
  if err := ph.projectService.DeleteProject(c.Request.Context(), projectID); err != nil {
    c.JSON(errorStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}
