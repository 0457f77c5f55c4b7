package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/promptdeck/promptdeck-backend/internal/logger"
  "github.com/promptdeck/promptdeck-backend/internal/normalization"
  "github.com/promptdeck/promptdeck-backend/internal/repos"
  "github.com/promptdeck/promptdeck-backend/internal/requestdata"
  "github.com/promptdeck/promptdeck-backend/internal/types"
)

type ProjectService interface {
  CreateProject(ctx context.Context, name, description, systemPrompt string) (*types.Project, error)
  GetMyProjects(ctx context.Context) ([]*types.Project, error)
  GetProject(ctx context.Context, projectID uuid.UUID) (*types.Project, error)
  UpdateProject(ctx context.Context, projectID uuid.UUID, name, description, systemPrompt *string) (*types.Project, error)
  DeleteProject(ctx context.Context, projectID uuid.UUID) error
}

type projectService struct {
  db            *gorm.DB
  log           *logger.Logger
  projectRepo   repos.ProjectRepo
  fileRepo      repos.FileRepo
  bucketService BucketService
}

func NewProjectService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo, fileRepo repos.FileRepo, bucketService BucketService) ProjectService {
  serviceLog := log.With("service", "ProjectService")
  return &projectService{
    db:            db,
    log:           serviceLog,
    projectRepo:   projectRepo,
    fileRepo:      fileRepo,
    bucketService: bucketService,
  }
}

func (ps *projectService) CreateProject(ctx context.Context, name, description, systemPrompt string) (*types.Project, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    ps.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, fmt.Errorf("No Request Data found in context.")
  }
  name = normalization.TrimInputString(name)
  if name == "" {
    ps.log.Warn("Project name is an empty string, Cannot proceed.")
    return nil, fmt.Errorf("a project name is required.")
  }
  project := &types.Project{
    UserID:       rd.UserID,
    Name:         name,
    Description:  normalization.TrimInputString(description),
    SystemPrompt: normalization.TrimInputString(systemPrompt),
  }
  created, err := ps.projectRepo.Create(ctx, nil, []*types.Project{project})
  if err != nil {
    ps.log.Warn("Failed to create new project, Cannot proceed. Returning error.", "error", err)
    return nil, fmt.Errorf("Failure to create project: %w", err)
  }
  return created[0], nil
}

func (ps *projectService) GetMyProjects(ctx context.Context) ([]*types.Project, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    ps.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, fmt.Errorf("No Request Data found in context.")
  }
  projects, err := ps.projectRepo.GetByUserID(ctx, nil, rd.UserID)
  if err != nil {
    ps.log.Warn("Failed to list projects for user, Cannot proceed. Returning error.", "error", err)
    return nil, fmt.Errorf("Failure to list projects: %w", err)
  }
  return projects, nil
}

func (ps *projectService) GetProject(ctx context.Context, projectID uuid.UUID) (*types.Project, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    ps.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, fmt.Errorf("No Request Data found in context.")
  }
  project, err := ps.projectRepo.GetByIDForUser(ctx, nil, projectID, rd.UserID)
  if err != nil {
    return nil, err
  }
  return project, nil
}

func (ps *projectService) UpdateProject(ctx context.Context, projectID uuid.UUID, name, description, systemPrompt *string) (*types.Project, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    ps.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, fmt.Errorf("No Request Data found in context.")
  }
  project, err := ps.projectRepo.GetByIDForUser(ctx, nil, projectID, rd.UserID)
  if err != nil {
    return nil, err
  }
  if name != nil {
    trimmed := normalization.TrimInputString(*name)
    if trimmed == "" {
      ps.log.Warn("Project name is an empty string, Cannot proceed.")
      return nil, fmt.Errorf("a project name is required.")
    }
    project.Name = trimmed
  }
  if description != nil {
    project.Description = normalization.TrimInputString(*description)
  }
  if systemPrompt != nil {
    prompt := normalization.TrimInputString(*systemPrompt)
    if prompt == "" {
      prompt = types.DefaultSystemPrompt
    }
    project.SystemPrompt = prompt
  }
  updated, err := ps.projectRepo.Update(ctx, nil, project)
  if err != nil {
    ps.log.Warn("Failed to update project, Cannot proceed. Returning error.", "error", err)
    return nil, fmt.Errorf("Failure to update project: %w", err)
  }
  return updated, nil
}

// DeleteProject removes the project's bucket objects before the rows cascade,
// so a failed object delete never leaves orphaned storage behind a deleted row.
func (ps *projectService) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    ps.log.Warn("No Request Data found in context, Cannot proceed.")
    return fmt.Errorf("No Request Data found in context.")
  }

  //1) Collect the file rows while the project still exists
  files, err := ps.fileRepo.GetByProjectIDForUser(ctx, nil, projectID, rd.UserID)
  if err != nil {
    ps.log.Warn("Failed to list project files before delete, Cannot proceed. Returning error.", "error", err)
    return fmt.Errorf("Failure to list project files: %w", err)
  }

  //2) Remove the backing objects
  if ps.bucketService != nil {
    for _, f := range files {
      if dErr := ps.bucketService.DeleteFile(ctx, f.StoragePath); dErr != nil {
        ps.log.Warn("Failed to delete project file object, Cannot proceed. Returning error.", "error", dErr, "storagePath", f.StoragePath)
        return fmt.Errorf("Failure to delete project file object: %w", dErr)
      }
    }
  }

  //3) Delete the project row; chats, messages and file rows cascade
  if err := ps.projectRepo.DeleteByIDForUser(ctx, nil, projectID, rd.UserID); err != nil {
    ps.log.Warn("Failed to delete project, Cannot proceed. Returning error.", "error", err)
    return err
  }
  return nil
}
