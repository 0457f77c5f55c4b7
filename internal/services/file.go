package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/promptdeck/promptdeck-backend/internal/logger"
  "github.com/promptdeck/promptdeck-backend/internal/repos"
  "github.com/promptdeck/promptdeck-backend/internal/requestdata"
  "github.com/promptdeck/promptdeck-backend/internal/types"
)

type FileService interface {
  GetProjectFiles(ctx context.Context, projectID uuid.UUID) ([]*types.File, error)
  DeleteFile(ctx context.Context, fileID uuid.UUID) error
}

type fileService struct {
  db            *gorm.DB
  log           *logger.Logger
  projectRepo   repos.ProjectRepo
  fileRepo      repos.FileRepo
  bucketService BucketService
}

func NewFileService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo, fileRepo repos.FileRepo, bucketService BucketService) FileService {
  serviceLog := log.With("service", "FileService")
  return &fileService{
    db:            db,
    log:           serviceLog,
    projectRepo:   projectRepo,
    fileRepo:      fileRepo,
    bucketService: bucketService,
  }
}

func (fs *fileService) GetProjectFiles(ctx context.Context, projectID uuid.UUID) ([]*types.File, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    fs.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, fmt.Errorf("No Request Data found in context.")
  }
  //1) Make sure the project actually belongs to the caller.
  if _, err := fs.projectRepo.GetByIDForUser(ctx, nil, projectID, rd.UserID); err != nil {
    fs.log.Warn("Failed to find project for caller :(", "projectID", projectID, "error", err)
    return nil, err
  }
  files, err := fs.fileRepo.GetByProjectIDForUser(ctx, nil, projectID, rd.UserID)
  if err != nil {
    fs.log.Warn("Failed to list files for project :(", "projectID", projectID, "error", err)
    return nil, err
  }
  return files, nil
}

func (fs *fileService) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    fs.log.Warn("No Request Data found in context, Cannot proceed.")
    return fmt.Errorf("No Request Data found in context.")
  }
  //1) Re-fetch the file scoped to the caller so nobody can delete somebody else's upload.
  file, err := fs.fileRepo.GetByIDForUser(ctx, nil, fileID, rd.UserID)
  if err != nil {
    fs.log.Warn("Failed to find file for caller :(", "fileID", fileID, "error", err)
    return err
  }
  //2) Remove the stored object first so we never keep a row that points at nothing we can clean up later.
  if fs.bucketService != nil && file.StoragePath != "" {
    if err := fs.bucketService.DeleteFile(ctx, file.StoragePath); err != nil {
      fs.log.Warn("Failed to delete file object from bucket :(", "storagePath", file.StoragePath, "error", err)
      return fmt.Errorf("failed to delete file object: %w", err)
    }
  }
  //3) Now drop the metadata row itself.
  if err := fs.fileRepo.DeleteByID(ctx, nil, fileID); err != nil {
    fs.log.Warn("Failed to delete file row :(", "fileID", fileID, "error", err)
    return err
  }
  fs.log.Info("Successfully deleted file :)", "fileID", fileID)
  return nil
}
