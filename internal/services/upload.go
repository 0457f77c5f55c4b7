package services

import (
  "bytes"
  "context"
  "fmt"
  "io"
  "path/filepath"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/promptdeck/promptdeck-backend/internal/logger"
  "github.com/promptdeck/promptdeck-backend/internal/repos"
  "github.com/promptdeck/promptdeck-backend/internal/requestdata"
  "github.com/promptdeck/promptdeck-backend/internal/types"
)

// MirrorSizeLimit is the largest file that gets mirrored to the OpenAI
// Files API. Larger files are stored in the bucket only.
const MirrorSizeLimit = 20 * 1024 * 1024

type UploadResult struct {
  File         *types.File
  OpenAIFileID *string
}

// UploadService is the upload relay: object write, metadata row, optional
// best-effort mirror. The metadata row and the object write are two
// independent calls; a failed row insert triggers a compensating delete of
// the just-written object.
type UploadService interface {
  Upload(ctx context.Context, projectID uuid.UUID, filename, contentType string, r io.Reader) (*UploadResult, error)
}

type uploadService struct {
  db            *gorm.DB
  log           *logger.Logger
  projectRepo   repos.ProjectRepo
  fileRepo      repos.FileRepo
  bucketService BucketService
  openAIService OpenAIService
}

func NewUploadService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo, fileRepo repos.FileRepo, bucketService BucketService, openAIService OpenAIService) UploadService {
  serviceLog := log.With("service", "UploadService")
  return &uploadService{
    db:            db,
    log:           serviceLog,
    projectRepo:   projectRepo,
    fileRepo:      fileRepo,
    bucketService: bucketService,
    openAIService: openAIService,
  }
}

func (us *uploadService) Upload(ctx context.Context, projectID uuid.UUID, filename, contentType string, r io.Reader) (*UploadResult, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    us.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, fmt.Errorf("No Request Data found in context.")
  }
  if us.bucketService == nil {
    us.log.Warn("No Bucket Service configured, Cannot accept uploads.")
    return nil, fmt.Errorf("file storage is not configured.")
  }

  //1) Verify the caller owns the target project
  if _, err := us.projectRepo.GetByIDForUser(ctx, nil, projectID, rd.UserID); err != nil {
    return nil, err
  }

  //2) Buffer the payload; the mirror call needs the bytes a second time
  data, err := io.ReadAll(r)
  if err != nil {
    us.log.Warn("Failed to read upload payload, Cannot proceed. Returning error.", "error", err)
    return nil, fmt.Errorf("Failure to read upload payload: %w", err)
  }

  //3) Write the object. The first path segment is the owner's identity so the
  //   bucket layout mirrors the storage authorization policy.
  storagePath := fmt.Sprintf("%s/%s%s", rd.UserID.String(), uuid.New().String(), filepath.Ext(filename))
  if err := us.bucketService.UploadFile(ctx, storagePath, bytes.NewReader(data), contentType); err != nil {
    us.log.Warn("Failed to write object to bucket, Cannot proceed. Returning error.", "error", err)
    return nil, fmt.Errorf("Failure to write file to storage: %w", err)
  }

  //4) Insert the metadata row; compensate by deleting the object on failure
  file := &types.File{
    ProjectID:   projectID,
    Name:        filename,
    Size:        int64(len(data)),
    Type:        contentType,
    StoragePath: storagePath,
  }
  created, cErr := us.fileRepo.Create(ctx, nil, []*types.File{file})
  if cErr != nil {
    us.log.Warn("Failed to insert file metadata row, deleting uploaded object. Returning error.", "error", cErr)
    if dErr := us.bucketService.DeleteFile(ctx, storagePath); dErr != nil {
      us.log.Warn("Failed to delete orphaned object after metadata insert failure", "error", dErr, "storagePath", storagePath)
    }
    return nil, fmt.Errorf("Failure to insert file metadata: %w", cErr)
  }
  file = created[0]

  //5) Best-effort mirror, never surfaced to the caller
  var openAIFileID *string
  if us.openAIService != nil && us.openAIService.HasAPIKey() && int64(len(data)) <= MirrorSizeLimit {
    mirrorID, mErr := us.openAIService.UploadFile(ctx, filename, contentType, data)
    if mErr != nil {
      us.log.Warn("Failed to mirror file to OpenAI, continuing without mirror", "error", mErr, "fileID", file.ID)
    } else {
      openAIFileID = &mirrorID
      file.OpenAIFileID = &mirrorID
      if _, uErr := us.fileRepo.Update(ctx, nil, file); uErr != nil {
        us.log.Warn("Failed to persist mirror file id, continuing", "error", uErr, "fileID", file.ID)
      }
    }
  }

  return &UploadResult{File: file, OpenAIFileID: openAIFileID}, nil
}
