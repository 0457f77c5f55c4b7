package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/promptdeck/promptdeck-backend/internal/logger"
  "github.com/promptdeck/promptdeck-backend/internal/types"
)

type FileRepo interface {
  Create(ctx context.Context, tx *gorm.DB, files []*types.File) ([]*types.File, error)
  GetByIDForUser(ctx context.Context, tx *gorm.DB, fileID, userID uuid.UUID) (*types.File, error)
  GetByProjectIDForUser(ctx context.Context, tx *gorm.DB, projectID, userID uuid.UUID) ([]*types.File, error)
  Update(ctx context.Context, tx *gorm.DB, file *types.File) (*types.File, error)
  DeleteByID(ctx context.Context, tx *gorm.DB, fileID uuid.UUID) error
}

type fileRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewFileRepo(db *gorm.DB, baseLog *logger.Logger) FileRepo {
  return &fileRepo{db: db, log: baseLog.With("repo", "FileRepo")}
}

func (fr *fileRepo) Create(ctx context.Context, tx *gorm.DB, files []*types.File) ([]*types.File, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }
  if len(files) == 0 {
    return []*types.File{}, nil
  }
  for _, f := range files {
    if f.ID == uuid.Nil {
      f.ID = uuid.New()
    }
  }
  if err := transaction.WithContext(ctx).Create(&files).Error; err != nil {
    fr.log.Error("Failed to create files", "error", err)
    return nil, err
  }
  return files, nil
}

func (fr *fileRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, fileID, userID uuid.UUID) (*types.File, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }
  var f types.File
  if err := transaction.WithContext(ctx).
    Joins("JOIN project ON project.id = file.project_id").
    Where("file.id = ? AND project.user_id = ?", fileID, userID).
    First(&f).Error; err != nil {
    return nil, err
  }
  return &f, nil
}

func (fr *fileRepo) GetByProjectIDForUser(ctx context.Context, tx *gorm.DB, projectID, userID uuid.UUID) ([]*types.File, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }
  var results []*types.File
  if err := transaction.WithContext(ctx).
    Joins("JOIN project ON project.id = file.project_id").
    Where("file.project_id = ? AND project.user_id = ?", projectID, userID).
    Order("file.created_at DESC").
    Find(&results).Error; err != nil {
    fr.log.Error("Failed to get files by project id", "error", err)
    return nil, err
  }
  return results, nil
}

func (fr *fileRepo) Update(ctx context.Context, tx *gorm.DB, file *types.File) (*types.File, error) {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }
  if err := transaction.WithContext(ctx).Save(file).Error; err != nil {
    fr.log.Error("Failed to update file", "error", err, "fileID", file.ID)
    return nil, err
  }
  return file, nil
}

func (fr *fileRepo) DeleteByID(ctx context.Context, tx *gorm.DB, fileID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = fr.db
  }
  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("id = ?", fileID).
    Delete(&types.File{}).Error; err != nil {
    fr.log.Error("Failed to delete file", "error", err, "fileID", fileID)
    return err
  }
  return nil
}
