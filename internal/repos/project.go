package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/promptdeck/promptdeck-backend/internal/logger"
  "github.com/promptdeck/promptdeck-backend/internal/types"
)

// ProjectRepo scopes every read and write to the owning user. A project id
// that exists but belongs to someone else behaves exactly like one that does
// not exist.
type ProjectRepo interface {
  Create(ctx context.Context, tx *gorm.DB, projects []*types.Project) ([]*types.Project, error)
  GetByIDForUser(ctx context.Context, tx *gorm.DB, projectID, userID uuid.UUID) (*types.Project, error)
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Project, error)
  Update(ctx context.Context, tx *gorm.DB, project *types.Project) (*types.Project, error)
  DeleteByIDForUser(ctx context.Context, tx *gorm.DB, projectID, userID uuid.UUID) error
}

type projectRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
  return &projectRepo{db: db, log: baseLog.With("repo", "ProjectRepo")}
}

func (pr *projectRepo) Create(ctx context.Context, tx *gorm.DB, projects []*types.Project) ([]*types.Project, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  if len(projects) == 0 {
    return []*types.Project{}, nil
  }
  for _, p := range projects {
    if p.ID == uuid.Nil {
      p.ID = uuid.New()
    }
    if p.SystemPrompt == "" {
      p.SystemPrompt = types.DefaultSystemPrompt
    }
  }
  if err := transaction.WithContext(ctx).Create(&projects).Error; err != nil {
    pr.log.Error("Failed to create projects", "error", err)
    return nil, err
  }
  return projects, nil
}

func (pr *projectRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, projectID, userID uuid.UUID) (*types.Project, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  var p types.Project
  if err := transaction.WithContext(ctx).
    Where("id = ? AND user_id = ?", projectID, userID).
    First(&p).Error; err != nil {
    return nil, err
  }
  return &p, nil
}

func (pr *projectRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Project, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  var results []*types.Project
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("updated_at DESC").
    Find(&results).Error; err != nil {
    pr.log.Error("Failed to get projects by user id", "error", err)
    return nil, err
  }
  return results, nil
}

func (pr *projectRepo) Update(ctx context.Context, tx *gorm.DB, project *types.Project) (*types.Project, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  if err := transaction.WithContext(ctx).Save(project).Error; err != nil {
    pr.log.Error("Failed to update project", "error", err, "projectID", project.ID)
    return nil, err
  }
  return project, nil
}

func (pr *projectRepo) DeleteByIDForUser(ctx context.Context, tx *gorm.DB, projectID, userID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }
  res := transaction.WithContext(ctx).
    Unscoped().
    Where("id = ? AND user_id = ?", projectID, userID).
    Delete(&types.Project{})
  if res.Error != nil {
    pr.log.Error("Failed to delete project", "error", res.Error, "projectID", projectID)
    return res.Error
  }
  if res.RowsAffected == 0 {
    return gorm.ErrRecordNotFound
  }
  return nil
}
