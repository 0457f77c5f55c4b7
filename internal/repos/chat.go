package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/promptdeck/promptdeck-backend/internal/logger"
  "github.com/promptdeck/promptdeck-backend/internal/types"
)

// ChatRepo derives ownership transitively: every read joins up to the owning
// project and filters on its user_id. There is no denormalized owner column
// on the chat row.
type ChatRepo interface {
  Create(ctx context.Context, tx *gorm.DB, chats []*types.Chat) ([]*types.Chat, error)
  GetByIDForUser(ctx context.Context, tx *gorm.DB, chatID, userID uuid.UUID) (*types.Chat, error)
  GetByProjectIDForUser(ctx context.Context, tx *gorm.DB, projectID, userID uuid.UUID) ([]*types.Chat, error)
  Update(ctx context.Context, tx *gorm.DB, chat *types.Chat) (*types.Chat, error)
  DeleteByID(ctx context.Context, tx *gorm.DB, chatID uuid.UUID) error
}

type chatRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewChatRepo(db *gorm.DB, baseLog *logger.Logger) ChatRepo {
  return &chatRepo{db: db, log: baseLog.With("repo", "ChatRepo")}
}

func (cr *chatRepo) Create(ctx context.Context, tx *gorm.DB, chats []*types.Chat) ([]*types.Chat, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if len(chats) == 0 {
    return []*types.Chat{}, nil
  }
  for _, c := range chats {
    if c.ID == uuid.Nil {
      c.ID = uuid.New()
    }
    if c.Title == "" {
      c.Title = "New Chat"
    }
  }
  if err := transaction.WithContext(ctx).Create(&chats).Error; err != nil {
    cr.log.Error("Failed to create chats", "error", err)
    return nil, err
  }
  return chats, nil
}

func (cr *chatRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, chatID, userID uuid.UUID) (*types.Chat, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var c types.Chat
  if err := transaction.WithContext(ctx).
    Joins("JOIN project ON project.id = chat.project_id").
    Where("chat.id = ? AND project.user_id = ?", chatID, userID).
    First(&c).Error; err != nil {
    return nil, err
  }
  return &c, nil
}

func (cr *chatRepo) GetByProjectIDForUser(ctx context.Context, tx *gorm.DB, projectID, userID uuid.UUID) ([]*types.Chat, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var results []*types.Chat
  if err := transaction.WithContext(ctx).
    Joins("JOIN project ON project.id = chat.project_id").
    Where("chat.project_id = ? AND project.user_id = ?", projectID, userID).
    Order("chat.created_at DESC").
    Find(&results).Error; err != nil {
    cr.log.Error("Failed to get chats by project id", "error", err)
    return nil, err
  }
  return results, nil
}

func (cr *chatRepo) Update(ctx context.Context, tx *gorm.DB, chat *types.Chat) (*types.Chat, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if err := transaction.WithContext(ctx).Save(chat).Error; err != nil {
    cr.log.Error("Failed to update chat", "error", err, "chatID", chat.ID)
    return nil, err
  }
  return chat, nil
}

func (cr *chatRepo) DeleteByID(ctx context.Context, tx *gorm.DB, chatID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("id = ?", chatID).
    Delete(&types.Chat{}).Error; err != nil {
    cr.log.Error("Failed to delete chat", "error", err, "chatID", chatID)
    return err
  }
  return nil
}
