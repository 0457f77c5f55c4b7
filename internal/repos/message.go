package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/promptdeck/promptdeck-backend/internal/logger"
  "github.com/promptdeck/promptdeck-backend/internal/types"
)

// MessageRepo is append-only: rows can be created and listed, never updated
// or deleted directly. Reads join message -> chat -> project to scope by the
// owning user.
type MessageRepo interface {
  CreateMessages(ctx context.Context, tx *gorm.DB, msgs []*types.Message) ([]*types.Message, error)
  GetByChatIDForUser(ctx context.Context, tx *gorm.DB, chatID, userID uuid.UUID) ([]*types.Message, error)
}

type messageRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
  return &messageRepo{db: db, log: baseLog.With("repo", "MessageRepo")}
}

func (mr *messageRepo) CreateMessages(ctx context.Context, tx *gorm.DB, msgs []*types.Message) ([]*types.Message, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  if len(msgs) == 0 {
    return msgs, nil
  }
  for _, m := range msgs {
    if m.ID == uuid.Nil {
      m.ID = uuid.New()
    }
  }
  if err := transaction.WithContext(ctx).Create(&msgs).Error; err != nil {
    mr.log.Error("Failed to create messages", "error", err)
    return nil, err
  }
  return msgs, nil
}

func (mr *messageRepo) GetByChatIDForUser(ctx context.Context, tx *gorm.DB, chatID, userID uuid.UUID) ([]*types.Message, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }
  var msgs []*types.Message
  if err := transaction.WithContext(ctx).
    Joins("JOIN chat ON chat.id = message.chat_id").
    Joins("JOIN project ON project.id = chat.project_id").
    Where("message.chat_id = ? AND project.user_id = ?", chatID, userID).
    Order("message.created_at ASC").
    Find(&msgs).Error; err != nil {
    mr.log.Error("Failed to get messages by chat id", "error", err)
    return nil, err
  }
  return msgs, nil
}
