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

type MeService interface {
  GetMe(ctx context.Context, tx *gorm.DB) (*types.User, error)
}

type meService struct {
  db       *gorm.DB
  log      *logger.Logger
  userRepo repos.UserRepo
}

func NewMeService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) MeService {
  serviceLog := log.With("service", "MeService")
  return &meService{db: db, log: serviceLog, userRepo: userRepo}
}

func (ms *meService) GetMe(ctx context.Context, tx *gorm.DB) (*types.User, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    ms.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, fmt.Errorf("No Request Data found in context.")
  }
  users, err := ms.userRepo.GetByIDs(ctx, tx, []uuid.UUID{rd.UserID})
  if err != nil {
    ms.log.Warn("Failed to fetch user, Cannot proceed. Returning error.", "error", err)
    return nil, fmt.Errorf("Failure to fetch user: %w", err)
  }
  if len(users) == 0 {
    ms.log.Warn("No user found for request data user id, Cannot proceed.")
    return nil, fmt.Errorf("No user found.")
  }
  return users[0], nil
}
