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

type ChatService interface {
  //Chat Level
  CreateChat(ctx context.Context, projectID uuid.UUID, title string) (*types.Chat, error)
  GetProjectChats(ctx context.Context, projectID uuid.UUID) ([]*types.Chat, error)
  GetChat(ctx context.Context, chatID uuid.UUID) (*types.Chat, error)
  RenameChat(ctx context.Context, chatID uuid.UUID, title string) (*types.Chat, error)
  DeleteChat(ctx context.Context, chatID uuid.UUID) error
  //Message Level
  GetChatMessages(ctx context.Context, chatID uuid.UUID) ([]*types.Message, error)
  AddUserMessage(ctx context.Context, chatID uuid.UUID, content string) (*types.Message, error)
}

type chatService struct {
  db          *gorm.DB
  log         *logger.Logger
  projectRepo repos.ProjectRepo
  chatRepo    repos.ChatRepo
  messageRepo repos.MessageRepo
}

func NewChatService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo, chatRepo repos.ChatRepo, messageRepo repos.MessageRepo) ChatService {
  serviceLog := log.With("service", "ChatService")
  return &chatService{
    db:          db,
    log:         serviceLog,
    projectRepo: projectRepo,
    chatRepo:    chatRepo,
    messageRepo: messageRepo,
  }
}

func (cs *chatService) CreateChat(ctx context.Context, projectID uuid.UUID, title string) (*types.Chat, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    cs.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, fmt.Errorf("No Request Data found in context.")
  }
  //1) Verify the caller owns the parent project
  if _, err := cs.projectRepo.GetByIDForUser(ctx, nil, projectID, rd.UserID); err != nil {
    return nil, err
  }
  //2) Create the chat
  chat := &types.Chat{
    ProjectID: projectID,
    Title:     normalization.TrimInputString(title),
  }
  created, err := cs.chatRepo.Create(ctx, nil, []*types.Chat{chat})
  if err != nil {
    cs.log.Warn("Failed to create new chat, Cannot proceed. Returning error.", "error", err)
    return nil, fmt.Errorf("Failure to create chat: %w", err)
  }
  return created[0], nil
}

func (cs *chatService) GetProjectChats(ctx context.Context, projectID uuid.UUID) ([]*types.Chat, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    cs.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, fmt.Errorf("No Request Data found in context.")
  }
  chats, err := cs.chatRepo.GetByProjectIDForUser(ctx, nil, projectID, rd.UserID)
  if err != nil {
    cs.log.Warn("Failed to list chats for project, Cannot proceed. Returning error.", "error", err)
    return nil, fmt.Errorf("Failure to list chats: %w", err)
  }
  return chats, nil
}

func (cs *chatService) GetChat(ctx context.Context, chatID uuid.UUID) (*types.Chat, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    cs.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, fmt.Errorf("No Request Data found in context.")
  }
  chat, err := cs.chatRepo.GetByIDForUser(ctx, nil, chatID, rd.UserID)
  if err != nil {
    return nil, err
  }
  return chat, nil
}

func (cs *chatService) RenameChat(ctx context.Context, chatID uuid.UUID, title string) (*types.Chat, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    cs.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, fmt.Errorf("No Request Data found in context.")
  }
  trimmed := normalization.TrimInputString(title)
  if trimmed == "" {
    cs.log.Warn("Chat title is an empty string, Cannot proceed.")
    return nil, fmt.Errorf("a chat title is required.")
  }
  chat, err := cs.chatRepo.GetByIDForUser(ctx, nil, chatID, rd.UserID)
  if err != nil {
    return nil, err
  }
  chat.Title = trimmed
  updated, err := cs.chatRepo.Update(ctx, nil, chat)
  if err != nil {
    cs.log.Warn("Failed to rename chat, Cannot proceed. Returning error.", "error", err)
    return nil, fmt.Errorf("Failure to rename chat: %w", err)
  }
  return updated, nil
}

func (cs *chatService) DeleteChat(ctx context.Context, chatID uuid.UUID) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    cs.log.Warn("No Request Data found in context, Cannot proceed.")
    return fmt.Errorf("No Request Data found in context.")
  }
  //1) Ownership check before the hard delete
  chat, err := cs.chatRepo.GetByIDForUser(ctx, nil, chatID, rd.UserID)
  if err != nil {
    return err
  }
  //2) Delete; messages cascade
  if err := cs.chatRepo.DeleteByID(ctx, nil, chat.ID); err != nil {
    cs.log.Warn("Failed to delete chat, Cannot proceed. Returning error.", "error", err)
    return fmt.Errorf("Failure to delete chat: %w", err)
  }
  return nil
}

func (cs *chatService) GetChatMessages(ctx context.Context, chatID uuid.UUID) ([]*types.Message, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    cs.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, fmt.Errorf("No Request Data found in context.")
  }
  msgs, err := cs.messageRepo.GetByChatIDForUser(ctx, nil, chatID, rd.UserID)
  if err != nil {
    cs.log.Warn("Failed to list chat messages, Cannot proceed. Returning error.", "error", err)
    return nil, fmt.Errorf("Failure to list chat messages: %w", err)
  }
  return msgs, nil
}

// AddUserMessage appends a user-authored turn. Assistant rows are only ever
// written by the completion relay.
func (cs *chatService) AddUserMessage(ctx context.Context, chatID uuid.UUID, content string) (*types.Message, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    cs.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, fmt.Errorf("No Request Data found in context.")
  }
  if normalization.TrimInputString(content) == "" {
    cs.log.Warn("Message content is an empty string, Cannot proceed.")
    return nil, fmt.Errorf("message content is required.")
  }
  //1) Ownership check on the chat
  chat, err := cs.chatRepo.GetByIDForUser(ctx, nil, chatID, rd.UserID)
  if err != nil {
    return nil, err
  }
  //2) Append
  msg := &types.Message{
    ChatID:  chat.ID,
    Role:    types.MessageRoleUser,
    Content: content,
  }
  created, err := cs.messageRepo.CreateMessages(ctx, nil, []*types.Message{msg})
  if err != nil {
    cs.log.Warn("Failed to create user message, Cannot proceed. Returning error.", "error", err)
    return nil, fmt.Errorf("Failure to create user message: %w", err)
  }
  return created[0], nil
}
