package services

import (
  "context"
  "encoding/json"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/promptdeck/promptdeck-backend/internal/logger"
  "github.com/promptdeck/promptdeck-backend/internal/repos"
  "github.com/promptdeck/promptdeck-backend/internal/requestdata"
  "github.com/promptdeck/promptdeck-backend/internal/types"
)

type CompletionResult struct {
  Message string
  Usage   json.RawMessage
}

// CompletionService is the completion relay: validate, fetch the project's
// system prompt, call the upstream, persist the assistant reply, respond.
// A reply that cannot be persisted is not returned to the caller.
type CompletionService interface {
  Complete(ctx context.Context, chatID, projectID uuid.UUID, history []ChatCompletionMessage) (*CompletionResult, error)
}

type completionService struct {
  db            *gorm.DB
  log           *logger.Logger
  projectRepo   repos.ProjectRepo
  chatRepo      repos.ChatRepo
  messageRepo   repos.MessageRepo
  openAIService OpenAIService
}

func NewCompletionService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo, chatRepo repos.ChatRepo, messageRepo repos.MessageRepo, openAIService OpenAIService) CompletionService {
  serviceLog := log.With("service", "CompletionService")
  return &completionService{
    db:            db,
    log:           serviceLog,
    projectRepo:   projectRepo,
    chatRepo:      chatRepo,
    messageRepo:   messageRepo,
    openAIService: openAIService,
  }
}

func (cs *completionService) Complete(ctx context.Context, chatID, projectID uuid.UUID, history []ChatCompletionMessage) (*CompletionResult, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    cs.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, fmt.Errorf("No Request Data found in context.")
  }
  if len(history) == 0 {
    cs.log.Warn("Message history is empty, Cannot proceed.")
    return nil, fmt.Errorf("a message history is required.")
  }

  //1) Verify the chat belongs to the project and the project to the caller
  chat, err := cs.chatRepo.GetByIDForUser(ctx, nil, chatID, rd.UserID)
  if err != nil {
    return nil, err
  }
  if chat.ProjectID != projectID {
    cs.log.Warn("Chat does not belong to the given project, Cannot proceed.", "chatID", chatID, "projectID", projectID)
    return nil, gorm.ErrRecordNotFound
  }

  //2) Fetch the project's system prompt
  project, err := cs.projectRepo.GetByIDForUser(ctx, nil, projectID, rd.UserID)
  if err != nil {
    return nil, err
  }

  //3) Prepend the system entry and call the upstream
  messages := make([]ChatCompletionMessage, 0, len(history)+1)
  messages = append(messages, ChatCompletionMessage{Role: "system", Content: project.SystemPrompt})
  messages = append(messages, history...)
  completion, err := cs.openAIService.CreateChatCompletion(ctx, messages)
  if err != nil {
    return nil, err
  }

  //4) Persist the assistant reply before returning it
  assistantMsg := &types.Message{
    ChatID:  chat.ID,
    Role:    types.MessageRoleAssistant,
    Content: completion.Content,
    Usage:   datatypes.JSON(completion.Usage),
  }
  if _, pErr := cs.messageRepo.CreateMessages(ctx, nil, []*types.Message{assistantMsg}); pErr != nil {
    cs.log.Warn("Failed to persist assistant message, the reply is not returned. Returning error.", "error", pErr)
    return nil, fmt.Errorf("Failure to persist assistant message: %w", pErr)
  }

  return &CompletionResult{Message: completion.Content, Usage: completion.Usage}, nil
}
