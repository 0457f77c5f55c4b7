package services

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "io"
  "mime/multipart"
  "net/http"
  "strings"
  "time"

  "github.com/promptdeck/promptdeck-backend/internal/logger"
  "github.com/promptdeck/promptdeck-backend/internal/utils"
)

const (
  completionTemperature = 0.7
  completionMaxTokens   = 2000
)

type ChatCompletionMessage struct {
  Role    string `json:"role"`
  Content string `json:"content"`
}

type ChatCompletionResult struct {
  Content string
  Usage   json.RawMessage
}

// OpenAIService relays chat completions and file uploads to an
// OpenAI-compatible API.
type OpenAIService interface {
  CreateChatCompletion(ctx context.Context, messages []ChatCompletionMessage) (ChatCompletionResult, error)
  UploadFile(ctx context.Context, filename, contentType string, data []byte) (string, error)
  HasAPIKey() bool
}

type openAIService struct {
  log        *logger.Logger
  client     *http.Client
  baseURL    string
  apiKey     string
  model      string
}

func NewOpenAIService(log *logger.Logger) (OpenAIService, error) {
  serviceLog := log.With("service", "OpenAIService")
  baseURL := strings.TrimRight(utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com/v1", log), "/")
  apiKey := utils.GetEnv("OPENAI_API_KEY", "", log)
  if apiKey == "" {
    serviceLog.Warn("OPENAI_API_KEY not set; completion calls will fail and file mirroring is disabled")
  }
  model := utils.GetEnv("OPENAI_MODEL", "gpt-4o-mini", log)
  timeoutSec := utils.GetEnvAsInt("OPENAI_TIMEOUT_SECONDS", 120, log)
  return &openAIService{
    log:     serviceLog,
    client:  &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
    baseURL: baseURL,
    apiKey:  apiKey,
    model:   model,
  }, nil
}

type chatCompletionRequest struct {
  Model       string                  `json:"model"`
  Messages    []ChatCompletionMessage `json:"messages"`
  Temperature float64                 `json:"temperature"`
  MaxTokens   int                     `json:"max_tokens"`
}

type chatCompletionResponse struct {
  Choices []struct {
    Message ChatCompletionMessage `json:"message"`
  } `json:"choices"`
  Usage json.RawMessage `json:"usage"`
}

func (oa *openAIService) CreateChatCompletion(ctx context.Context, messages []ChatCompletionMessage) (ChatCompletionResult, error) {
  var out ChatCompletionResult

  reqBody := chatCompletionRequest{
    Model:       oa.model,
    Messages:    messages,
    Temperature: completionTemperature,
    MaxTokens:   completionMaxTokens,
  }
  payload, err := json.Marshal(reqBody)
  if err != nil {
    return out, err
  }
  req, err := http.NewRequestWithContext(ctx, http.MethodPost, oa.baseURL+"/chat/completions", bytes.NewReader(payload))
  if err != nil {
    oa.log.Warn("failed to build chat completion request", "error", err)
    return out, err
  }
  req.Header.Set("Content-Type", "application/json")
  req.Header.Set("Authorization", "Bearer "+oa.apiKey)

  resp, err := oa.client.Do(req)
  if err != nil {
    oa.log.Warn("failed to call chat completion API", "error", err)
    return out, err
  }
  defer resp.Body.Close()

  if resp.StatusCode < 200 || resp.StatusCode > 299 {
    bodyBytes, _ := io.ReadAll(resp.Body)
    oa.log.Warn("chat completion API responded with non-2xx", "statusCode", resp.StatusCode, "body", string(bodyBytes))
    return out, fmt.Errorf("OpenAI API error: %d %s", resp.StatusCode, string(bodyBytes))
  }
  var parsed chatCompletionResponse
  if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
    oa.log.Warn("failed to decode chat completion response body", "error", err)
    return out, err
  }
  if len(parsed.Choices) == 0 {
    oa.log.Warn("chat completion response contained no choices")
    return out, fmt.Errorf("OpenAI API returned no choices")
  }
  out.Content = parsed.Choices[0].Message.Content
  out.Usage = parsed.Usage
  return out, nil
}

func (oa *openAIService) UploadFile(ctx context.Context, filename, contentType string, data []byte) (string, error) {
  var body bytes.Buffer
  writer := multipart.NewWriter(&body)
  if err := writer.WriteField("purpose", "assistants"); err != nil {
    return "", err
  }
  part, err := writer.CreateFormFile("file", filename)
  if err != nil {
    return "", err
  }
  if _, err := part.Write(data); err != nil {
    return "", err
  }
  if err := writer.Close(); err != nil {
    return "", err
  }

  req, err := http.NewRequestWithContext(ctx, http.MethodPost, oa.baseURL+"/files", &body)
  if err != nil {
    oa.log.Warn("failed to build file upload request", "error", err)
    return "", err
  }
  req.Header.Set("Content-Type", writer.FormDataContentType())
  req.Header.Set("Authorization", "Bearer "+oa.apiKey)

  resp, err := oa.client.Do(req)
  if err != nil {
    oa.log.Warn("failed to call file upload API", "error", err)
    return "", err
  }
  defer resp.Body.Close()

  if resp.StatusCode < 200 || resp.StatusCode > 299 {
    bodyBytes, _ := io.ReadAll(resp.Body)
    oa.log.Warn("file upload API responded with non-2xx", "statusCode", resp.StatusCode, "body", string(bodyBytes))
    return "", fmt.Errorf("OpenAI API error: %d %s", resp.StatusCode, string(bodyBytes))
  }
  var parsed struct {
    ID string `json:"id"`
  }
  if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
    oa.log.Warn("failed to decode file upload response body", "error", err)
    return "", err
  }
  return parsed.ID, nil
}

func (oa *openAIService) HasAPIKey() bool {
  return oa.apiKey != ""
}
