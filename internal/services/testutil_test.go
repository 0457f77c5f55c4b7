package services

import (
  "context"
  "fmt"
  "io"
  "testing"
  "time"

  "github.com/google/uuid"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"

  "github.com/promptdeck/promptdeck-backend/internal/logger"
  "github.com/promptdeck/promptdeck-backend/internal/repos"
  "github.com/promptdeck/promptdeck-backend/internal/requestdata"
  "github.com/promptdeck/promptdeck-backend/internal/types"
)

var testSchema = []string{
  `CREATE TABLE user (
    id TEXT PRIMARY KEY,
    created_at DATETIME,
    updated_at DATETIME,
    deleted_at DATETIME,
    email TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    display_name TEXT,
    avatar_bucket_key TEXT,
    avatar_url TEXT
  )`,
  `CREATE TABLE user_token (
    id TEXT PRIMARY KEY,
    created_at DATETIME,
    updated_at DATETIME,
    deleted_at DATETIME,
    user_id TEXT NOT NULL,
    access_token TEXT NOT NULL UNIQUE,
    refresh_token TEXT NOT NULL UNIQUE,
    expires_at DATETIME
  )`,
  `CREATE TABLE project (
    id TEXT PRIMARY KEY,
    created_at DATETIME,
    updated_at DATETIME,
    deleted_at DATETIME,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT,
    system_prompt TEXT NOT NULL
  )`,
  `CREATE TABLE chat (
    id TEXT PRIMARY KEY,
    created_at DATETIME,
    updated_at DATETIME,
    deleted_at DATETIME,
    project_id TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT 'New Chat'
  )`,
  `CREATE TABLE message (
    id TEXT PRIMARY KEY,
    created_at DATETIME,
    updated_at DATETIME,
    deleted_at DATETIME,
    chat_id TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('user','assistant')),
    content TEXT NOT NULL,
    usage TEXT
  )`,
  `CREATE TABLE file (
    id TEXT PRIMARY KEY,
    created_at DATETIME,
    updated_at DATETIME,
    deleted_at DATETIME,
    project_id TEXT NOT NULL,
    name TEXT NOT NULL,
    size INTEGER NOT NULL,
    type TEXT,
    storage_path TEXT NOT NULL,
    openai_file_id TEXT
  )`,
}

// newTestDB opens a throwaway in-memory database with the same table and
// column layout the Postgres migrations produce, minus the Postgres-only
// column defaults. Every row the repos insert already carries its own id.
func newTestDB(t *testing.T) *gorm.DB {
  t.Helper()
  dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
  db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
  if err != nil {
    t.Fatalf("open test db: %v", err)
  }
  for _, stmt := range testSchema {
    if err := db.Exec(stmt).Error; err != nil {
      t.Fatalf("create test schema: %v", err)
    }
  }
  return db
}

func newTestLogger(t *testing.T) *logger.Logger {
  t.Helper()
  log, err := logger.New("production")
  if err != nil {
    t.Fatalf("new logger: %v", err)
  }
  return log
}

type testFixture struct {
  db          *gorm.DB
  log         *logger.Logger
  userRepo    repos.UserRepo
  projectRepo repos.ProjectRepo
  chatRepo    repos.ChatRepo
  messageRepo repos.MessageRepo
  fileRepo    repos.FileRepo
  user        *types.User
  project     *types.Project
}

// newTestFixture seeds one user with one project and hands back the repos.
func newTestFixture(t *testing.T) *testFixture {
  t.Helper()
  db := newTestDB(t)
  log := newTestLogger(t)
  f := &testFixture{
    db:          db,
    log:         log,
    userRepo:    repos.NewUserRepo(db, log),
    projectRepo: repos.NewProjectRepo(db, log),
    chatRepo:    repos.NewChatRepo(db, log),
    messageRepo: repos.NewMessageRepo(db, log),
    fileRepo:    repos.NewFileRepo(db, log),
  }
  ctx := context.Background()
  users, err := f.userRepo.Create(ctx, nil, []*types.User{{
    Email:    "owner@example.com",
    Password: "hashed",
  }})
  if err != nil {
    t.Fatalf("seed user: %v", err)
  }
  f.user = users[0]
  projects, err := f.projectRepo.Create(ctx, nil, []*types.Project{{
    UserID:       f.user.ID,
    Name:         "demo project",
    SystemPrompt: "You are a terse assistant.",
  }})
  if err != nil {
    t.Fatalf("seed project: %v", err)
  }
  f.project = projects[0]
  return f
}

// ctxFor builds a request context carrying the given user's identity.
func ctxFor(userID uuid.UUID) context.Context {
  return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
}

// fakeBucketService records object writes and deletes in memory.
type fakeBucketService struct {
  objects     map[string][]byte
  uploadErr   error
  deleteErr   error
  deletedKeys []string
}

func newFakeBucketService() *fakeBucketService {
  return &fakeBucketService{objects: map[string][]byte{}}
}

func (fb *fakeBucketService) UploadFile(ctx context.Context, key string, r io.Reader, contentType string) error {
  if fb.uploadErr != nil {
    return fb.uploadErr
  }
  data, err := io.ReadAll(r)
  if err != nil {
    return err
  }
  fb.objects[key] = data
  return nil
}

func (fb *fakeBucketService) DeleteFile(ctx context.Context, key string) error {
  fb.deletedKeys = append(fb.deletedKeys, key)
  if fb.deleteErr != nil {
    return fb.deleteErr
  }
  delete(fb.objects, key)
  return nil
}

func (fb *fakeBucketService) SignedURL(key string, expiry time.Duration) (string, error) {
  return "https://signed.example.com/" + key, nil
}

// fakeOpenAIService satisfies OpenAIService without any network calls.
type fakeOpenAIService struct {
  hasKey        bool
  completion    ChatCompletionResult
  completionErr error
  fileID        string
  uploadErr     error

  completionCalls [][]ChatCompletionMessage
  uploadCalls     int
}

func (fo *fakeOpenAIService) CreateChatCompletion(ctx context.Context, messages []ChatCompletionMessage) (ChatCompletionResult, error) {
  fo.completionCalls = append(fo.completionCalls, messages)
  if fo.completionErr != nil {
    return ChatCompletionResult{}, fo.completionErr
  }
  return fo.completion, nil
}

func (fo *fakeOpenAIService) UploadFile(ctx context.Context, filename, contentType string, data []byte) (string, error) {
  fo.uploadCalls++
  if fo.uploadErr != nil {
    return "", fo.uploadErr
  }
  return fo.fileID, nil
}

func (fo *fakeOpenAIService) HasAPIKey() bool {
  return fo.hasKey
}
