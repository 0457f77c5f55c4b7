package handlers

import (
  "bytes"
  "encoding/json"
  "errors"
  "mime/multipart"
  "net/http"
  "net/http/httptest"
  "strings"
  "testing"

  "github.com/gin-gonic/gin"
  "gorm.io/gorm"
)

func init() {
  gin.SetMode(gin.TestMode)
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
  var reader *strings.Reader
  if body == "" {
    reader = strings.NewReader("")
  } else {
    reader = strings.NewReader(body)
  }
  req := httptest.NewRequest(method, path, reader)
  if body != "" {
    req.Header.Set("Content-Type", "application/json")
  }
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)
  return w
}

func errorEnvelope(t *testing.T, w *httptest.ResponseRecorder) string {
  t.Helper()
  var body struct {
    Error string `json:"error"`
  }
  if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
    t.Fatalf("response is not an error envelope: %v (%s)", err, w.Body.String())
  }
  if body.Error == "" {
    t.Fatalf("error envelope is empty: %s", w.Body.String())
  }
  return body.Error
}

func TestErrorStatusMapping(t *testing.T) {
  if got := errorStatus(gorm.ErrRecordNotFound); got != http.StatusNotFound {
    t.Fatalf("record not found must map to 404, got %d", got)
  }
  if got := errorStatus(errors.New("boom")); got != http.StatusInternalServerError {
    t.Fatalf("unknown errors must map to 500, got %d", got)
  }
}

func TestCreateProjectRejectsBadInput(t *testing.T) {
  router := gin.New()
  handler := NewProjectHandler(nil)
  router.POST("/api/projects", handler.CreateProject)

  w := performRequest(router, http.MethodPost, "/api/projects", `not json`)
  if w.Code != http.StatusBadRequest {
    t.Fatalf("malformed body must yield 400, got %d", w.Code)
  }
  errorEnvelope(t, w)

  w = performRequest(router, http.MethodPost, "/api/projects", `{"description":"no name"}`)
  if w.Code != http.StatusBadRequest {
    t.Fatalf("missing name must yield 400, got %d", w.Code)
  }
  errorEnvelope(t, w)
}

func TestProjectRoutesRejectInvalidID(t *testing.T) {
  router := gin.New()
  handler := NewProjectHandler(nil)
  router.GET("/api/projects/:projectID", handler.GetProject)
  router.DELETE("/api/projects/:projectID", handler.DeleteProject)

  w := performRequest(router, http.MethodGet, "/api/projects/not-a-uuid", "")
  if w.Code != http.StatusBadRequest {
    t.Fatalf("invalid project id must yield 400, got %d", w.Code)
  }
  errorEnvelope(t, w)

  w = performRequest(router, http.MethodDelete, "/api/projects/42", "")
  if w.Code != http.StatusBadRequest {
    t.Fatalf("invalid project id must yield 400, got %d", w.Code)
  }
}

func TestChatRoutesRejectBadInput(t *testing.T) {
  router := gin.New()
  handler := NewChatHandler(nil)
  router.PATCH("/api/chats/:chatID", handler.RenameChat)
  router.POST("/api/chats/:chatID/messages", handler.AddUserMessage)

  w := performRequest(router, http.MethodPatch, "/api/chats/not-a-uuid", `{"title":"x"}`)
  if w.Code != http.StatusBadRequest {
    t.Fatalf("invalid chat id must yield 400, got %d", w.Code)
  }

  w = performRequest(router, http.MethodPatch, "/api/chats/7b0d7a67-92b5-4f53-a5a0-4d9a6428cf3e", `{"title":""}`)
  if w.Code != http.StatusBadRequest {
    t.Fatalf("blank title must yield 400, got %d", w.Code)
  }
  errorEnvelope(t, w)

  w = performRequest(router, http.MethodPost, "/api/chats/7b0d7a67-92b5-4f53-a5a0-4d9a6428cf3e/messages", `{"content":""}`)
  if w.Code != http.StatusBadRequest {
    t.Fatalf("blank content must yield 400, got %d", w.Code)
  }
}

func TestCompletionRejectsMissingFields(t *testing.T) {
  router := gin.New()
  handler := NewCompletionHandler(nil)
  router.POST("/api/completions", handler.Complete)

  w := performRequest(router, http.MethodPost, "/api/completions", `{"chatId":"x","projectId":"y"}`)
  if w.Code != http.StatusBadRequest {
    t.Fatalf("missing messages must yield 400, got %d", w.Code)
  }
  if got := errorEnvelope(t, w); got != "missing messages" {
    t.Fatalf("unexpected error %q", got)
  }

  w = performRequest(router, http.MethodPost, "/api/completions", `{"messages":[{"role":"user","content":"hi"}]}`)
  if w.Code != http.StatusBadRequest {
    t.Fatalf("missing ids must yield 400, got %d", w.Code)
  }
  if got := errorEnvelope(t, w); got != "missing chatId or projectId" {
    t.Fatalf("unexpected error %q", got)
  }

  w = performRequest(router, http.MethodPost, "/api/completions", `{"messages":[{"role":"user","content":"hi"}],"chatId":"bad","projectId":"7b0d7a67-92b5-4f53-a5a0-4d9a6428cf3e"}`)
  if w.Code != http.StatusBadRequest {
    t.Fatalf("invalid chat id must yield 400, got %d", w.Code)
  }
}

func TestUploadRejectsMissingParts(t *testing.T) {
  router := gin.New()
  handler := NewUploadHandler(nil)
  router.POST("/api/uploads", handler.Upload)

  req := httptest.NewRequest(http.MethodPost, "/api/uploads", strings.NewReader(""))
  req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)
  if w.Code != http.StatusBadRequest {
    t.Fatalf("missing projectId must yield 400, got %d", w.Code)
  }
  if got := errorEnvelope(t, w); got != "missing projectId" {
    t.Fatalf("unexpected error %q", got)
  }

  var body bytes.Buffer
  writer := multipart.NewWriter(&body)
  writer.WriteField("projectId", "7b0d7a67-92b5-4f53-a5a0-4d9a6428cf3e")
  writer.Close()
  req = httptest.NewRequest(http.MethodPost, "/api/uploads", &body)
  req.Header.Set("Content-Type", writer.FormDataContentType())
  w = httptest.NewRecorder()
  router.ServeHTTP(w, req)
  if w.Code != http.StatusBadRequest {
    t.Fatalf("missing file part must yield 400, got %d", w.Code)
  }
  if got := errorEnvelope(t, w); got != "missing file" {
    t.Fatalf("unexpected error %q", got)
  }
}
