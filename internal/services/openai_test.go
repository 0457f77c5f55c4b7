package services

import (
  "context"
  "encoding/json"
  "net/http"
  "net/http/httptest"
  "testing"
)

func newOpenAIServiceForTest(t *testing.T, baseURL string) OpenAIService {
  t.Helper()
  t.Setenv("OPENAI_BASE_URL", baseURL)
  t.Setenv("OPENAI_API_KEY", "sk-test")
  t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
  svc, err := NewOpenAIService(newTestLogger(t))
  if err != nil {
    t.Fatalf("new openai service: %v", err)
  }
  return svc
}

func TestCreateChatCompletion(t *testing.T) {
  var captured chatCompletionRequest
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    if r.URL.Path != "/chat/completions" {
      t.Errorf("unexpected path %q", r.URL.Path)
    }
    if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
      t.Errorf("unexpected auth header %q", got)
    }
    if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
      t.Errorf("decode request: %v", err)
    }
    w.Header().Set("Content-Type", "application/json")
    w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi there"}}],"usage":{"total_tokens":9}}`))
  }))
  defer server.Close()

  svc := newOpenAIServiceForTest(t, server.URL)
  result, err := svc.CreateChatCompletion(context.Background(), []ChatCompletionMessage{
    {Role: "system", Content: "be brief"},
    {Role: "user", Content: "hello"},
  })
  if err != nil {
    t.Fatalf("create chat completion: %v", err)
  }
  if result.Content != "hi there" {
    t.Fatalf("unexpected content %q", result.Content)
  }
  if string(result.Usage) != `{"total_tokens":9}` {
    t.Fatalf("usage not passed through, got %s", result.Usage)
  }
  if captured.Model != "gpt-4o-mini" {
    t.Fatalf("unexpected model %q", captured.Model)
  }
  if captured.Temperature != completionTemperature || captured.MaxTokens != completionMaxTokens {
    t.Fatalf("sampling parameters not applied: temp=%v maxTokens=%d", captured.Temperature, captured.MaxTokens)
  }
  if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
    t.Fatalf("messages not forwarded in order")
  }
}

func TestCreateChatCompletionUpstreamError(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    w.WriteHeader(http.StatusTooManyRequests)
    w.Write([]byte("rate limited"))
  }))
  defer server.Close()

  svc := newOpenAIServiceForTest(t, server.URL)
  _, err := svc.CreateChatCompletion(context.Background(), []ChatCompletionMessage{{Role: "user", Content: "hello"}})
  if err == nil {
    t.Fatalf("expected error for non-2xx response")
  }
  want := "OpenAI API error: 429 rate limited"
  if err.Error() != want {
    t.Fatalf("error format mismatch: got %q want %q", err.Error(), want)
  }
}

func TestUploadFileMultipart(t *testing.T) {
  server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    if r.URL.Path != "/files" {
      t.Errorf("unexpected path %q", r.URL.Path)
    }
    if err := r.ParseMultipartForm(1 << 20); err != nil {
      t.Errorf("parse multipart: %v", err)
    }
    if purpose := r.FormValue("purpose"); purpose != "assistants" {
      t.Errorf("unexpected purpose %q", purpose)
    }
    file, header, err := r.FormFile("file")
    if err != nil {
      t.Errorf("missing file part: %v", err)
    } else {
      file.Close()
      if header.Filename != "doc.txt" {
        t.Errorf("unexpected filename %q", header.Filename)
      }
    }
    w.Header().Set("Content-Type", "application/json")
    w.Write([]byte(`{"id":"file-xyz789","object":"file"}`))
  }))
  defer server.Close()

  svc := newOpenAIServiceForTest(t, server.URL)
  id, err := svc.UploadFile(context.Background(), "doc.txt", "text/plain", []byte("hello"))
  if err != nil {
    t.Fatalf("upload file: %v", err)
  }
  if id != "file-xyz789" {
    t.Fatalf("unexpected file id %q", id)
  }
}

func TestHasAPIKey(t *testing.T) {
  t.Setenv("OPENAI_BASE_URL", "http://localhost:0")
  t.Setenv("OPENAI_API_KEY", "")
  svc, err := NewOpenAIService(newTestLogger(t))
  if err != nil {
    t.Fatalf("new openai service: %v", err)
  }
  if svc.HasAPIKey() {
    t.Fatalf("expected no API key")
  }
}
