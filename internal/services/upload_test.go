package services

import (
  "bytes"
  "context"
  "errors"
  "strings"
  "testing"

  "gorm.io/gorm"

  "github.com/promptdeck/promptdeck-backend/internal/types"
)

func TestUploadStoresObjectAndMetadata(t *testing.T) {
  f := newTestFixture(t)
  bucket := newFakeBucketService()
  fakeOpenAI := &fakeOpenAIService{hasKey: false}
  svc := NewUploadService(f.db, f.log, f.projectRepo, f.fileRepo, bucket, fakeOpenAI)

  payload := bytes.Repeat([]byte("a"), 5*1024)
  result, err := svc.Upload(ctxFor(f.user.ID), f.project.ID, "notes.txt", "text/plain", bytes.NewReader(payload))
  if err != nil {
    t.Fatalf("upload: %v", err)
  }
  file := result.File
  if file.Size != int64(len(payload)) {
    t.Fatalf("size mismatch: got %d want %d", file.Size, len(payload))
  }
  if file.Type != "text/plain" || file.Name != "notes.txt" {
    t.Fatalf("metadata mismatch: type=%q name=%q", file.Type, file.Name)
  }
  if !strings.HasPrefix(file.StoragePath, f.user.ID.String()+"/") {
    t.Fatalf("storage path must start with the owner id, got %q", file.StoragePath)
  }
  if !strings.HasSuffix(file.StoragePath, ".txt") {
    t.Fatalf("storage path should keep the original extension, got %q", file.StoragePath)
  }
  if _, ok := bucket.objects[file.StoragePath]; !ok {
    t.Fatalf("object was not written to the bucket")
  }
  if result.OpenAIFileID != nil {
    t.Fatalf("no mirror id expected without an API key")
  }
  if fakeOpenAI.uploadCalls != 0 {
    t.Fatalf("mirror must not be attempted without an API key")
  }
  stored, err := f.fileRepo.GetByIDForUser(context.Background(), nil, file.ID, f.user.ID)
  if err != nil {
    t.Fatalf("fetch stored file: %v", err)
  }
  if stored.StoragePath != file.StoragePath {
    t.Fatalf("stored row mismatch")
  }
}

func TestUploadMirrorsSmallFilesExactlyOnce(t *testing.T) {
  f := newTestFixture(t)
  bucket := newFakeBucketService()
  fakeOpenAI := &fakeOpenAIService{hasKey: true, fileID: "file-abc123"}
  svc := NewUploadService(f.db, f.log, f.projectRepo, f.fileRepo, bucket, fakeOpenAI)

  result, err := svc.Upload(ctxFor(f.user.ID), f.project.ID, "small.pdf", "application/pdf", strings.NewReader("pdf bytes"))
  if err != nil {
    t.Fatalf("upload: %v", err)
  }
  if fakeOpenAI.uploadCalls != 1 {
    t.Fatalf("expected exactly one mirror call, got %d", fakeOpenAI.uploadCalls)
  }
  if result.OpenAIFileID == nil || *result.OpenAIFileID != "file-abc123" {
    t.Fatalf("mirror id not returned")
  }
  stored, err := f.fileRepo.GetByIDForUser(context.Background(), nil, result.File.ID, f.user.ID)
  if err != nil {
    t.Fatalf("fetch stored file: %v", err)
  }
  if stored.OpenAIFileID == nil || *stored.OpenAIFileID != "file-abc123" {
    t.Fatalf("mirror id not persisted on the row")
  }
}

func TestUploadSkipsMirrorAboveSizeLimit(t *testing.T) {
  f := newTestFixture(t)
  bucket := newFakeBucketService()
  fakeOpenAI := &fakeOpenAIService{hasKey: true, fileID: "file-nope"}
  svc := NewUploadService(f.db, f.log, f.projectRepo, f.fileRepo, bucket, fakeOpenAI)

  payload := bytes.Repeat([]byte("b"), MirrorSizeLimit+1)
  result, err := svc.Upload(ctxFor(f.user.ID), f.project.ID, "huge.bin", "application/octet-stream", bytes.NewReader(payload))
  if err != nil {
    t.Fatalf("upload: %v", err)
  }
  if fakeOpenAI.uploadCalls != 0 {
    t.Fatalf("oversize file must not be mirrored")
  }
  if result.OpenAIFileID != nil {
    t.Fatalf("no mirror id expected for an oversize file")
  }
  if _, ok := bucket.objects[result.File.StoragePath]; !ok {
    t.Fatalf("oversize file must still land in the bucket")
  }
}

func TestUploadMirrorFailureIsSwallowed(t *testing.T) {
  f := newTestFixture(t)
  bucket := newFakeBucketService()
  fakeOpenAI := &fakeOpenAIService{hasKey: true, uploadErr: errors.New("OpenAI API error: 500 boom")}
  svc := NewUploadService(f.db, f.log, f.projectRepo, f.fileRepo, bucket, fakeOpenAI)

  result, err := svc.Upload(ctxFor(f.user.ID), f.project.ID, "doc.txt", "text/plain", strings.NewReader("content"))
  if err != nil {
    t.Fatalf("mirror failure must not fail the upload: %v", err)
  }
  if result.OpenAIFileID != nil {
    t.Fatalf("failed mirror must leave the mirror id empty")
  }
}

func TestUploadCompensatesOnMetadataFailure(t *testing.T) {
  f := newTestFixture(t)
  bucket := newFakeBucketService()
  svc := NewUploadService(f.db, f.log, f.projectRepo, f.fileRepo, bucket, &fakeOpenAIService{})

  // Make the metadata insert fail after the object write.
  if err := f.db.Exec(`DROP TABLE file`).Error; err != nil {
    t.Fatalf("drop file table: %v", err)
  }
  _, err := svc.Upload(ctxFor(f.user.ID), f.project.ID, "doc.txt", "text/plain", strings.NewReader("content"))
  if err == nil {
    t.Fatalf("expected metadata insert failure to surface")
  }
  if len(bucket.deletedKeys) != 1 {
    t.Fatalf("expected a compensating object delete, got %d deletes", len(bucket.deletedKeys))
  }
  if len(bucket.objects) != 0 {
    t.Fatalf("orphaned object left in the bucket")
  }
}

func TestUploadRejectsForeignProject(t *testing.T) {
  f := newTestFixture(t)
  bucket := newFakeBucketService()
  svc := NewUploadService(f.db, f.log, f.projectRepo, f.fileRepo, bucket, &fakeOpenAIService{})

  stranger, err := f.userRepo.Create(context.Background(), nil, []*types.User{{
    Email:    "stranger@example.com",
    Password: "hashed",
  }})
  if err != nil {
    t.Fatalf("seed stranger: %v", err)
  }
  _, err = svc.Upload(ctxFor(stranger[0].ID), f.project.ID, "doc.txt", "text/plain", strings.NewReader("content"))
  if !errors.Is(err, gorm.ErrRecordNotFound) {
    t.Fatalf("expected record not found for a foreign project, got %v", err)
  }
  if len(bucket.objects) != 0 {
    t.Fatalf("nothing may be written for a foreign project")
  }
}
