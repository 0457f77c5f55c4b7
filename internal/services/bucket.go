package services

import (
  "context"
  "fmt"
  "io"
  "time"

  "cloud.google.com/go/storage"
  "google.golang.org/api/option"

  "github.com/promptdeck/promptdeck-backend/internal/logger"
  "github.com/promptdeck/promptdeck-backend/internal/utils"
)

// BucketService fronts the private object bucket backing project files and
// user avatars.
type BucketService interface {
  UploadFile(ctx context.Context, key string, r io.Reader, contentType string) error
  DeleteFile(ctx context.Context, key string) error
  SignedURL(key string, expiry time.Duration) (string, error)
}

type bucketService struct {
  log        *logger.Logger
  client     *storage.Client
  bucketName string
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
  serviceLog := log.With("service", "BucketService")
  bucketName := utils.GetEnv("GCS_BUCKET_NAME", "project-files", log)
  credsFile := utils.GetEnv("GCS_CREDENTIALS_FILE", "", log)

  ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
  defer cancel()

  var opts []option.ClientOption
  if credsFile != "" {
    opts = append(opts, option.WithCredentialsFile(credsFile))
  }
  client, err := storage.NewClient(ctx, opts...)
  if err != nil {
    serviceLog.Error("Failed to create GCS client", "error", err)
    return nil, fmt.Errorf("Failed to create GCS client: %w", err)
  }
  serviceLog.Info("Bucket Service ready :)", "bucket", bucketName)
  return &bucketService{log: serviceLog, client: client, bucketName: bucketName}, nil
}

func (bs *bucketService) UploadFile(ctx context.Context, key string, r io.Reader, contentType string) error {
  w := bs.client.Bucket(bs.bucketName).Object(key).NewWriter(ctx)
  if contentType != "" {
    w.ContentType = contentType
  }
  if _, err := io.Copy(w, r); err != nil {
    w.Close()
    bs.log.Error("Failed to write object to bucket", "error", err, "key", key)
    return fmt.Errorf("Failed to write object '%s' to bucket: %w", key, err)
  }
  if err := w.Close(); err != nil {
    bs.log.Error("Failed to finalize object write", "error", err, "key", key)
    return fmt.Errorf("Failed to finalize object '%s' write: %w", key, err)
  }
  return nil
}

func (bs *bucketService) DeleteFile(ctx context.Context, key string) error {
  if err := bs.client.Bucket(bs.bucketName).Object(key).Delete(ctx); err != nil {
    bs.log.Error("Failed to delete object from bucket", "error", err, "key", key)
    return fmt.Errorf("Failed to delete object '%s' from bucket: %w", key, err)
  }
  return nil
}

func (bs *bucketService) SignedURL(key string, expiry time.Duration) (string, error) {
  url, err := bs.client.Bucket(bs.bucketName).SignedURL(key, &storage.SignedURLOptions{
    Method:  "GET",
    Expires: time.Now().Add(expiry),
    Scheme:  storage.SigningSchemeV4,
  })
  if err != nil {
    bs.log.Error("Failed to sign object URL", "error", err, "key", key)
    return "", fmt.Errorf("Failed to sign URL for object '%s': %w", key, err)
  }
  return url, nil
}
