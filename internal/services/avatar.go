package services

import (
  "bytes"
  "context"
  "fmt"
  "image/color"
  "io/ioutil"
  "strings"
  "time"

  "github.com/disintegration/imaging"
  "github.com/fogleman/gg"
  "github.com/golang/freetype/truetype"
  "golang.org/x/image/font"
  "gorm.io/gorm"

  "github.com/promptdeck/promptdeck-backend/internal/logger"
  "github.com/promptdeck/promptdeck-backend/internal/types"
  "github.com/promptdeck/promptdeck-backend/internal/utils"
)

// AvatarService renders an initials avatar for a new user and uploads it
// through the BucketService.
type AvatarService interface {
  CreateAndUploadUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error
  GenerateUserAvatar(ctx context.Context, user *types.User) (bytes.Buffer, error)
}

type avatarService struct {
  log           *logger.Logger
  bucketService BucketService
  bgColors      []color.NRGBA
  fontFace      font.Face
}

var avatarPalette = []color.NRGBA{
  {R: 0x4C, G: 0x6E, B: 0xF5, A: 0xFF},
  {R: 0x12, G: 0xB8, B: 0x86, A: 0xFF},
  {R: 0xF5, G: 0x9F, B: 0x00, A: 0xFF},
  {R: 0xE6, G: 0x49, B: 0x80, A: 0xFF},
  {R: 0x84, G: 0x5E, B: 0xF7, A: 0xFF},
  {R: 0x22, G: 0xB8, B: 0xCF, A: 0xFF},
}

func NewAvatarService(log *logger.Logger, bucketService BucketService) (AvatarService, error) {
  serviceLog := log.With("service", "AvatarService")

  if bucketService == nil {
    return nil, fmt.Errorf("avatar service requires a bucket service")
  }
  fontPath := utils.GetEnv("AVATAR_FONT", "", log)
  if fontPath == "" {
    return nil, fmt.Errorf("env var AVATAR_FONT is empty")
  }
  serviceLog.Info("Loading avatar font from TTF file", "font", fontPath)
  face, err := loadFontFace(fontPath, 206)
  if err != nil {
    return nil, fmt.Errorf("could not load avatar font: %w", err)
  }

  return &avatarService{
    log:           serviceLog,
    bucketService: bucketService,
    bgColors:      avatarPalette,
    fontFace:      face,
  }, nil
}

func (as *avatarService) CreateAndUploadUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error {
  buf, err := as.GenerateUserAvatar(ctx, user)
  if err != nil {
    return err
  }
  bucketKey := fmt.Sprintf("user_avatars/%s.png", user.ID.String())
  if err := as.bucketService.UploadFile(ctx, bucketKey, bytes.NewReader(buf.Bytes()), "image/png"); err != nil {
    return fmt.Errorf("Failed to upload user avatar: %w", err)
  }
  user.AvatarBucketKey = bucketKey
  finalURL, err := as.bucketService.SignedURL(bucketKey, 7*24*time.Hour)
  if err != nil {
    return fmt.Errorf("Failed to sign user avatar URL: %w", err)
  }
  user.AvatarURL = finalURL
  return nil
}

func (as *avatarService) GenerateUserAvatar(ctx context.Context, user *types.User) (bytes.Buffer, error) {
  const size = 512
  var out bytes.Buffer

  //1) Create drawing context with a background color picked by user id
  dc := gg.NewContext(size, size)
  bg := as.bgColors[int(user.ID[0])%len(as.bgColors)]
  dc.SetColor(bg)
  dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
  dc.Fill()

  //2) Draw the user's initials centered
  initials := userInitials(user.DisplayName, user.Email)
  dc.SetFontFace(as.fontFace)
  dc.SetRGB(1, 1, 1)
  dc.DrawStringAnchored(initials, float64(size)/2, float64(size)/2, 0.5, 0.5)

  //3) Downscale and encode
  img := imaging.Resize(dc.Image(), 256, 256, imaging.Lanczos)
  if err := imaging.Encode(&out, img, imaging.PNG); err != nil {
    as.log.Error("Failed to encode user avatar", "error", err)
    return out, fmt.Errorf("Failed to encode user avatar: %w", err)
  }
  return out, nil
}

func userInitials(displayName, email string) string {
  fields := strings.Fields(strings.TrimSpace(displayName))
  switch {
  case len(fields) >= 2:
    return strings.ToUpper(string([]rune(fields[0])[0]) + string([]rune(fields[1])[0]))
  case len(fields) == 1:
    return strings.ToUpper(string([]rune(fields[0])[0]))
  case email != "":
    return strings.ToUpper(string([]rune(email)[0]))
  }
  return "?"
}

func loadFontFace(path string, points float64) (font.Face, error) {
  fontBytes, err := ioutil.ReadFile(path)
  if err != nil {
    return nil, fmt.Errorf("Failed reading font file: %w", err)
  }
  f, err := truetype.Parse(fontBytes)
  if err != nil {
    return nil, fmt.Errorf("Failed parsing font file: %w", err)
  }
  return truetype.NewFace(f, &truetype.Options{Size: points}), nil
}
