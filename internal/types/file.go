package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

type File struct {
  gorm.Model
  ID            uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  ProjectID     uuid.UUID         `gorm:"index;not null" json:"projectID"`
  Project       *Project          `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"-"`

  Name          string            `gorm:"not null;column:name" json:"name"`
  Size          int64             `gorm:"not null;column:size" json:"size"`
  Type          string            `gorm:"column:type" json:"type"`
  StoragePath   string            `gorm:"not null;column:storage_path" json:"storagePath"`
  OpenAIFileID  *string           `gorm:"column:openai_file_id" json:"openaiFileID,omitempty"`

  CreatedAt     time.Time         `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt     time.Time         `gorm:"not null;default:now()" json:"updatedAt"`
}

func (File) TableName() string {
  return "file"
}
