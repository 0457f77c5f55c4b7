package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

type Chat struct {
  gorm.Model
  ID            uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  ProjectID     uuid.UUID         `gorm:"index;not null" json:"projectID"`
  Project       *Project          `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"-"`

  Title         string            `gorm:"not null;default:'New Chat';column:title" json:"title"`

  CreatedAt     time.Time         `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt     time.Time         `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Chat) TableName() string {
  return "chat"
}
