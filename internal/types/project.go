package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

const DefaultSystemPrompt = "You are a helpful assistant."

type Project struct {
  gorm.Model
  ID            uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID        uuid.UUID         `gorm:"index;not null" json:"userID"`
  User          *User             `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`

  Name          string            `gorm:"not null;column:name" json:"name"`
  Description   string            `gorm:"column:description" json:"description"`
  SystemPrompt  string            `gorm:"type:text;not null;column:system_prompt" json:"systemPrompt"`

  CreatedAt     time.Time         `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt     time.Time         `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Project) TableName() string {
  return "project"
}
