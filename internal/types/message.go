package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
)

const (
  MessageRoleUser      = "user"
  MessageRoleAssistant = "assistant"
)

// Message rows are append-only: MessageRepo exposes create and list only.
type Message struct {
  gorm.Model
  ID            uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  ChatID        uuid.UUID         `gorm:"index;not null" json:"chatID"`
  Chat          *Chat             `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChatID;references:ID" json:"-"`

  Role          string            `gorm:"not null;check:role IN ('user','assistant');column:role" json:"role"`
  Content       string            `gorm:"type:text;not null;column:content" json:"content"`
  Usage         datatypes.JSON    `gorm:"column:usage" json:"usage,omitempty"`

  CreatedAt     time.Time         `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt     time.Time         `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Message) TableName() string {
  return "message"
}
