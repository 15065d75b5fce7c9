package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat session status values. Completed and expired are terminal.
const (
	ChatStatusActive    = "active"
	ChatStatusCompleted = "completed"
	ChatStatusExpired   = "expired"
)

// Chat counsel categories.
const (
	ChatCategoryGeneral     = "general"
	ChatCategoryDevelopment = "development"
	ChatCategoryHealth      = "health"
	ChatCategoryBehavior    = "behavior"
	ChatCategoryNutrition   = "nutrition"
	ChatCategoryEducation   = "education"
	ChatCategorySleep       = "sleep"
	ChatCategoryEmergency   = "emergency"
)

// ValidChatCategory reports whether c is a known counsel category.
func ValidChatCategory(c string) bool {
	switch c {
	case ChatCategoryGeneral, ChatCategoryDevelopment, ChatCategoryHealth,
		ChatCategoryBehavior, ChatCategoryNutrition, ChatCategoryEducation,
		ChatCategorySleep, ChatCategoryEmergency:
		return true
	}
	return false
}

// ChatSession is one chatbot conversation. TotalTokens is a running sum
// maintained as messages are appended.
type ChatSession struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User          User           `gorm:"foreignKey:UserID" json:"-"`
	Title         string         `gorm:"size:200;not null" json:"title"`
	Category      string         `gorm:"size:50;not null" json:"category"`
	SessionToken  string         `gorm:"size:255" json:"-"`
	TotalTokens   int            `gorm:"not null;default:0" json:"total_tokens"`
	Status        string         `gorm:"size:20;not null;default:'active';index" json:"status"`
	LastMessageAt *time.Time     `json:"last_message_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Messages      []ChatMessage  `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
}

func (s *ChatSession) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsActive reports whether the session still accepts messages.
func (s *ChatSession) IsActive() bool {
	return s.Status == ChatStatusActive
}

// DurationMinutes returns the session length from creation to last message.
func (s *ChatSession) DurationMinutes() float64 {
	if s.LastMessageAt == nil {
		return 0
	}
	return s.LastMessageAt.Sub(s.CreatedAt).Minutes()
}

// Chat message roles.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
	ChatRoleSystem    = "system"
)

// ValidChatRole reports whether r is a known message role.
func ValidChatRole(r string) bool {
	return r == ChatRoleUser || r == ChatRoleAssistant || r == ChatRoleSystem
}

// ChatMessage is one message in a chat session.
type ChatMessage struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"session_id"`
	Role      string          `gorm:"size:20;not null" json:"role"`
	Content   string          `gorm:"type:text;not null" json:"content"`
	Tokens    int             `gorm:"not null;default:0" json:"tokens"`
	Metadata  json.RawMessage `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
}

func (m *ChatMessage) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
