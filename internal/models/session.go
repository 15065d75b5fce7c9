package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is a persisted login session. The API itself is authenticated with
// stateless JWTs; session rows track devices and allow server-side revocation.
type Session struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User       User            `gorm:"foreignKey:UserID" json:"-"`
	Token      string          `gorm:"size:255;uniqueIndex;not null" json:"token"`
	DeviceInfo json.RawMessage `gorm:"type:json" json:"device_info,omitempty"`
	IPAddress  string          `gorm:"size:45" json:"ip_address,omitempty"`
	ExpiresAt  time.Time       `gorm:"not null;index" json:"expires_at"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (s *Session) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsExpired reports whether the session has passed its expiry instant.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
