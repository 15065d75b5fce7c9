// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth provider tags for User.AuthProvider.
const (
	AuthProviderLocal  = "local"
	AuthProviderGoogle = "google"
	AuthProviderKakao  = "kakao"
	AuthProviderNaver  = "naver"
)

// User represents an account in the Mafather application.
type User struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password       string         `gorm:"size:255;not null" json:"-"`
	Name           string         `gorm:"size:100;not null" json:"name"`
	ProfileImage   string         `gorm:"size:500" json:"profile_image,omitempty"`
	AuthProvider   string         `gorm:"size:20;not null;default:'local';index:idx_users_provider" json:"auth_provider"`
	AuthProviderID string         `gorm:"size:255;index:idx_users_provider" json:"-"`
	LastLogin      *time.Time     `json:"last_login,omitempty"`
	IsActive       bool           `gorm:"not null;default:true;index" json:"is_active"`
	IsStaff        bool           `gorm:"not null;default:false" json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Children       []UserChild    `gorm:"foreignKey:UserID" json:"children,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserChild is a child profile attached to a user account.
type UserChild struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	BirthDate time.Time      `gorm:"not null" json:"birth_date"`
	Gender    string         `gorm:"size:10" json:"gender,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *UserChild) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName overrides the default pluralization.
func (UserChild) TableName() string { return "user_children" }

// AgeMonths returns the child's approximate age in months.
func (c *UserChild) AgeMonths(now time.Time) int {
	days := int(now.Sub(c.BirthDate).Hours() / 24)
	return days / 30
}
