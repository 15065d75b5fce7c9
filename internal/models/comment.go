package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment depth values. Only one level of nesting is modeled: a comment is
// either top-level (depth 0, no parent) or a reply to a top-level comment
// (depth 1). Replies to replies are rejected at the write path.
const (
	DepthTopLevel = 0
	DepthReply    = 1
)

// Comment is a comment on a post, optionally a reply to a top-level comment.
type Comment struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"user"`
	PostID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"post_id"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	LikeCount   int            `gorm:"not null;default:0" json:"like_count"`
	IsAnonymous bool           `gorm:"not null;default:false" json:"is_anonymous"`
	ParentID    *uuid.UUID     `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Depth       int            `gorm:"not null;default:0" json:"depth"`
	Replies     []Comment      `gorm:"foreignKey:ParentID" json:"replies"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsTopLevel reports whether the comment can carry replies.
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}
