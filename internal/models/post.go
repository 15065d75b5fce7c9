package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post type tags.
const (
	PostTypeQuestion = "question"
	PostTypeStory    = "story"
	PostTypeTip      = "tip"
)

// Post status values.
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusHidden    = "hidden"
)

// ValidPostType reports whether t is a known post type tag.
func ValidPostType(t string) bool {
	return t == PostTypeQuestion || t == PostTypeStory || t == PostTypeTip
}

// ValidPostStatus reports whether s is a known post status.
func ValidPostStatus(s string) bool {
	return s == PostStatusDraft || s == PostStatusPublished || s == PostStatusHidden
}

// Post is a community post. The view/like/comment counters are denormalized
// columns; like_count and comment_count are always rewritten from a full
// recount of their source tables, never incremented.
type Post struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User         User           `gorm:"foreignKey:UserID" json:"user"`
	CategoryID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"category_id"`
	Category     Category       `gorm:"foreignKey:CategoryID" json:"category"`
	PostType     string         `gorm:"size:20;not null;index" json:"post_type"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Content      string         `gorm:"type:text;not null" json:"content"`
	Status       string         `gorm:"size:20;not null;default:'published';index" json:"status"`
	ViewCount    int            `gorm:"not null;default:0" json:"view_count"`
	LikeCount    int            `gorm:"not null;default:0" json:"like_count"`
	CommentCount int            `gorm:"not null;default:0" json:"comment_count"`
	IsAnonymous  bool           `gorm:"not null;default:false" json:"is_anonymous"`
	IsSolved     *bool          `json:"is_solved,omitempty"`
	IsPinned     bool           `gorm:"not null;default:false;index" json:"is_pinned"`
	Images       []PostImage    `gorm:"foreignKey:PostID" json:"images,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PostImage is an ordered image attachment on a post.
type PostImage struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"post_id"`
	ImageURL  string         `gorm:"size:500;not null" json:"image_url"`
	AltText   string         `gorm:"size:255" json:"alt_text,omitempty"`
	Position  int            `gorm:"not null;default:0" json:"order"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (i *PostImage) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
