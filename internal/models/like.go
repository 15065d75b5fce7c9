package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TargetType discriminates the two kinds of rows a Like may point at.
type TargetType string

// Like target kinds.
const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
)

// ValidTargetType reports whether t is a known like target kind.
func ValidTargetType(t TargetType) bool {
	return t == TargetPost || t == TargetComment
}

// LikeTarget is a tagged reference to either a post or a comment. It is
// resolved through an explicit lookup per variant, never a database foreign
// key, because the two target tables are unrelated.
type LikeTarget struct {
	Type TargetType
	ID   uuid.UUID
}

// PostTarget returns a LikeTarget pointing at a post.
func PostTarget(id uuid.UUID) LikeTarget {
	return LikeTarget{Type: TargetPost, ID: id}
}

// CommentTarget returns a LikeTarget pointing at a comment.
func CommentTarget(id uuid.UUID) LikeTarget {
	return LikeTarget{Type: TargetComment, ID: id}
}

// Like is one row of the engagement ledger. A user may like a given target at
// most once; un-liking hard-deletes the row, so the model carries no
// soft-delete column.
type Like struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_target" json:"user_id"`
	TargetID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_target;index:idx_likes_target" json:"target_id"`
	TargetType TargetType `gorm:"size:20;not null;uniqueIndex:idx_likes_user_target;index:idx_likes_target" json:"target_type"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (l *Like) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Target returns the tagged reference stored on the ledger row.
func (l *Like) Target() LikeTarget {
	return LikeTarget{Type: l.TargetType, ID: l.TargetID}
}
