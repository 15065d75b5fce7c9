package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups posts of a given type.
type Category struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description,omitempty"`
	PostType     string    `gorm:"size:20;not null;index" json:"post_type"`
	Color        string    `gorm:"size:7" json:"color,omitempty"`
	Icon         string    `gorm:"size:50" json:"icon,omitempty"`
	DisplayOrder int       `gorm:"not null;default:0" json:"order"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
