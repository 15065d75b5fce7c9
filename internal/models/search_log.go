package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Search type tags for SearchLog.SearchType.
const (
	SearchTypeAll        = "all"
	SearchTypePosts      = "posts"
	SearchTypeMilestones = "milestones"
	SearchTypeRecords    = "records"
)

// SearchLog records a search request for analytics. The user reference is
// nullable so logs survive account deletion.
type SearchLog struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Query        string     `gorm:"size:255;not null" json:"query"`
	SearchType   string     `gorm:"size:50;not null;default:'all'" json:"search_type"`
	ResultsCount int        `gorm:"not null;default:0" json:"results_count"`
	IPAddress    string     `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent    string     `gorm:"type:text" json:"user_agent,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
}

func (l *SearchLog) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
