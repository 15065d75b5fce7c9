package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Development record types.
const (
	RecordTypeDevelopment = "development_record"
	RecordTypeMilestone   = "milestone_achievement"
	RecordTypeObservation = "observation"
	RecordTypeConcern     = "concern"
)

// Age groups shared by records and milestones.
var AgeGroups = []string{
	"0-3months", "3-6months", "6-9months", "9-12months",
	"12-18months", "18-24months", "24-36months", "36-48months",
	"48-60months", "60months+",
}

// Development areas shared by records and milestones.
var DevelopmentAreas = []string{
	"physical", "cognitive", "language", "social", "emotional", "self_care",
}

// ValidAgeGroup reports whether g is a known age group.
func ValidAgeGroup(g string) bool {
	for _, v := range AgeGroups {
		if v == g {
			return true
		}
	}
	return false
}

// ValidDevelopmentArea reports whether a is a known development area.
func ValidDevelopmentArea(a string) bool {
	for _, v := range DevelopmentAreas {
		if v == a {
			return true
		}
	}
	return false
}

// DevelopmentRecord is a dated observation about one child.
type DevelopmentRecord struct {
	ID              uuid.UUID                `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID                `gorm:"type:uuid;not null;index" json:"user_id"`
	ChildID         uuid.UUID                `gorm:"type:uuid;not null;index" json:"child_id"`
	Child           UserChild                `gorm:"foreignKey:ChildID" json:"child,omitempty"`
	Date            time.Time                `gorm:"not null;index" json:"date"`
	AgeGroup        string                   `gorm:"size:50;not null" json:"age_group"`
	DevelopmentArea string                   `gorm:"size:50" json:"development_area,omitempty"`
	Title           string                   `gorm:"size:200;not null" json:"title"`
	Description     string                   `gorm:"type:text;not null" json:"description"`
	RecordType      string                   `gorm:"size:50;not null;default:'development_record'" json:"record_type"`
	Images          []DevelopmentRecordImage `gorm:"foreignKey:RecordID" json:"images,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
	DeletedAt       gorm.DeletedAt           `gorm:"index" json:"-"`
}

func (r *DevelopmentRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// DevelopmentRecordImage is an ordered image attachment on a record.
type DevelopmentRecordImage struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RecordID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"record_id"`
	ImageURL  string         `gorm:"size:500;not null" json:"image_url"`
	Position  int            `gorm:"not null;default:0" json:"order"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (i *DevelopmentRecordImage) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// DevelopmentMilestone is a catalog entry describing an expected ability for
// an age group and development area.
type DevelopmentMilestone struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AgeGroup        string    `gorm:"size:50;not null;index" json:"age_group"`
	DevelopmentArea string    `gorm:"size:50;not null;index" json:"development_area"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	DisplayOrder    int       `gorm:"not null;default:0" json:"order"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (m *DevelopmentMilestone) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ChildMilestone marks a milestone as achieved by one child. A milestone can
// be achieved at most once per child.
type ChildMilestone struct {
	ID           uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	ChildID      uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_child_milestone" json:"child_id"`
	MilestoneID  uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_child_milestone" json:"milestone_id"`
	Milestone    DevelopmentMilestone `gorm:"foreignKey:MilestoneID" json:"milestone,omitempty"`
	AchievedDate time.Time            `gorm:"not null" json:"achieved_date"`
	Notes        string               `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func (m *ChildMilestone) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
