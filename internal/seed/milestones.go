package seed

import (
	_ "embed"
	"fmt"

	"mafather/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed milestones.yml
var milestonesYAML []byte

type milestoneCatalog struct {
	Milestones []milestoneEntry `yaml:"milestones"`
}

type milestoneEntry struct {
	AgeGroup        string `yaml:"age_group"`
	DevelopmentArea string `yaml:"development_area"`
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	Order           int    `yaml:"order"`
}

// LoadMilestoneCatalog parses the embedded milestone catalog and validates
// every entry against the known age groups and development areas.
func LoadMilestoneCatalog() ([]*models.DevelopmentMilestone, error) {
	var catalog milestoneCatalog
	if err := yaml.Unmarshal(milestonesYAML, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse milestone catalog: %w", err)
	}

	milestones := make([]*models.DevelopmentMilestone, 0, len(catalog.Milestones))
	for i, entry := range catalog.Milestones {
		if !models.ValidAgeGroup(entry.AgeGroup) {
			return nil, fmt.Errorf("milestone %d: unknown age group %q", i, entry.AgeGroup)
		}
		if !models.ValidDevelopmentArea(entry.DevelopmentArea) {
			return nil, fmt.Errorf("milestone %d: unknown development area %q", i, entry.DevelopmentArea)
		}
		if entry.Title == "" || entry.Description == "" {
			return nil, fmt.Errorf("milestone %d: title and description are required", i)
		}
		milestones = append(milestones, &models.DevelopmentMilestone{
			AgeGroup:        entry.AgeGroup,
			DevelopmentArea: entry.DevelopmentArea,
			Title:           entry.Title,
			Description:     entry.Description,
			DisplayOrder:    entry.Order,
			IsActive:        true,
		})
	}
	return milestones, nil
}

// Milestones writes the built-in catalog into the database. Entries already
// present (same age group, area and title) are left untouched, so the seeder
// can run on every deploy.
func Milestones(db *gorm.DB) error {
	milestones, err := LoadMilestoneCatalog()
	if err != nil {
		return err
	}

	for _, m := range milestones {
		err := db.Clauses(clause.OnConflict{DoNothing: true}).
			Where(models.DevelopmentMilestone{
				AgeGroup:        m.AgeGroup,
				DevelopmentArea: m.DevelopmentArea,
				Title:           m.Title,
			}).
			FirstOrCreate(m).Error
		if err != nil {
			return fmt.Errorf("failed to seed milestone %q: %w", m.Title, err)
		}
	}
	return nil
}
