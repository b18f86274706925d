package repository

import (
	"context"
	"errors"
	"fmt"

	"moodyo/model"

	"gorm.io/gorm"
)

// MoodDefinitionRepository persists the display metadata of custom moods so
// a reopened session finds the same definition.
type MoodDefinitionRepository interface {
	Get(ctx context.Context, mood string) (*model.MoodDefinition, error)
	Save(ctx context.Context, def model.MoodDefinition) error
}

type gormMoodDefinitionRepository struct {
	db *gorm.DB
}

// NewGormMoodDefinitionRepository creates a GORM-backed definition store.
func NewGormMoodDefinitionRepository(db *gorm.DB) MoodDefinitionRepository {
	return &gormMoodDefinitionRepository{db: db}
}

// Get returns the stored definition, or nil when the mood is unknown.
func (r *gormMoodDefinitionRepository) Get(ctx context.Context, mood string) (*model.MoodDefinition, error) {
	var def model.MoodDefinition
	err := r.db.WithContext(ctx).First(&def, "mood = ?", mood).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load mood definition %s: %w", mood, err)
	}
	return &def, nil
}

// Save upserts a definition by its mood identifier.
func (r *gormMoodDefinitionRepository) Save(ctx context.Context, def model.MoodDefinition) error {
	if err := r.db.WithContext(ctx).Save(&def).Error; err != nil {
		return fmt.Errorf("failed to save mood definition %s: %w", def.Mood, err)
	}
	return nil
}
