package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
)

type SkillRepository struct {
	db *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{db}
}

// All returns every skill ordered by name using the column's collation.
func (r *SkillRepository) All(ctx context.Context) ([]models.Skill, error) {
	skills := []models.Skill{}
	err := r.db.WithContext(ctx).Order("name ASC").Find(&skills).Error
	return skills, err
}

// FirstOrCreateByNames resolves each trimmed, de-duplicated name to a skill row,
// creating the rows that do not exist yet.
func (r *SkillRepository) FirstOrCreateByNames(ctx context.Context, names []string) ([]models.Skill, error) {
	seen := map[string]bool{}
	skills := make([]models.Skill, 0, len(names))

	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var s models.Skill
		if err := r.db.WithContext(ctx).
			Where(models.Skill{Name: name}).
			FirstOrCreate(&s).Error; err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, nil
}
