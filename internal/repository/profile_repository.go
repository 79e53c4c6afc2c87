package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db}
}

func (r *ProfileRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User").
		Preload("Skills", func(db *gorm.DB) *gorm.DB { return db.Order("skills.name ASC") }).
		Preload("PortfolioItems", func(db *gorm.DB) *gorm.DB { return db.Order("portfolio_items.created_at ASC") })
}

func (r *ProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.DeveloperProfile, error) {
	var p models.DeveloperProfile
	err := r.preloaded(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.DeveloperProfile, error) {
	var p models.DeveloperProfile
	err := r.preloaded(ctx).Where("user_id = ?", userID).First(&p).Error
	return &p, err
}

func (r *ProfileRepository) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.DeveloperProfile{}).Where("user_id = ?", userID).Count(&n).Error
	return n > 0, err
}

// Create inserts the profile row only; skills and portfolio are attached separately.
func (r *ProfileRepository) Create(ctx context.Context, p *models.DeveloperProfile) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *ProfileRepository) Save(ctx context.Context, p *models.DeveloperProfile) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *ProfileRepository) UpdatePrivacy(ctx context.Context, p *models.DeveloperProfile, emailVisible, phoneVisible bool) error {
	err := r.db.WithContext(ctx).Model(p).Updates(map[string]any{
		"email_visible": emailVisible,
		"phone_visible": phoneVisible,
	}).Error
	if err != nil {
		return err
	}
	p.EmailVisible = emailVisible
	p.PhoneVisible = phoneVisible
	return nil
}

func (r *ProfileRepository) ReplaceSkills(ctx context.Context, p *models.DeveloperProfile, skills []models.Skill) error {
	return r.db.WithContext(ctx).Model(p).Association("Skills").Replace(skills)
}

// ReplacePortfolio deletes the profile's portfolio items and inserts items in order.
func (r *ProfileRepository) ReplacePortfolio(ctx context.Context, p *models.DeveloperProfile, items []models.PortfolioItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("developer_profile_id = ?", p.ID).Delete(&models.PortfolioItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].ID = uuid.Nil
		items[i].DeveloperProfileID = p.ID
		if err := db.Create(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// SearchBySkill returns profiles linked to a skill with the given name.
func (r *ProfileRepository) SearchBySkill(ctx context.Context, skill string) ([]models.DeveloperProfile, error) {
	profiles := []models.DeveloperProfile{}
	q := r.db.WithContext(ctx).
		Preload("User").
		Preload("Skills", func(db *gorm.DB) *gorm.DB { return db.Order("skills.name ASC") })
	if skill != "" {
		q = q.Where(`EXISTS (SELECT 1 FROM developer_skills ds JOIN skills s ON s.id = ds.skill_id
			WHERE ds.developer_profile_id = developer_profiles.id AND s.name = ?)`, skill)
	}
	err := q.Order("developer_profiles.created_at DESC").Find(&profiles).Error
	return profiles, err
}
