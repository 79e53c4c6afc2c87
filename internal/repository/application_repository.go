package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *models.JobApplication) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, a *models.JobApplication, status models.ApplicationStatus) error {
	if err := r.db.WithContext(ctx).Model(a).Update("status", status).Error; err != nil {
		return err
	}
	a.Status = status
	return nil
}

// FindWithJob loads the application together with its job and developer.
func (r *ApplicationRepository) FindWithJob(ctx context.Context, id uuid.UUID) (*models.JobApplication, error) {
	var a models.JobApplication
	err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("Developer").
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *ApplicationRepository) Exists(ctx context.Context, jobID, userID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.JobApplication{}).
		Where("job_id = ? AND user_id = ?", jobID, userID).
		Count(&n).Error
	return n > 0, err
}

// ListByDeveloper returns the developer's own applications, newest first.
func (r *ApplicationRepository) ListByDeveloper(ctx context.Context, userID uuid.UUID, p Page) ([]models.JobApplication, Meta, error) {
	q := r.db.WithContext(ctx).Model(&models.JobApplication{}).Where("user_id = ?", userID)

	var apps []models.JobApplication
	meta, err := paginate(q, "created_at DESC", p, &apps, "Job")
	return apps, meta, err
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.JobApplication, error) {
	apps := []models.JobApplication{}
	err := r.db.WithContext(ctx).
		Preload("Developer").
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// AcceptedForJob returns the accepted application of the job, or
// gorm.ErrRecordNotFound when there is none.
func (r *ApplicationRepository) AcceptedForJob(ctx context.Context, jobID uuid.UUID) (*models.JobApplication, error) {
	var a models.JobApplication
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND status = ?", jobID, models.ApplicationAccepted).
		Order("updated_at DESC").
		First(&a).Error
	return &a, err
}

// IsApplicant reports whether userID applied to the job, in any status.
func (r *ApplicationRepository) IsApplicant(ctx context.Context, jobID, userID uuid.UUID) (bool, error) {
	return r.Exists(ctx, jobID, userID)
}
