package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *PaymentRepository) Save(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	err := r.db.WithContext(ctx).Preload("Job").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *PaymentRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Payment, error) {
	payments := []models.Payment{}
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

// SumForJob totals the amount of every payment of the job, whatever its status.
func (r *PaymentRepository) SumForJob(ctx context.Context, jobID uuid.UUID) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("job_id = ?", jobID).
		Scan(&sum).Error
	return sum, err
}

func (r *PaymentRepository) TotalAmount(ctx context.Context) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}
