package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *models.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(rv).Error
}

func (r *ReviewRepository) Exists(ctx context.Context, reviewerID, revieweeID, jobID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("reviewer_id = ? AND reviewee_id = ? AND job_id = ?", reviewerID, revieweeID, jobID).
		Count(&n).Error
	return n > 0, err
}

func (r *ReviewRepository) ListForReviewee(ctx context.Context, revieweeID uuid.UUID, p Page) ([]models.Review, Meta, error) {
	q := r.db.WithContext(ctx).Model(&models.Review{}).Where("reviewee_id = ?", revieweeID)

	var reviews []models.Review
	meta, err := paginate(q, "created_at DESC", p, &reviews, "Reviewer", "Job")
	return reviews, meta, err
}

type RatingSummary struct {
	// Average is nil when the user has no reviews.
	Average *float64
	Total   int64
}

func (r *ReviewRepository) Summary(ctx context.Context, revieweeID uuid.UUID) (RatingSummary, error) {
	var row struct {
		Average sql.NullFloat64
		Total   int64
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("AVG(rating) AS average, COUNT(*) AS total").
		Where("reviewee_id = ?", revieweeID).
		Scan(&row).Error
	if err != nil {
		return RatingSummary{}, err
	}

	s := RatingSummary{Total: row.Total}
	if row.Average.Valid && row.Total > 0 {
		avg := row.Average.Float64
		s.Average = &avg
	}
	return s, nil
}
