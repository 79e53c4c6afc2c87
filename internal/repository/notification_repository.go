package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(n).Error
}

func (r *NotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error
	return &n, err
}

// FindWithUser loads the notification and its recipient.
func (r *NotificationRepository) FindWithUser(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	err := r.db.WithContext(ctx).Preload("User").First(&n, "id = ?", id).Error
	return &n, err
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, p Page) ([]models.Notification, Meta, error) {
	q := r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)

	var list []models.Notification
	meta, err := paginate(q, "created_at DESC", p, &list)
	return list, meta, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&n).Error
	return n, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, n *models.Notification, at time.Time) error {
	if n.ReadAt != nil {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(n).Update("read_at", at).Error; err != nil {
		return err
	}
	n.ReadAt = &at
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", at)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) Delete(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Delete(n).Error
}

// MarkMailed stamps mailed_at and counts the successful attempt.
func (r *NotificationRepository) MarkMailed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"mailed_at":          at,
			"mail_attempts":      gorm.Expr("mail_attempts + 1"),
			"mail_claimed_until": nil,
		}).Error
}

// RecordMailFailure counts a failed attempt and releases the claim so the
// sweeper can retry.
func (r *NotificationRepository) RecordMailFailure(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"mail_attempts":      gorm.Expr("mail_attempts + 1"),
			"mail_claimed_until": nil,
		}).Error
}

// ClaimMail takes the send lease on an unmailed notification until until. It
// reports false when the mail went out already or another worker holds a live lease.
func (r *NotificationRepository) ClaimMail(ctx context.Context, id uuid.UUID, now, until time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND mailed_at IS NULL", id).
		Where("mail_claimed_until IS NULL OR mail_claimed_until < ?", now).
		Update("mail_claimed_until", until)
	return res.RowsAffected == 1, res.Error
}

// PendingMail returns ids of notifications created before olderThan whose mail has
// not gone out, that still have attempts left and that no worker is sending at now.
func (r *NotificationRepository) PendingMail(ctx context.Context, now, olderThan time.Time, maxAttempts, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("mailed_at IS NULL AND mail_attempts < ? AND created_at < ?", maxAttempts, olderThan).
		Where("mail_claimed_until IS NULL OR mail_claimed_until < ?", now).
		Order("created_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}
