package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db}
}

func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error
}

func (r *MessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var m models.Message
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

// ListForUser returns messages the user sent or received, newest first.
func (r *MessageRepository) ListForUser(ctx context.Context, userID uuid.UUID, p Page) ([]models.Message, Meta, error) {
	q := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? OR recipient_id = ?", userID, userID)

	var msgs []models.Message
	meta, err := paginate(q, "created_at DESC", p, &msgs, "Sender", "Recipient")
	return msgs, meta, err
}

func (r *MessageRepository) MarkRead(ctx context.Context, m *models.Message) error {
	if err := r.db.WithContext(ctx).Model(m).Update("read", true).Error; err != nil {
		return err
	}
	m.Read = true
	return nil
}

func (r *MessageRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND read = ?", userID, false).
		Count(&n).Error
	return n, err
}
