package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
)

const inboxPerPage = 10

// Inbox is the user-facing side of persisted notifications.
type Inbox struct {
	Store *repository.Store
	now   func() time.Time
}

func NewInbox(store *repository.Store) *Inbox {
	return &Inbox{Store: store, now: time.Now}
}

func (b *Inbox) List(ctx context.Context, actor models.Actor, page int) ([]models.Notification, repository.Meta, error) {
	return b.Store.Notifications.ListForUser(ctx, actor.ID, repository.NewPage(page, inboxPerPage, inboxPerPage, inboxPerPage))
}

func (b *Inbox) UnreadCount(ctx context.Context, actor models.Actor) (int64, error) {
	return b.Store.Notifications.CountUnread(ctx, actor.ID)
}

func (b *Inbox) MarkRead(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Notification, error) {
	n, err := b.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if n.ReadAt != nil {
		return n, nil
	}
	if err := b.Store.Notifications.MarkRead(ctx, n, b.now()); err != nil {
		return nil, err
	}
	return n, nil
}

func (b *Inbox) MarkAllRead(ctx context.Context, actor models.Actor) (int64, error) {
	return b.Store.Notifications.MarkAllRead(ctx, actor.ID, b.now())
}

func (b *Inbox) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	n, err := b.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	return b.Store.Notifications.Delete(ctx, n)
}

func (b *Inbox) owned(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Notification, error) {
	n, err := b.Store.Notifications.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, apperr.NotFound("Notification not found")
	}
	if err != nil {
		return nil, err
	}
	if n.UserID != actor.ID {
		return nil, apperr.Forbidden("Unauthorized")
	}
	return n, nil
}
