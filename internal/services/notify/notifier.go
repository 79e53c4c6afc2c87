// Package notify persists domain notices and delivers them out of band: mail through
// a queue-fed worker, and realtime events through a Publisher.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
)

// Publisher pushes an event to a user's live connections.
type Publisher interface {
	Publish(ctx context.Context, userID uuid.UUID, event any) error
}

type Notifier struct {
	Store     *repository.Store
	Queue     Queue
	Publisher Publisher
}

func NewNotifier(store *repository.Store, queue Queue, pub Publisher) *Notifier {
	return &Notifier{Store: store, Queue: queue, Publisher: pub}
}

// Notify persists the notice for userID and schedules its mail. Only the
// persistence failure is returned; queue and realtime failures are logged and
// left to the sweeper.
func (n *Notifier) Notify(ctx context.Context, userID uuid.UUID, notice Notice) error {
	payload := map[string]any{"type": notice.Type}
	for k, v := range notice.Data {
		payload[k] = v
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: encode %s: %w", notice.Type, err)
	}

	rec := models.Notification{
		UserID: userID,
		Type:   notice.Type,
		Data:   datatypes.JSON(raw),
	}
	if err := n.Store.Notifications.Create(ctx, &rec); err != nil {
		return fmt.Errorf("notify: persist %s: %w", notice.Type, err)
	}

	if n.Queue != nil {
		if err := n.Queue.Enqueue(ctx, Delivery{NotificationID: rec.ID}); err != nil {
			log.Printf("[notify] enqueue %s for %s failed, sweeper will retry: %v", rec.ID, userID, err)
		}
	}

	if n.Publisher != nil {
		event := map[string]any{"type": "notification", "notification": rec}
		if err := n.Publisher.Publish(ctx, userID, event); err != nil {
			log.Printf("[notify] realtime push for %s failed: %v", userID, err)
		}
	}
	return nil
}
