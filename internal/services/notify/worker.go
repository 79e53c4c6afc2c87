package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
)

// Worker drains the delivery queue and mails each notification.
type Worker struct {
	Store   *repository.Store
	Queue   Queue
	Mailer  Mailer
	BaseURL string

	now      func() time.Time
	claimTTL time.Duration
}

func NewWorker(store *repository.Store, queue Queue, mailer Mailer, baseURL string) *Worker {
	return &Worker{Store: store, Queue: queue, Mailer: mailer, BaseURL: baseURL, now: time.Now, claimTTL: 5 * time.Minute}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	log.Println("[notify] worker started")
	for {
		d, err := w.Queue.Dequeue(ctx)
		if ctx.Err() != nil {
			log.Println("[notify] worker stopped")
			return
		}
		if errors.Is(err, ErrEmpty) {
			continue
		}
		if err != nil {
			log.Printf("[notify] dequeue error: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if err := w.Deliver(ctx, d.NotificationID); err != nil {
			log.Printf("[notify] deliver %s: %v", d.NotificationID, err)
		}
	}
}

// Deliver mails one notification. Already mailed notifications are skipped, and a
// lease on the row keeps two workers from sending the same one at once.
func (w *Worker) Deliver(ctx context.Context, id uuid.UUID) error {
	n, err := w.Store.Notifications.FindWithUser(ctx, id)
	if repository.IsNotFound(err) {
		// deleted by its owner before we got to it
		return nil
	}
	if err != nil {
		return err
	}
	if n.MailedAt != nil {
		return nil
	}

	now := w.now()
	claimed, err := w.Store.Notifications.ClaimMail(ctx, id, now, now.Add(w.claimTTL))
	if err != nil {
		return fmt.Errorf("claim: %w", err)
	}
	if !claimed {
		log.Printf("[notify] %s is being mailed elsewhere, skipping", id)
		return nil
	}

	if n.User == nil {
		w.recordFailure(ctx, id)
		return fmt.Errorf("recipient %s missing", n.UserID)
	}

	mail, err := RenderMail(n, n.User, w.BaseURL)
	if err != nil {
		w.recordFailure(ctx, id)
		return err
	}

	msgID, err := w.Mailer.Send(ctx, mail)
	if err != nil {
		w.recordFailure(ctx, id)
		return err
	}

	if err := w.Store.Notifications.MarkMailed(ctx, id, w.now()); err != nil {
		return fmt.Errorf("mark mailed: %w", err)
	}
	log.Printf("[notify] mailed %s (%s) to %s, provider id %q", id, n.Type, n.User.Email, msgID)
	return nil
}

func (w *Worker) recordFailure(ctx context.Context, id uuid.UUID) {
	if err := w.Store.Notifications.RecordMailFailure(ctx, id); err != nil {
		log.Printf("[notify] record failure for %s: %v", id, err)
	}
}
