package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
)

// Sweeper periodically re-queues notifications whose mail has not gone out.
type Sweeper struct {
	cron        *cron.Cron
	store       *repository.Store
	queue       Queue
	spec        string
	maxAttempts int
	grace       time.Duration
	batch       int
}

func NewSweeper(store *repository.Store, queue Queue, spec string, maxAttempts int) *Sweeper {
	return &Sweeper{
		cron:        cron.New(cron.WithLogger(cron.DefaultLogger)),
		store:       store,
		queue:       queue,
		spec:        spec,
		maxAttempts: maxAttempts,
		grace:       time.Minute,
		batch:       100,
	}
}

func (s *Sweeper) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.Sweep(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.cron.Start()
	log.Printf("[sweeper] started, spec: %s", s.spec)
	return nil
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[sweeper] stopped")
}

// Sweep re-queues one batch and returns how many deliveries were queued.
func (s *Sweeper) Sweep(ctx context.Context) int {
	now := time.Now()
	ids, err := s.store.Notifications.PendingMail(ctx, now, now.Add(-s.grace), s.maxAttempts, s.batch)
	if err != nil {
		log.Printf("[sweeper] load pending: %v", err)
		return 0
	}

	queued := 0
	for _, id := range ids {
		if err := s.queue.Enqueue(ctx, Delivery{NotificationID: id}); err != nil {
			log.Printf("[sweeper] enqueue %s: %v", id, err)
			break
		}
		queued++
	}
	if queued > 0 {
		log.Printf("[sweeper] re-queued %d notification(s)", queued)
	}
	return queued
}
