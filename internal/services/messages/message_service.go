package messages

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/notify"
)

const perPage = 10

type Service struct {
	Store     *repository.Store
	Publisher notify.Publisher
}

func NewService(store *repository.Store, pub notify.Publisher) *Service {
	return &Service{Store: store, Publisher: pub}
}

type SendInput struct {
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
}

func (s *Service) List(ctx context.Context, actor models.Actor, page int) ([]models.Message, repository.Meta, error) {
	return s.Store.Messages.ListForUser(ctx, actor.ID, repository.NewPage(page, perPage, perPage, perPage))
}

// Send stores the message and pushes it to the recipient's open sockets.
func (s *Service) Send(ctx context.Context, actor models.Actor, in SendInput) (*models.Message, error) {
	errs := apperr.FieldErrors{}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		errs.Add("content", "The content field is required.")
	}

	var recipientID uuid.UUID
	raw := strings.TrimSpace(in.RecipientID)
	if raw == "" {
		errs.Add("recipient_id", "The recipient id field is required.")
	} else if id, err := uuid.Parse(raw); err != nil {
		errs.Add("recipient_id", "The selected recipient id is invalid.")
	} else if id == actor.ID {
		errs.Add("recipient_id", "You cannot send a message to yourself.")
	} else {
		ok, err := s.Store.Users.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			errs.Add("recipient_id", "The selected recipient id is invalid.")
		}
		recipientID = id
	}
	if errs.Any() {
		return nil, apperr.Invalid(errs)
	}

	msg := models.Message{
		SenderID:    actor.ID,
		RecipientID: recipientID,
		Content:     content,
	}
	if err := s.Store.Messages.Create(ctx, &msg); err != nil {
		return nil, err
	}

	if s.Publisher != nil {
		event := map[string]any{"type": "new_message", "message": msg}
		if err := s.Publisher.Publish(ctx, recipientID, event); err != nil {
			log.Printf("[messages] push to %s failed: %v", recipientID, err)
		}
	}
	return &msg, nil
}

func (s *Service) MarkRead(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Message, error) {
	msg, err := s.Store.Messages.FindByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, apperr.NotFound("Message not found")
	}
	if err != nil {
		return nil, err
	}
	if msg.RecipientID != actor.ID {
		return nil, apperr.Forbidden("Unauthorized")
	}
	if err := s.Store.Messages.MarkRead(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *Service) UnreadCount(ctx context.Context, actor models.Actor) (int64, error) {
	return s.Store.Messages.CountUnread(ctx, actor.ID)
}
