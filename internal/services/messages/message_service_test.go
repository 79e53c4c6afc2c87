package messages_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/messages"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/testutil"
)

type pushes map[uuid.UUID][]any

func (p pushes) Publish(_ context.Context, userID uuid.UUID, event any) error {
	p[userID] = append(p[userID], event)
	return nil
}

func TestSendAndRead(t *testing.T) {
	gdb := testutil.NewDB(t)
	pub := pushes{}
	svc := messages.NewService(repository.New(gdb), pub)
	alice := testutil.CreateUser(t, gdb, "Alice", models.RoleClient)
	bob := testutil.CreateUser(t, gdb, "Bob", models.RoleDeveloper)
	ctx := context.Background()

	msg, err := svc.Send(ctx, testutil.Actor(alice), messages.SendInput{RecipientID: bob.ID.String(), Content: "Hi Bob"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if msg.Read || msg.SenderID != alice.ID {
		t.Errorf("msg = %+v", msg)
	}
	if len(pub[bob.ID]) != 1 {
		t.Errorf("recipient pushes = %d", len(pub[bob.ID]))
	}

	n, err := svc.UnreadCount(ctx, testutil.Actor(bob))
	if err != nil || n != 1 {
		t.Fatalf("unread = %d, %v", n, err)
	}

	if _, err := svc.MarkRead(ctx, testutil.Actor(alice), msg.ID); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("sender marking read: %v", err)
	}
	read, err := svc.MarkRead(ctx, testutil.Actor(bob), msg.ID)
	if err != nil || !read.Read {
		t.Fatalf("MarkRead: %v", err)
	}
	if n, _ := svc.UnreadCount(ctx, testutil.Actor(bob)); n != 0 {
		t.Errorf("unread after read = %d", n)
	}

	for _, u := range []models.User{alice, bob} {
		list, meta, err := svc.List(ctx, testutil.Actor(u), 1)
		if err != nil || meta.Total != 1 || list[0].Sender == nil || list[0].Recipient == nil {
			t.Errorf("%s list: %v %+v", u.Name, err, meta)
		}
	}
}

func TestSendValidation(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := messages.NewService(repository.New(gdb), nil)
	alice := testutil.CreateUser(t, gdb, "Alice", models.RoleClient)
	ctx := context.Background()

	cases := map[string]messages.SendInput{
		"unknown recipient": {RecipientID: uuid.NewString(), Content: "hello"},
		"self":              {RecipientID: alice.ID.String(), Content: "hello"},
		"garbage id":        {RecipientID: "42", Content: "hello"},
	}
	for name, in := range cases {
		_, err := svc.Send(ctx, testutil.Actor(alice), in)
		if ve, ok := apperr.AsValidation(err); !ok || len(ve.Fields["recipient_id"]) == 0 {
			t.Errorf("%s: %v", name, err)
		}
	}

	_, err := svc.Send(ctx, testutil.Actor(alice), messages.SendInput{})
	if ve, ok := apperr.AsValidation(err); !ok || len(ve.Fields["content"]) == 0 {
		t.Errorf("empty: %v", err)
	}
}
