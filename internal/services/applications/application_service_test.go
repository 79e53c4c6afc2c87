package applications_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/applications"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/notify"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/testutil"
)

type sent struct {
	to     uuid.UUID
	notice notify.Notice
}

type recorder struct {
	sent []sent
	err  error
}

func (r *recorder) Notify(_ context.Context, userID uuid.UUID, n notify.Notice) error {
	r.sent = append(r.sent, sent{userID, n})
	return r.err
}

func ptr[T any](v T) *T { return &v }

func validInput() applications.ApplyInput {
	return applications.ApplyInput{Proposal: "I can do it", Budget: ptr(900.0), Timeline: ptr(14)}
}

func TestApplyNotifiesOwner(t *testing.T) {
	gdb := testutil.NewDB(t)
	rec := &recorder{}
	svc := applications.NewService(repository.New(gdb), rec)
	client := testutil.CreateUser(t, gdb, "Cli Ent", models.RoleClient)
	dev := testutil.CreateUser(t, gdb, "Dan Dev", models.RoleDeveloper)
	job := testutil.CreateJob(t, gdb, client, "Build API", 1000, models.JobStatusOpen)

	app, err := svc.Apply(context.Background(), testutil.Actor(dev), job.ID, validInput())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if app.Status != models.ApplicationPending || app.UserID != dev.ID {
		t.Errorf("app = %+v", app)
	}
	if len(rec.sent) != 1 || rec.sent[0].to != client.ID || rec.sent[0].notice.Type != models.NoticeApplicationSubmitted {
		t.Fatalf("notifications = %+v", rec.sent)
	}
	if rec.sent[0].notice.Data["developer_name"] != "Dan Dev" {
		t.Errorf("developer_name = %v", rec.sent[0].notice.Data["developer_name"])
	}
}

func TestApplyRules(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := applications.NewService(repository.New(gdb), &recorder{})
	client := testutil.CreateUser(t, gdb, "Cli Ent", models.RoleClient)
	dev := testutil.CreateUser(t, gdb, "Dan Dev", models.RoleDeveloper)
	open := testutil.CreateJob(t, gdb, client, "Open", 1000, models.JobStatusOpen)
	closed := testutil.CreateJob(t, gdb, client, "Closed", 1000, models.JobStatusInProgress)
	ctx := context.Background()

	if _, err := svc.Apply(ctx, testutil.Actor(client), open.ID, validInput()); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("client applying: %v", err)
	}
	if _, err := svc.Apply(ctx, testutil.Actor(dev), uuid.New(), validInput()); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("missing job: %v", err)
	}

	_, err := svc.Apply(ctx, testutil.Actor(dev), closed.ID, validInput())
	if ve, ok := apperr.AsValidation(err); !ok || ve.Fields["job"][0] != "Cannot apply to closed jobs" {
		t.Errorf("closed job: %v", err)
	}

	_, err = svc.Apply(ctx, testutil.Actor(dev), open.ID, applications.ApplyInput{Budget: ptr(-1.0), Timeline: ptr(0)})
	ve, ok := apperr.AsValidation(err)
	if !ok || len(ve.Fields["proposal"]) == 0 || len(ve.Fields["budget"]) == 0 || len(ve.Fields["timeline"]) == 0 {
		t.Errorf("shape validation: %v", err)
	}

	if _, err := svc.Apply(ctx, testutil.Actor(dev), open.ID, validInput()); err != nil {
		t.Fatal(err)
	}
	_, err = svc.Apply(ctx, testutil.Actor(dev), open.ID, validInput())
	if ve, ok := apperr.AsValidation(err); !ok || ve.Fields["job"][0] != "You have already applied to this job" {
		t.Errorf("duplicate: %v", err)
	}
}

func TestApplySurvivesNotifyFailure(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := applications.NewService(repository.New(gdb), &recorder{err: errors.New("db down")})
	client := testutil.CreateUser(t, gdb, "Cli Ent", models.RoleClient)
	dev := testutil.CreateUser(t, gdb, "Dan Dev", models.RoleDeveloper)
	job := testutil.CreateJob(t, gdb, client, "Build API", 1000, models.JobStatusOpen)

	if _, err := svc.Apply(context.Background(), testutil.Actor(dev), job.ID, validInput()); err != nil {
		t.Fatalf("notify failure must not fail Apply: %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	gdb := testutil.NewDB(t)
	rec := &recorder{}
	svc := applications.NewService(repository.New(gdb), rec)
	client := testutil.CreateUser(t, gdb, "Cli Ent", models.RoleClient)
	other := testutil.CreateUser(t, gdb, "Other Client", models.RoleClient)
	dev := testutil.CreateUser(t, gdb, "Dan Dev", models.RoleDeveloper)
	job := testutil.CreateJob(t, gdb, client, "Build API", 1000, models.JobStatusOpen)
	app := testutil.CreateApplication(t, gdb, job, dev, models.ApplicationPending)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, testutil.Actor(client), app.ID, applications.UpdateInput{Status: "maybe"})
	if _, ok := apperr.AsValidation(err); !ok {
		t.Errorf("invalid status: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, testutil.Actor(other), app.ID, applications.UpdateInput{Status: "accepted"}); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("non-owner: %v", err)
	}

	got, err := svc.UpdateStatus(ctx, testutil.Actor(client), app.ID, applications.UpdateInput{Status: "accepted"})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != models.ApplicationAccepted {
		t.Errorf("status = %s", got.Status)
	}
	if len(rec.sent) != 1 || rec.sent[0].to != dev.ID {
		t.Fatalf("notifications = %+v", rec.sent)
	}
	if d := rec.sent[0].notice.Data; d["old_status"] != models.ApplicationPending || d["new_status"] != models.ApplicationAccepted {
		t.Errorf("notice data = %v", d)
	}

	if _, err := svc.UpdateStatus(ctx, testutil.Actor(client), app.ID, applications.UpdateInput{Status: "accepted"}); err != nil {
		t.Fatal(err)
	}
	if len(rec.sent) != 1 {
		t.Errorf("unchanged status should not notify again")
	}
}

func TestListMine(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := applications.NewService(repository.New(gdb), nil)
	client := testutil.CreateUser(t, gdb, "Cli Ent", models.RoleClient)
	dev := testutil.CreateUser(t, gdb, "Dan Dev", models.RoleDeveloper)
	rival := testutil.CreateUser(t, gdb, "Rita Rival", models.RoleDeveloper)
	a := testutil.CreateJob(t, gdb, client, "A", 100, models.JobStatusOpen)
	b := testutil.CreateJob(t, gdb, client, "B", 100, models.JobStatusOpen)
	testutil.CreateApplication(t, gdb, a, dev, models.ApplicationPending)
	testutil.CreateApplication(t, gdb, b, dev, models.ApplicationRejected)
	testutil.CreateApplication(t, gdb, a, rival, models.ApplicationPending)

	list, meta, err := svc.ListMine(context.Background(), testutil.Actor(dev), 1)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Total != 2 || len(list) != 2 {
		t.Fatalf("total = %d", meta.Total)
	}
	for _, app := range list {
		if app.Job == nil {
			t.Errorf("job not preloaded on %s", app.ID)
		}
	}
}

func TestDuplicateApplicationIsTranslated(t *testing.T) {
	gdb := testutil.NewDB(t)
	store := repository.New(gdb)
	client := testutil.CreateUser(t, gdb, "Cli Ent", models.RoleClient)
	dev := testutil.CreateUser(t, gdb, "Dev Eloper", models.RoleDeveloper)
	job := testutil.CreateJob(t, gdb, client, "Once only", 500, models.JobStatusOpen)
	testutil.CreateApplication(t, gdb, job, dev, models.ApplicationPending)

	// the insert a concurrent Apply would race into
	err := store.Applications.Create(context.Background(), &models.JobApplication{
		JobID: job.ID, UserID: dev.ID, Proposal: "again", Timeline: 3, Budget: 400,
		Status: models.ApplicationPending,
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate insert err = %v, want gorm.ErrDuplicatedKey", err)
	}
}
