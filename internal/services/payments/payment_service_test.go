package payments_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/notify"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/payments"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/testutil"
)

type recorder struct {
	mu    sync.Mutex
	to    []uuid.UUID
	types []string
}

func (r *recorder) Notify(_ context.Context, userID uuid.UUID, n notify.Notice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.to = append(r.to, userID)
	r.types = append(r.types, n.Type)
	return nil
}

func ptr[T any](v T) *T { return &v }

func nextWeek() string { return time.Now().AddDate(0, 0, 7).Format("2006-01-02") }

type fixture struct {
	gdb    *gorm.DB
	client models.User
	dev    models.User
	job    models.Job
}

func setup(t *testing.T, budget float64) fixture {
	t.Helper()
	gdb := testutil.NewDB(t)
	f := fixture{gdb: gdb}
	f.client = testutil.CreateUser(t, gdb, "Cli Ent", models.RoleClient)
	f.dev = testutil.CreateUser(t, gdb, "Dan Dev", models.RoleDeveloper)
	f.job = testutil.CreateJob(t, gdb, f.client, "Build API", budget, models.JobStatusInProgress)
	testutil.CreateApplication(t, gdb, f.job, f.dev, models.ApplicationAccepted)
	return f
}

func TestCreateEnforcesBudget(t *testing.T) {
	f := setup(t, 1000)
	rec := &recorder{}
	svc := payments.NewService(repository.New(f.gdb), rec)
	ctx := context.Background()

	p, err := svc.Create(ctx, testutil.Actor(f.client), f.job.ID, payments.CreateInput{
		Amount: ptr(800.0), Description: "Milestone 1", DueDate: nextWeek(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Status != models.PaymentPending || p.PayerID != f.client.ID || p.PayeeID != f.dev.ID {
		t.Errorf("payment = %+v", p)
	}
	if len(rec.to) != 1 || rec.to[0] != f.dev.ID || rec.types[0] != models.NoticePaymentCreated {
		t.Errorf("notices to=%v types=%v", rec.to, rec.types)
	}

	_, err = svc.Create(ctx, testutil.Actor(f.client), f.job.ID, payments.CreateInput{
		Amount: ptr(300.0), Description: "Milestone 2", DueDate: nextWeek(),
	})
	ve, ok := apperr.AsValidation(err)
	if !ok || ve.Fields["amount"][0] != "Total payments cannot exceed job budget" {
		t.Fatalf("over budget: %v", err)
	}

	// exactly filling the budget is allowed
	if _, err := svc.Create(ctx, testutil.Actor(f.client), f.job.ID, payments.CreateInput{
		Amount: ptr(200.0), Description: "Milestone 2", DueDate: nextWeek(),
	}); err != nil {
		t.Fatalf("filling budget: %v", err)
	}
}

func TestCreateCentsArithmetic(t *testing.T) {
	f := setup(t, 0.3)
	svc := payments.NewService(repository.New(f.gdb), nil)
	ctx := context.Background()

	for _, amount := range []float64{0.1, 0.2} {
		if _, err := svc.Create(ctx, testutil.Actor(f.client), f.job.ID, payments.CreateInput{
			Amount: ptr(amount), Description: "part", DueDate: nextWeek(),
		}); err != nil {
			t.Fatalf("amount %v: %v", amount, err)
		}
	}
}

func TestCreateRules(t *testing.T) {
	f := setup(t, 1000)
	svc := payments.NewService(repository.New(f.gdb), nil)
	ctx := context.Background()
	in := payments.CreateInput{Amount: ptr(100.0), Description: "M1", DueDate: nextWeek()}

	_, err := svc.Create(ctx, testutil.Actor(f.client), f.job.ID, payments.CreateInput{
		Amount: ptr(0.0), DueDate: time.Now().Format("2006-01-02"),
	})
	ve, ok := apperr.AsValidation(err)
	if !ok || len(ve.Fields["amount"]) == 0 || len(ve.Fields["description"]) == 0 || len(ve.Fields["due_date"]) == 0 {
		t.Errorf("shape validation: %v", err)
	}

	if _, err := svc.Create(ctx, testutil.Actor(f.dev), f.job.ID, in); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("non-owner: %v", err)
	}
	if _, err := svc.Create(ctx, testutil.Actor(f.client), uuid.New(), in); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("missing job: %v", err)
	}

	noDev := testutil.CreateJob(t, f.gdb, f.client, "Unstaffed", 1000, models.JobStatusOpen)
	_, err = svc.Create(ctx, testutil.Actor(f.client), noDev.ID, in)
	if ve, ok := apperr.AsValidation(err); !ok || len(ve.Fields["job"]) == 0 {
		t.Errorf("no accepted application: %v", err)
	}

	done := testutil.CreateJob(t, f.gdb, f.client, "Done", 1000, models.JobStatusCompleted)
	if _, err := svc.Create(ctx, testutil.Actor(f.client), done.ID, in); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("completed job: %v", err)
	}
}

// The sqlite test DB serializes these on one connection; the row lock itself is
// checked in repository.TestLockByIDSelectsForUpdate.
func TestConcurrentCreateStaysWithinBudget(t *testing.T) {
	f := setup(t, 1000)
	svc := payments.NewService(repository.New(f.gdb), nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), testutil.Actor(f.client), f.job.ID, payments.CreateInput{
				Amount: ptr(600.0), Description: "race", DueDate: nextWeek(),
			})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else if _, isValidation := apperr.AsValidation(err); !isValidation {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("%d payments accepted, want 1", ok)
	}
	sum, err := repository.New(f.gdb).Payments.SumForJob(context.Background(), f.job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if sum > 1000 {
		t.Fatalf("sum %v exceeds budget", sum)
	}
}

func TestListAndGetAccess(t *testing.T) {
	f := setup(t, 1000)
	svc := payments.NewService(repository.New(f.gdb), nil)
	stranger := testutil.CreateUser(t, f.gdb, "Stran Ger", models.RoleDeveloper)
	ctx := context.Background()

	p, err := svc.Create(ctx, testutil.Actor(f.client), f.job.ID, payments.CreateInput{
		Amount: ptr(100.0), Description: "M1", DueDate: nextWeek(),
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, u := range []models.User{f.client, f.dev} {
		list, err := svc.List(ctx, testutil.Actor(u), f.job.ID)
		if err != nil || len(list) != 1 {
			t.Errorf("%s list: %v (%d)", u.Name, err, len(list))
		}
		if _, err := svc.Get(ctx, testutil.Actor(u), p.ID); err != nil {
			t.Errorf("%s get: %v", u.Name, err)
		}
	}
	if _, err := svc.List(ctx, testutil.Actor(stranger), f.job.ID); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("stranger list: %v", err)
	}
	if _, err := svc.Get(ctx, testutil.Actor(stranger), p.ID); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("stranger get: %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	f := setup(t, 1000)
	rec := &recorder{}
	svc := payments.NewService(repository.New(f.gdb), rec)
	ctx := context.Background()

	p, err := svc.Create(ctx, testutil.Actor(f.client), f.job.ID, payments.CreateInput{
		Amount: ptr(100.0), Description: "M1", DueDate: nextWeek(),
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Update(ctx, testutil.Actor(f.dev), p.ID, payments.UpdateInput{Status: "paid", TransactionID: ptr("tx-1")}); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("payee update: %v", err)
	}
	_, err = svc.Update(ctx, testutil.Actor(f.client), p.ID, payments.UpdateInput{Status: "paid"})
	if ve, ok := apperr.AsValidation(err); !ok || len(ve.Fields["transaction_id"]) == 0 {
		t.Errorf("missing transaction id: %v", err)
	}

	paid, err := svc.Update(ctx, testutil.Actor(f.client), p.ID, payments.UpdateInput{Status: "paid", TransactionID: ptr("tx-1")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if paid.PaidAt == nil || paid.TransactionID == nil || *paid.TransactionID != "tx-1" {
		t.Errorf("paid = %+v", paid)
	}
	if last := rec.types[len(rec.types)-1]; last != models.NoticePaymentReceived || rec.to[len(rec.to)-1] != f.client.ID {
		t.Errorf("last notice %s to %s", last, rec.to[len(rec.to)-1])
	}

	back, err := svc.Update(ctx, testutil.Actor(f.client), p.ID, payments.UpdateInput{Status: "pending"})
	if err != nil {
		t.Fatal(err)
	}
	if back.PaidAt != nil {
		t.Errorf("paid_at should be cleared")
	}
}
