package admin_test

import (
	"context"
	"testing"
	"time"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/admin"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/testutil"
)

func TestDashboard(t *testing.T) {
	gdb := testutil.NewDB(t)
	client := testutil.CreateUser(t, gdb, "Cli Ent", models.RoleClient)
	dev := testutil.CreateUser(t, gdb, "Dan Dev", models.RoleDeveloper)
	testutil.CreateUser(t, gdb, "Ad Min", models.RoleAdmin)
	testutil.CreateJob(t, gdb, client, "A", 100, models.JobStatusOpen)
	testutil.CreateJob(t, gdb, client, "B", 100, models.JobStatusOpen)
	done := testutil.CreateJob(t, gdb, client, "C", 500, models.JobStatusCompleted)
	testutil.CreateJob(t, gdb, client, "D", 100, models.JobStatusCancelled)

	for _, amount := range []float64{120.5, 79.5} {
		p := models.Payment{JobID: done.ID, Amount: amount, Status: models.PaymentPaid, PayerID: client.ID, PayeeID: dev.ID, DueDate: time.Now()}
		if err := gdb.Create(&p).Error; err != nil {
			t.Fatal(err)
		}
	}

	stats, err := admin.NewService(repository.New(gdb)).Dashboard(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := admin.Stats{TotalUsers: 3, TotalJobs: 4, ActiveJobs: 2, CompletedJobs: 1, TotalPaymentsAmount: 200}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}
