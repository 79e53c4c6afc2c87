package profiles_test

import (
	"context"
	"testing"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/profiles"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func input() profiles.Input {
	return profiles.Input{
		Title:      "Backend engineer",
		Bio:        "Go and Postgres",
		HourlyRate: ptr(45.0),
		Skills:     []string{"Go", "PostgreSQL"},
		PortfolioItems: []profiles.PortfolioInput{
			{Title: "Payments API", Description: "Ledger service", ImagePath: "/uploads/portfolio/a.png"},
		},
		GithubURL: "https://github.com/dan",
		Phone:     "+62 812 0000",
	}
}

func TestCreateAndUpdateProfile(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := profiles.NewService(repository.New(gdb))
	dev := testutil.CreateUser(t, gdb, "Dan Dev", models.RoleDeveloper)
	ctx := context.Background()

	p, err := svc.Create(ctx, testutil.Actor(dev), input())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(p.Skills) != 2 || len(p.PortfolioItems) != 1 || p.User == nil {
		t.Fatalf("profile = %+v", p)
	}

	_, err = svc.Create(ctx, testutil.Actor(dev), input())
	if ve, ok := apperr.AsValidation(err); !ok || len(ve.Fields["profile"]) == 0 {
		t.Fatalf("second profile: %v", err)
	}

	in := input()
	in.Title = "Staff engineer"
	in.Skills = []string{"Rust"}
	in.PortfolioItems = nil
	updated, err := svc.Update(ctx, testutil.Actor(dev), p.ID, in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Staff engineer" || len(updated.Skills) != 1 || updated.Skills[0].Name != "Rust" || len(updated.PortfolioItems) != 0 {
		t.Errorf("updated = %+v", updated)
	}

	mine, err := svc.Mine(ctx, testutil.Actor(dev))
	if err != nil || mine.ID != p.ID {
		t.Errorf("Mine: %v", err)
	}
}

func TestProfileValidationAndOwnership(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := profiles.NewService(repository.New(gdb))
	dev := testutil.CreateUser(t, gdb, "Dan Dev", models.RoleDeveloper)
	other := testutil.CreateUser(t, gdb, "Other Dev", models.RoleDeveloper)
	client := testutil.CreateUser(t, gdb, "Cli Ent", models.RoleClient)
	ctx := context.Background()

	_, err := svc.Create(ctx, testutil.Actor(dev), profiles.Input{GithubURL: "not a url", HourlyRate: ptr(-1.0)})
	ve, ok := apperr.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, f := range []string{"title", "bio", "hourly_rate", "skills", "github_url"} {
		if len(ve.Fields[f]) == 0 {
			t.Errorf("missing %s error", f)
		}
	}

	if _, err := svc.Create(ctx, testutil.Actor(client), input()); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("client create: %v", err)
	}
	if _, err := svc.Mine(ctx, testutil.Actor(dev)); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("Mine without profile: %v", err)
	}

	p, err := svc.Create(ctx, testutil.Actor(dev), input())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Update(ctx, testutil.Actor(other), p.ID, input()); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("foreign update: %v", err)
	}
	if _, err := svc.UpdatePrivacy(ctx, testutil.Actor(other), p.ID, profiles.PrivacyInput{EmailVisible: ptr(true), PhoneVisible: ptr(true)}); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("foreign privacy: %v", err)
	}
}

func TestShowMasksContactDetails(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := profiles.NewService(repository.New(gdb))
	dev := testutil.CreateUser(t, gdb, "Dan Dev", models.RoleDeveloper)
	viewer := testutil.CreateUser(t, gdb, "Cli Ent", models.RoleClient)
	ctx := context.Background()

	p, err := svc.Create(ctx, testutil.Actor(dev), input())
	if err != nil {
		t.Fatal(err)
	}

	pub, err := svc.Show(ctx, testutil.Actor(viewer), p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if pub.Email != nil || pub.Phone != nil {
		t.Errorf("private contact leaked: email=%v phone=%v", pub.Email, pub.Phone)
	}

	own, err := svc.Show(ctx, testutil.Actor(dev), p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if own.Email == nil || *own.Email != dev.Email || own.Phone == nil {
		t.Errorf("owner should see contact details: %+v", own)
	}

	if _, err := svc.UpdatePrivacy(ctx, testutil.Actor(dev), p.ID, profiles.PrivacyInput{EmailVisible: ptr(true), PhoneVisible: ptr(false)}); err != nil {
		t.Fatal(err)
	}
	pub, err = svc.Show(ctx, testutil.Actor(viewer), p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if pub.Email == nil || pub.Phone != nil {
		t.Errorf("after privacy change: email=%v phone=%v", pub.Email, pub.Phone)
	}
}

func TestSearchBySkill(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := profiles.NewService(repository.New(gdb))
	ctx := context.Background()

	goDev := testutil.CreateUser(t, gdb, "Go Dev", models.RoleDeveloper)
	phpDev := testutil.CreateUser(t, gdb, "Php Dev", models.RoleDeveloper)
	if _, err := svc.Create(ctx, testutil.Actor(goDev), input()); err != nil {
		t.Fatal(err)
	}
	in := input()
	in.Skills = []string{"PHP"}
	if _, err := svc.Create(ctx, testutil.Actor(phpDev), in); err != nil {
		t.Fatal(err)
	}

	found, err := svc.Search(ctx, "Go")
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].User.Name != "Go Dev" {
		t.Fatalf("search Go = %+v", found)
	}

	all, err := svc.Search(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("empty skill should list everyone, got %d", len(all))
	}
}
