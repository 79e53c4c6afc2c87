package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/services/auth"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/testutil"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/utils"
)

func newService(t *testing.T) *auth.Service {
	t.Helper()
	store := repository.New(testutil.NewDB(t))
	return auth.NewService(store, "test-secret", 60, auth.NewMemoryRevoker())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, auth.RegisterInput{
		Name: "Dana Dev", Email: "Dana@Example.com", Password: "password123", Role: "developer",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if sess.User.Role != models.RoleDeveloper || sess.User.Email != "dana@example.com" {
		t.Errorf("user = %+v", sess.User)
	}

	claims, err := utils.ParseJWT("test-secret", sess.Token)
	if err != nil || claims.UserID != sess.User.ID.String() {
		t.Fatalf("token claims = %+v, err %v", claims, err)
	}

	if _, err := svc.Login(ctx, "dana@example.com", "password123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func TestRegisterRejectsAdminAndDuplicates(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, auth.RegisterInput{Name: "Eve", Email: "eve@example.com", Password: "password123", Role: "admin"})
	ve, ok := apperr.AsValidation(err)
	if !ok || len(ve.Fields["role"]) == 0 {
		t.Fatalf("expected role validation error, got %v", err)
	}

	in := auth.RegisterInput{Name: "Carl", Email: "carl@example.com", Password: "password123"}
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatal(err)
	}
	_, err = svc.Register(ctx, in)
	if ve, ok := apperr.AsValidation(err); !ok || len(ve.Fields["email"]) == 0 {
		t.Fatalf("expected duplicate email error, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, auth.RegisterInput{Name: "Cy", Email: "cy@example.com", Password: "password123"}); err != nil {
		t.Fatal(err)
	}

	for _, pw := range []string{"nope-nope", ""} {
		_, err := svc.Login(ctx, "cy@example.com", pw)
		if _, ok := apperr.AsValidation(err); !ok {
			t.Errorf("password %q: expected validation error, got %v", pw, err)
		}
	}
	_, err := svc.Login(ctx, "nobody@example.com", "password123")
	ve, ok := apperr.AsValidation(err)
	if !ok || ve.Fields["email"][0] != "The provided credentials are incorrect." {
		t.Errorf("unknown email: got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	sess, err := svc.Register(ctx, auth.RegisterInput{Name: "Lo", Email: "lo@example.com", Password: "password123"})
	if err != nil {
		t.Fatal(err)
	}
	claims, _ := utils.ParseJWT("test-secret", sess.Token)

	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	revoked, _ := svc.Revoker.IsRevoked(ctx, claims.ID)
	if !revoked {
		t.Fatal("token should be revoked after logout")
	}
}

func TestSignInExternalCreatesOnce(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first, err := svc.SignInExternal(ctx, "g@example.com", "Gee")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.SignInExternal(ctx, "G@example.com", "Gee Renamed")
	if err != nil {
		t.Fatal(err)
	}
	if first.User.ID != second.User.ID || second.User.Name != "Gee Renamed" {
		t.Errorf("first=%+v second=%+v", first.User, second.User)
	}
	if second.User.Role != models.RoleClient {
		t.Errorf("role = %s", second.User.Role)
	}
}

func TestRedisRevoker(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := auth.NewRedisRevoker(rdb)
	ctx := context.Background()

	if err := r.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if ok, _ := r.IsRevoked(ctx, "jti-1"); !ok {
		t.Error("jti-1 should be revoked")
	}
	if ok, _ := r.IsRevoked(ctx, "jti-2"); ok {
		t.Error("jti-2 was never revoked")
	}

	mr.FastForward(2 * time.Hour)
	if ok, _ := r.IsRevoked(ctx, "jti-1"); ok {
		t.Error("revocation should expire with the token")
	}
}
