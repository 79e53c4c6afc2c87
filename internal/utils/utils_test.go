package utils_test

import (
	"testing"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/utils"
)

func TestSignAndParseJWT(t *testing.T) {
	tok, err := utils.SignJWT("secret", "user-1", "client", 5)
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	claims, err := utils.ParseJWT("secret", tok)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "client" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	tok, err := utils.SignJWT("secret", "user-1", "client", 5)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := utils.ParseJWT("other", tok); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestParseJWTRejectsExpired(t *testing.T) {
	tok, err := utils.SignJWT("secret", "user-1", "client", -1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := utils.ParseJWT("secret", tok); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := utils.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !utils.CheckPassword(hash, "correct horse") {
		t.Error("password should match its hash")
	}
	if utils.CheckPassword(hash, "wrong") {
		t.Error("wrong password must not match")
	}
}
