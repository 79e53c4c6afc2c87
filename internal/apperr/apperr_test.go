package apperr_test

import (
	"fmt"
	"testing"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/apperr"
)

func TestKindsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("payments: %w", apperr.Forbidden("Unauthorized"))

	if !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden kind through wrap")
	}
	if apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("forbidden must not match not found")
	}
}

func TestValidationFields(t *testing.T) {
	err := fmt.Errorf("apply: %w", apperr.InvalidField("job", "Cannot apply to closed jobs"))

	ve, ok := apperr.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := ve.Fields["job"]; len(got) != 1 || got[0] != "Cannot apply to closed jobs" {
		t.Errorf("unexpected fields: %#v", ve.Fields)
	}
}
