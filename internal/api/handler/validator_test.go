package handler

import (
	"errors"
	"strings"
	"testing"
)

func TestValidator_UserRequest(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&userRequest{Name: "Ann", Email: "ann@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	err := v.Validate(&userRequest{Name: "", Email: "ann-at-x", Password: "secret1"})
	var invalid *InvalidFieldsError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidFieldsError, got %v", err)
	}
	if len(invalid.Fields) != 2 {
		t.Fatalf("expected 2 invalid fields, got %v", invalid.Fields)
	}
	if !strings.Contains(err.Error(), "name (required)") || !strings.Contains(err.Error(), "email (email)") {
		t.Fatalf("expected json field names in error, got %q", err.Error())
	}
}
