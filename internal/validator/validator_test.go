package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Color string `validate:"omitempty,hex_color"`
	Type  string `validate:"omitempty,savings_tx_type"`
	Role  string `validate:"omitempty,user_role"`
}

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := v.RegisterValidation("hex_color", validateHexColor); err != nil {
		t.Fatal(err)
	}
	if err := v.RegisterValidation("savings_tx_type", validateSavingsTxType); err != nil {
		t.Fatal(err)
	}
	if err := v.RegisterValidation("user_role", validateUserRole); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestCustomValidators(t *testing.T) {
	v := newValidate(t)

	tests := []struct {
		name  string
		in    sample
		valid bool
	}{
		{"valid color", sample{Color: "#84934A"}, true},
		{"short color", sample{Color: "#FFF"}, false},
		{"color without hash", sample{Color: "84934A"}, false},
		{"deposit", sample{Type: "deposit"}, true},
		{"withdraw", sample{Type: "withdraw"}, true},
		{"unknown type", sample{Type: "transfer"}, false},
		{"admin role", sample{Role: "Admin"}, true},
		{"user role", sample{Role: "User"}, true},
		{"lowercase role", sample{Role: "admin"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	v := newValidate(t)

	err := v.Struct(sample{Color: "red", Type: "transfer"})
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}

	got := Describe(verrs)
	want := "Color must be a #RRGGBB color; Type must be 'deposit' or 'withdraw'"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
