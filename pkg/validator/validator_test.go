package validator

import (
	"context"
	"strings"
	"testing"
)

type transportPayload struct {
	Transportation string `validate:"required,transportation"`
}

func TestValidateTransportation(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"service is valid", "service", false},
		{"individual is valid", "individual", false},
		{"arbitrary value rejected", "helicopter", true},
		{"empty rejected", "", true},
		{"case sensitive", "Service", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(context.Background(), transportPayload{Transportation: tt.value})
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateErrorNamesField(t *testing.T) {
	err := Validate(context.Background(), transportPayload{Transportation: "bus"})
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !strings.Contains(err.Error(), "Transportation") {
		t.Errorf("error should name the offending field, got %q", err.Error())
	}
}

type requiredPayload struct {
	Name string `validate:"required"`
}

func TestValidateRequired(t *testing.T) {
	if err := Validate(context.Background(), requiredPayload{}); err == nil {
		t.Error("missing required field should fail validation")
	}
	if err := Validate(context.Background(), requiredPayload{Name: "x"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
