package service

import (
	"errors"
	"testing"
)

func TestValidateLensAcceptsQuarterSteps(t *testing.T) {
	v := NewPrescriptionValidator()

	cases := []struct {
		sphere   float64
		cylinder float64
		wantCyl  float64
	}{
		{0, 0, 0},
		{-20, -15, -15},
		{20, 0, 0},
		{-2.25, -0.5, -0.5},
		{1.75, 2.25, -2.25},
		{-6.5, 1, -1},
	}
	for _, tc := range cases {
		got, err := v.ValidateLens(tc.sphere, tc.cylinder)
		if err != nil {
			t.Fatalf("ValidateLens(%v, %v): %v", tc.sphere, tc.cylinder, err)
		}
		if got != tc.wantCyl {
			t.Errorf("ValidateLens(%v, %v) cylinder = %v, want %v", tc.sphere, tc.cylinder, got, tc.wantCyl)
		}
	}
}

func TestValidateLensRejectsOutOfDomain(t *testing.T) {
	v := NewPrescriptionValidator()

	cases := []struct {
		name     string
		sphere   float64
		cylinder float64
	}{
		{"sphere too low", -20.25, 0},
		{"sphere too high", 20.25, 0},
		{"sphere off step", 1.1, 0},
		{"cylinder beyond -15", 0, -15.25},
		{"cylinder off step", 0, -1.3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := v.ValidateLens(tc.sphere, tc.cylinder); err == nil {
				t.Fatalf("ValidateLens(%v, %v) accepted, want error", tc.sphere, tc.cylinder)
			}
		})
	}
}

func TestValidateLensErrorIsValidationError(t *testing.T) {
	v := NewPrescriptionValidator()
	_, err := v.ValidateLens(99, 0)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %T, want *ValidationError", err)
	}
	if ve.Field != "sphere" {
		t.Errorf("field = %q, want sphere", ve.Field)
	}
}

func TestValidateBlock(t *testing.T) {
	v := NewPrescriptionValidator()

	valid := []struct{ base, addition float64 }{
		{0.5, 0},
		{1, 1},
		{2, 2.5},
		{4, 4},
		{6, 0},
		{8, 3.25},
		{10, 1.75},
	}
	for _, tc := range valid {
		if err := v.ValidateBlock(tc.base, tc.addition); err != nil {
			t.Errorf("ValidateBlock(%v, %v): %v", tc.base, tc.addition, err)
		}
	}

	invalid := []struct {
		name     string
		base     float64
		addition float64
	}{
		{"base not in curve set", 3, 0},
		{"base zero", 0, 0},
		{"addition below one", 2, 0.5},
		{"addition above four", 2, 4.25},
		{"addition off step", 2, 1.1},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			if err := v.ValidateBlock(tc.base, tc.addition); err == nil {
				t.Fatalf("ValidateBlock(%v, %v) accepted, want error", tc.base, tc.addition)
			}
		})
	}
}

func TestNormalizeCylinder(t *testing.T) {
	v := NewPrescriptionValidator()
	if got := v.NormalizeCylinder(2.25); got != -2.25 {
		t.Errorf("NormalizeCylinder(2.25) = %v, want -2.25", got)
	}
	if got := v.NormalizeCylinder(-1.5); got != -1.5 {
		t.Errorf("NormalizeCylinder(-1.5) = %v, want -1.5", got)
	}
	if got := v.NormalizeCylinder(0); got != 0 {
		t.Errorf("NormalizeCylinder(0) = %v, want 0", got)
	}
}
