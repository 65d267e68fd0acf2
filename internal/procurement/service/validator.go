package service

import "math"

// Prescription value domains.
const (
	sphereMin   = -20.0
	sphereMax   = 20.0
	cylinderMin = -15.0
	additionMin = 1.0
	additionMax = 4.0
)

// baseCurves is the discrete set of valid block base curves.
var baseCurves = []float64{0.5, 1, 2, 4, 6, 8, 10}

// PrescriptionValidator checks and quantizes optical fields. Stateless; all
// methods are pure.
type PrescriptionValidator struct{}

func NewPrescriptionValidator() *PrescriptionValidator {
	return &PrescriptionValidator{}
}

// quarterStep reports whether v sits on the 0.25 diopter grid. The check runs
// on the value scaled to hundredths so float drift cannot flip it.
func quarterStep(v float64) bool {
	cents := int(math.Round(math.Abs(v) * 100))
	return cents%25 == 0
}

// NormalizeCylinder sign-normalizes a cylinder to the non-positive convention.
func (pv *PrescriptionValidator) NormalizeCylinder(v float64) float64 {
	return -math.Abs(v)
}

// ValidateLens checks a lens prescription. The returned cylinder is
// sign-normalized and must be stored in place of the input.
func (pv *PrescriptionValidator) ValidateLens(sphere, cylinder float64) (float64, error) {
	if !quarterStep(sphere) || sphere < sphereMin || sphere > sphereMax {
		return 0, &ValidationError{Field: "sphere", Value: sphere, Domain: "multiple of 0.25 in [-20.00, +20.00]"}
	}
	cyl := pv.NormalizeCylinder(cylinder)
	if !quarterStep(cyl) || cyl < cylinderMin {
		return 0, &ValidationError{Field: "cylinder", Value: cyl, Domain: "multiple of 0.25 in [-15.00, 0.00]"}
	}
	return cyl, nil
}

// ValidateBlock checks a block prescription: the base curve must be one of
// the discrete set, the addition either zero or on the grid in [1.00, 4.00].
func (pv *PrescriptionValidator) ValidateBlock(base, addition float64) error {
	valid := false
	for _, b := range baseCurves {
		if math.Abs(base-b) < 1e-9 {
			valid = true
			break
		}
	}
	if !valid {
		return &ValidationError{Field: "base", Value: base, Domain: "one of {0.5, 1, 2, 4, 6, 8, 10}"}
	}

	if addition == 0 {
		return nil
	}
	if !quarterStep(addition) || addition < additionMin || addition > additionMax {
		return &ValidationError{Field: "addition", Value: addition, Domain: "0 or multiple of 0.25 in [1.00, 4.00]"}
	}
	return nil
}
