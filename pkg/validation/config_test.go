package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigValidator_Required(t *testing.T) {
	cv := NewConfigValidator("Building")
	cv.Required("Name", "")

	if !cv.HasErrors() {
		t.Error("Expected error for empty required field")
	}

	cv2 := NewConfigValidator("Building")
	cv2.Required("Name", "demo")

	if cv2.HasErrors() {
		t.Error("Expected no error for non-empty required field")
	}
}

func TestConfigValidator_Floats(t *testing.T) {
	cv := NewConfigValidator("Evaluator")
	cv.PositiveFloat("SideMultiplier", 0).
		NonNegativeFloat("Floor", -1).
		RangeFloat("Absorption", 1.5, 0, 1)

	if len(cv.Errors()) != 3 {
		t.Fatalf("Expected 3 errors, got %d: %v", len(cv.Errors()), cv.Errors())
	}

	cv2 := NewConfigValidator("Evaluator")
	cv2.PositiveFloat("SideMultiplier", 2).
		NonNegativeFloat("Floor", 0).
		RangeFloat("Absorption", 1, 0, 1)

	if cv2.HasErrors() {
		t.Errorf("Expected no errors, got %v", cv2.Errors())
	}
}

func TestConfigValidator_UniqueIDs(t *testing.T) {
	cv := NewConfigValidator("Building")
	cv.UniqueIDs("Spaces", []string{"H1", "H2", "H1"})

	if len(cv.Errors()) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(cv.Errors()))
	}
	if !strings.Contains(cv.Errors()[0].Error(), `duplicate id "H1"`) {
		t.Errorf("Unexpected message: %v", cv.Errors()[0])
	}
}

func TestConfigValidator_References(t *testing.T) {
	known := map[string]bool{"H1": true, "H2": true}

	cv := NewConfigValidator("Wall")
	cv.References("Spaces", []string{"H1", "H9"}, known)

	if len(cv.Errors()) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(cv.Errors()))
	}
}

func TestConfigValidator_OneOf(t *testing.T) {
	cv := NewConfigValidator("NoiseSource")
	cv.OneOf("Frequency", 1000, []int{500, 2000})
	if !cv.HasErrors() {
		t.Error("Expected error for value outside allowed set")
	}

	cv2 := NewConfigValidator("NoiseSource")
	cv2.OneOf("Frequency", 2000, []int{500, 2000})
	if cv2.HasErrors() {
		t.Error("Expected no error for allowed value")
	}
}

func TestConfigValidator_CustomAndWhen(t *testing.T) {
	sentinel := errors.New("boom")

	cv := NewConfigValidator("Repair")
	cv.Custom("Seed", func() error { return sentinel }).
		When(false, func(v *ConfigValidator) { v.Required("Skipped", "") }).
		When(true, func(v *ConfigValidator) { v.Required("Applied", "") })

	if len(cv.Errors()) != 2 {
		t.Fatalf("Expected 2 errors, got %d", len(cv.Errors()))
	}
	if !errors.Is(cv.Validate(), sentinel) {
		t.Error("Expected joined error to wrap the custom error")
	}
}

func TestConfigValidator_ValidateEmpty(t *testing.T) {
	if err := NewConfigValidator("Empty").Validate(); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}

func TestDefaultOr(t *testing.T) {
	if got := DefaultOr("", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %s", got)
	}
	if got := DefaultOr(2.5, 1.0); got != 2.5 {
		t.Errorf("Expected 2.5, got %v", got)
	}
}
