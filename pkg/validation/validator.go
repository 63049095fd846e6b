package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidNumericInput is wrapped by every rejection of a raw numeric
// field. Such input never reaches the building.
var ErrInvalidNumericInput = errors.New("invalid numeric input")

// ErrInvalidIdentifier is wrapped by rejections of an empty or malformed ID.
var ErrInvalidIdentifier = errors.New("invalid identifier")

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxIDLength    = 64
	MaxPaletteSize = 64

	idPattern = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)
)

func init() {
	validate = validator.New()
}

// InputError describes one rejected field.
type InputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %q %s: %v", e.Field, e.Value, e.Reason, e.Unwrap())
}

// Unwrap returns ErrInvalidIdentifier for the ID field and
// ErrInvalidNumericInput for every other field.
func (e *InputError) Unwrap() error {
	if e.Field == "ID" {
		return ErrInvalidIdentifier
	}
	return ErrInvalidNumericInput
}

// NoiseSourceInput is a raw edit of a noise source as typed by a user or
// sent in a request body.
type NoiseSourceInput struct {
	ID        string `json:"id" validate:"required,max=64"`
	Frequency string `json:"frequency" validate:"required,numeric"`
	Intensity string `json:"intensity" validate:"required,numeric"`
}

// NoiseSourceUpdate is a parsed, range-checked noise source edit.
type NoiseSourceUpdate struct {
	ID        string  `json:"id" validate:"required"`
	Frequency int     `json:"frequency" validate:"gt=0"`
	Intensity float64 `json:"intensity" validate:"gte=0"`
}

// ParseNoiseSourceInput validates raw input and converts it. A bad ID wraps
// ErrInvalidIdentifier; every other failure wraps ErrInvalidNumericInput.
func ParseNoiseSourceInput(in NoiseSourceInput) (NoiseSourceUpdate, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Frequency = strings.TrimSpace(in.Frequency)
	in.Intensity = strings.TrimSpace(in.Intensity)

	if err := validate.Struct(in); err != nil {
		return NoiseSourceUpdate{}, numericError(err, in)
	}
	if err := ValidateID(in.ID); err != nil {
		return NoiseSourceUpdate{}, &InputError{Field: "ID", Value: in.ID, Reason: err.Error()}
	}

	freq, err := strconv.Atoi(in.Frequency)
	if err != nil {
		return NoiseSourceUpdate{}, &InputError{Field: "Frequency", Value: in.Frequency, Reason: "must be a whole number of Hz"}
	}
	intensity, err := strconv.ParseFloat(in.Intensity, 64)
	if err != nil || math.IsInf(intensity, 0) || math.IsNaN(intensity) {
		return NoiseSourceUpdate{}, &InputError{Field: "Intensity", Value: in.Intensity, Reason: "must be a finite number"}
	}

	out := NoiseSourceUpdate{ID: in.ID, Frequency: freq, Intensity: intensity}
	if err := validate.Struct(out); err != nil {
		return NoiseSourceUpdate{}, numericError(err, in)
	}
	return out, nil
}

// ParseThreshold parses an optional threshold. Empty input means unset.
func ParseThreshold(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, &InputError{Field: "Threshold", Value: raw, Reason: "must be a finite number"}
	}
	if v < 0 {
		return nil, &InputError{Field: "Threshold", Value: raw, Reason: "must not be negative"}
	}
	return &v, nil
}

// ColoringRequest is a request to colour the building graph.
type ColoringRequest struct {
	Palette []string `json:"palette" validate:"omitempty,max=64,dive,required,max=32"`
}

// ValidateColoringRequest validates a colouring request. An empty palette
// means the configured default.
func ValidateColoringRequest(req *ColoringRequest) error {
	if req == nil {
		return errors.New("coloring request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateID validates a material, source or space identifier.
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("id '%s' exceeds maximum length of %d characters", id, MaxIDLength)
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("id '%s' contains invalid characters (only alphanumeric, dash and underscore allowed)", id)
	}
	return nil
}

// Struct validates v against its struct tags.
func Struct(v any) error {
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func numericError(err error, in NoiseSourceInput) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidNumericInput, err)
	}

	e := validationErrs[0]
	value := ""
	switch e.Field() {
	case "ID":
		value = in.ID
	case "Frequency":
		value = in.Frequency
	case "Intensity":
		value = in.Intensity
	}
	return &InputError{Field: e.Field(), Value: value, Reason: describeTag(e.Tag(), e.Param())}
}

func describeTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "numeric":
		return "is not a number"
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be at least " + param
	case "max":
		return "must not exceed " + param
	default:
		return "failed " + tag
	}
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		case "unique":
			return fmt.Errorf("%s: contains duplicates", field)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
