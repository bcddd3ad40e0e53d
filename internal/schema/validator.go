package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrSchemaViolation is the base error for all structural validation
// failures. Concrete failures are reported as *Violation values that wrap
// it, so callers can branch with errors.Is and still read the field path.
var ErrSchemaViolation = errors.New("schema violation")

// Violation describes a single structural contract breach, locating the
// offending field by its path (for example
// "sections[0].questions[2].correctAnswer").
type Violation struct {
	// Path locates the offending value; empty for the document root.
	Path string

	// Reason says what was wrong at that path.
	Reason string
}

// Error implements the error interface.
func (v *Violation) Error() string {
	if v.Path == "" {
		return fmt.Sprintf("schema violation: %s", v.Reason)
	}
	return fmt.Sprintf("schema violation at %s: %s", v.Path, v.Reason)
}

// Unwrap supports errors.Is(err, ErrSchemaViolation).
func (v *Violation) Unwrap() error {
	return ErrSchemaViolation
}

// violationf builds a *Violation for the given path.
func violationf(path, format string, args ...any) *Violation {
	return &Violation{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the raw JSON document against the shape and returns the
// decoded value tree on success. The returned tree is exactly the decoded
// input, never coerced or defaulted: a failure is always surfaced as a
// *Violation naming the offending field path.
//
// A document that is not valid JSON at all is reported as a plain error that
// does not wrap ErrSchemaViolation, so callers can distinguish "unparsable
// payload" from "parsable but off-contract".
func Validate(shape *Shape, raw []byte) (any, error) {
	if shape == nil {
		return nil, errors.New("shape cannot be nil")
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("payload is not valid JSON: %w", err)
	}

	if err := validateValue(shape, value, ""); err != nil {
		return nil, err
	}

	return value, nil
}

// ValidateValue checks an already decoded value tree against the shape.
func ValidateValue(shape *Shape, value any) error {
	if shape == nil {
		return errors.New("shape cannot be nil")
	}
	return validateValue(shape, value, "")
}

func validateValue(shape *Shape, value any, path string) error {
	switch shape.Kind {
	case KindObject:
		return validateObject(shape, value, path)
	case KindArray:
		return validateArray(shape, value, path)
	case KindString:
		return validateString(shape, value, path)
	case KindNumber:
		if _, ok := value.(float64); !ok {
			return violationf(path, "expected number, got %s", typeName(value))
		}
		return nil
	case KindInteger:
		n, ok := value.(float64)
		if !ok {
			return violationf(path, "expected integer, got %s", typeName(value))
		}
		if n != math.Trunc(n) {
			return violationf(path, "expected integer, got fractional number %v", n)
		}
		return nil
	case KindBoolean:
		if _, ok := value.(bool); !ok {
			return violationf(path, "expected boolean, got %s", typeName(value))
		}
		return nil
	default:
		return violationf(path, "unknown shape kind %q", shape.Kind)
	}
}

func validateObject(shape *Shape, value any, path string) error {
	obj, ok := value.(map[string]any)
	if !ok {
		return violationf(path, "expected object, got %s", typeName(value))
	}

	for _, name := range shape.Required {
		if _, present := obj[name]; !present {
			return violationf(joinPath(path, name), "required field is missing")
		}
	}

	for name, propShape := range shape.Properties {
		propValue, present := obj[name]
		if !present {
			continue
		}
		if err := validateValue(propShape, propValue, joinPath(path, name)); err != nil {
			return err
		}
	}

	return nil
}

func validateArray(shape *Shape, value any, path string) error {
	arr, ok := value.([]any)
	if !ok {
		return violationf(path, "expected array, got %s", typeName(value))
	}

	if shape.Items == nil {
		return nil
	}

	for i, elem := range arr {
		if err := validateValue(shape.Items, elem, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}

	return nil
}

func validateString(shape *Shape, value any, path string) error {
	s, ok := value.(string)
	if !ok {
		return violationf(path, "expected string, got %s", typeName(value))
	}

	if len(shape.Enum) == 0 {
		return nil
	}

	for _, allowed := range shape.Enum {
		if s == allowed {
			return nil
		}
	}

	return violationf(path, "value %q is not one of %v", s, shape.Enum)
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

// typeName names a decoded JSON value's type for violation messages.
func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}
