// Package schema declares structured output contracts as data and validates
// candidate JSON against them. The same Shape value drives both what is
// requested from the language model (as a response-schema constraint) and
// what is accepted back, so the two can never drift apart.
package schema

// Kind identifies the variant of a Shape.
type Kind string

const (
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
)

// Shape is a declarative structural contract for a value tree.
//
// Which fields are meaningful depends on Kind: Properties and Required apply
// to objects, Items to arrays, Enum to strings. Validation is purely
// structural; semantic rules (for example "the correct answer appears in the
// passage") are deliberately out of scope and belong to downstream consumers.
type Shape struct {
	Kind Kind

	// Properties maps field names to their shapes. Object kind only.
	// Fields present in the candidate but absent here are ignored.
	Properties map[string]*Shape

	// Required lists the property names that must be present. Object kind
	// only.
	Required []string

	// Items describes every element of an array. Array kind only.
	Items *Shape

	// Enum restricts a string to the listed values. String kind only; an
	// empty slice means any string.
	Enum []string
}

// Object builds an object shape from its properties and required field names.
func Object(properties map[string]*Shape, required ...string) *Shape {
	return &Shape{Kind: KindObject, Properties: properties, Required: required}
}

// Array builds an array shape whose elements all match items.
func Array(items *Shape) *Shape {
	return &Shape{Kind: KindArray, Items: items}
}

// String builds a plain string shape.
func String() *Shape {
	return &Shape{Kind: KindString}
}

// StringEnum builds a string shape restricted to the given values.
func StringEnum(values ...string) *Shape {
	return &Shape{Kind: KindString, Enum: values}
}

// Number builds a number shape.
func Number() *Shape {
	return &Shape{Kind: KindNumber}
}
