// Package value classifies raw hub state strings into typed values
// tagged with their XSD value type.
package value

import "strconv"

// Type tags a classified value with its payload type.
type Type int

// Value type tags, in classification order.
const (
	Boolean Type = iota
	Integer
	Double
	String
)

// XSD value type URIs attached to forwarded notifications.
const (
	xsdBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDouble  = "http://www.w3.org/2001/XMLSchema#double"
	xsdString  = "http://www.w3.org/2001/XMLSchema#string"
)

// URI returns the XSD type URI for the tag.
func (t Type) URI() string {
	switch t {
	case Boolean:
		return xsdBoolean
	case Integer:
		return xsdInteger
	case Double:
		return xsdDouble
	default:
		return xsdString
	}
}

// String returns the tag name for logging.
func (t Type) String() string {
	switch t {
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Double:
		return "double"
	default:
		return "string"
	}
}

// Classify converts a raw state string into a typed value.
//
// Rules, in order, first match wins:
//  1. "on" → (true, Boolean); "off" → (false, Boolean)
//  2. Integer grammar (optional sign, digits only) → (int64, Integer)
//  3. Parseable as floating point → (float64, Double)
//  4. Otherwise → (raw, String)
//
// States "unknown" and "unavailable" are excluded upstream and never
// reach classification.
func Classify(raw string) (any, Type) {
	switch raw {
	case "on":
		return true, Boolean
	case "off":
		return false, Boolean
	}

	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i, Integer
	}

	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, Double
	}

	return raw, String
}
