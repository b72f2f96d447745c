package tools

import "fmt"

// InvalidInputError means a tool argument is missing or malformed.
// Raised before any core logic runs and surfaced as an invalid-params
// protocol error, never as tool content.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// StringArg extracts a required string argument.
func StringArg(input map[string]any, key string) (string, error) {
	raw, ok := input[key]
	if !ok {
		return "", invalid(key, "is required")
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", invalid(key, "must be a non-empty string")
	}
	return s, nil
}

// OptionalStringArg extracts an optional string argument, returning
// fallback when absent.
func OptionalStringArg(input map[string]any, key, fallback string) (string, error) {
	raw, ok := input[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", invalid(key, "must be a string")
	}
	return s, nil
}

// IntArg extracts a required integer argument. JSON numbers decode as
// float64, so both representations are accepted.
func IntArg(input map[string]any, key string) (int64, error) {
	raw, ok := input[key]
	if !ok {
		return 0, invalid(key, "is required")
	}
	switch v := raw.(type) {
	case float64:
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, invalid(key, "must be a number")
	}
}

// OptionalIntArg extracts an optional integer argument; nil when absent.
func OptionalIntArg(input map[string]any, key string) (*int, error) {
	if _, ok := input[key]; !ok {
		return nil, nil
	}
	v, err := IntArg(input, key)
	if err != nil {
		return nil, err
	}
	n := int(v)
	return &n, nil
}

// BoolArg extracts an optional boolean argument, false when absent.
func BoolArg(input map[string]any, key string) (bool, error) {
	raw, ok := input[key]
	if !ok || raw == nil {
		return false, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, invalid(key, "must be a boolean")
	}
	return b, nil
}

// StringSliceArg extracts a string-array argument. When required is
// false an absent key yields nil.
func StringSliceArg(input map[string]any, key string, required bool) ([]string, error) {
	raw, ok := input[key]
	if !ok || raw == nil {
		if required {
			return nil, invalid(key, "is required")
		}
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, invalid(key, "must be an array of strings")
	}
	if required && len(items) == 0 {
		return nil, invalid(key, "must not be empty")
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, invalid(key, "must be an array of strings")
		}
		out = append(out, s)
	}
	return out, nil
}
