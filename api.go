package skemapi

import (
	"context"

	js "github.com/reoring/skemapi/jsonschema"
)

// Schema surfaces the SRP-aligned pillars of construction, type checking, value
// validation, and typed validation.
type Schema[T any] interface {
	// Parse transforms an unknown input into T (Coerce -> Normalize (Default) ->
	// Validate -> Refine). It returns Issues when validation fails.
	Parse(ctx context.Context, v any) (T, error)
	// ParseWithMeta returns the typed value together with presence metadata.
	ParseWithMeta(ctx context.Context, v any) (Decoded[T], error)

	// TypeCheck verifies structure, types and presence/nullable decisions.
	TypeCheck(ctx context.Context, v any) error

	// RuleCheck runs min/max and Refine validations assuming TypeCheck already
	// succeeded.
	RuleCheck(ctx context.Context, v any) error

	// Validate composes TypeCheck followed by RuleCheck.
	Validate(ctx context.Context, v any) error

	// ValidateValue verifies a value already typed as T without any conversion.
	ValidateValue(ctx context.Context, v T) error

	// JSONSchema projects the schema into a self-contained JSON Schema
	// representation (named objects are inlined).
	JSONSchema() (*js.Schema, error)
}

// Normalizer provides an optional hook to normalize typed values during the
// Normalize phase of parsing. If it is not implemented, the phase is skipped.
type Normalizer[T any] interface {
	Normalize(ctx context.Context, v T) (T, error)
}

// Refiner provides an optional hook at the end of parsing to perform
// cross-field validation or external I/O. If it is not implemented, the phase
// is skipped.
type Refiner[T any] interface {
	Refine(ctx context.Context, v T) error
}

// Named is implemented by schemas that are published as a named component
// (for example "#/components/schemas/Item").
type Named interface {
	SchemaName() string
}

// NameOf returns the component name of s, or "" when s is anonymous.
func NameOf(s any) string {
	if n, ok := s.(Named); ok {
		return n.SchemaName()
	}
	return ""
}

// SafeParse parses v into T, returning (zero, false) on validation error.
func SafeParse[T any](ctx context.Context, s Schema[T], v any) (T, bool) {
	val, err := s.Parse(ctx, v)
	if err != nil {
		var zero T
		return zero, false
	}
	return val, true
}

// Is returns true if v conforms to the schema s (TypeCheck+RuleCheck).
func Is[T any](ctx context.Context, s Schema[T], v any) bool {
	return s.Validate(ctx, v) == nil
}

// ---- Parse-time context options ----

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
)

// WithFailFast returns a child context that marks fail-fast parsing behavior.
// ParseFrom sets it from ParseOpt and schema implementations consume it.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current parse should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}
