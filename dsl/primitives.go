package dsl

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/reoring/skemapi"
	js "github.com/reoring/skemapi/jsonschema"
)

// String returns the string schema. Numbers and booleans are rejected.
func String() skemapi.Schema[string] { return stringSchema{} }

// Bool returns the boolean schema.
func Bool() skemapi.Schema[bool] { return boolSchema{} }

// FloatBuilder is a float64 schema with chaining options.
type FloatBuilder interface {
	skemapi.Schema[float64]
	CoerceFromString() FloatBuilder
}

// IntBuilder is an int schema with chaining options.
type IntBuilder interface {
	skemapi.Schema[int]
	CoerceFromString() IntBuilder
}

// Float returns a number schema. Any JSON number is accepted; numeric strings
// only after CoerceFromString.
func Float() FloatBuilder { return &floatSchema{} }

// Int returns an integer schema. Integral JSON numbers (5, 5.0) are accepted;
// decimal integer strings ("42") only after CoerceFromString.
func Int() IntBuilder { return &intSchema{} }

// StringOf returns an AnyAdapter for a string projected to domain type T.
func StringOf[T ~string]() AnyAdapter {
	return project[string, T](String(), func(s string) T { return T(s) }, func(t T) string { return string(t) })
}

// BoolOf returns an AnyAdapter for a bool projected to domain type T.
func BoolOf[T ~bool]() AnyAdapter {
	return project[bool, T](Bool(), func(b bool) T { return T(b) }, func(t T) bool { return bool(t) })
}

// FloatOf returns an AnyAdapter for a number projected to domain type T.
func FloatOf[T ~float64]() AnyAdapter {
	return project[float64, T](Float(), func(f float64) T { return T(f) }, func(t T) float64 { return float64(t) })
}

// IntOf returns an AnyAdapter for an integer projected to domain type T.
func IntOf[T ~int]() AnyAdapter {
	return project[int, T](Int(), func(i int) T { return T(i) }, func(t T) int { return int(t) })
}

func project[W, T any](wire skemapi.Schema[W], to func(W) T, from func(T) W) AnyAdapter {
	ad := anyAdapterFromSchema[T](projectedSchema[W, T]{wire: wire, to: to, from: from})
	ad.orig = wire
	return ad
}

// projectedSchema runs a wire schema and converts its result to T.
type projectedSchema[W, T any] struct {
	wire skemapi.Schema[W]
	to   func(W) T
	from func(T) W
}

func (p projectedSchema[W, T]) Parse(ctx context.Context, v any) (T, error) {
	w, err := p.wire.Parse(ctx, v)
	if err != nil {
		var zero T
		return zero, err
	}
	return p.to(w), nil
}

func (p projectedSchema[W, T]) ParseWithMeta(ctx context.Context, v any) (skemapi.Decoded[T], error) {
	dw, err := p.wire.ParseWithMeta(ctx, v)
	if err != nil {
		return skemapi.Decoded[T]{Presence: dw.Presence}, err
	}
	return skemapi.Decoded[T]{Value: p.to(dw.Value), Presence: dw.Presence}, nil
}

func (p projectedSchema[W, T]) TypeCheck(ctx context.Context, v any) error {
	return p.wire.TypeCheck(ctx, v)
}
func (p projectedSchema[W, T]) RuleCheck(ctx context.Context, v any) error {
	return p.wire.RuleCheck(ctx, v)
}
func (p projectedSchema[W, T]) Validate(ctx context.Context, v any) error {
	return p.wire.Validate(ctx, v)
}
func (p projectedSchema[W, T]) ValidateValue(ctx context.Context, v T) error {
	return p.wire.ValidateValue(ctx, p.from(v))
}
func (p projectedSchema[W, T]) JSONSchema() (*js.Schema, error) { return p.wire.JSONSchema() }

// ---- string ----

type stringSchema struct{}

func (stringSchema) Parse(ctx context.Context, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", skemapi.NewIssues(skemapi.Loc{}, skemapi.CodeString)
	}
	return s, nil
}

func (stringSchema) ParseWithMeta(ctx context.Context, v any) (skemapi.Decoded[string], error) {
	s, err := (stringSchema{}).Parse(ctx, v)
	return skemapi.Decoded[string]{Value: s, Presence: rootSeen()}, err
}

func (stringSchema) TypeCheck(ctx context.Context, v any) error {
	_, err := (stringSchema{}).Parse(ctx, v)
	return err
}

func (stringSchema) RuleCheck(ctx context.Context, v any) error { return nil }

func (stringSchema) Validate(ctx context.Context, v any) error {
	return (stringSchema{}).TypeCheck(ctx, v)
}

func (stringSchema) ValidateValue(ctx context.Context, v string) error { return nil }

func (stringSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "string"}, nil }

// ---- bool ----

type boolSchema struct{}

func (boolSchema) Parse(ctx context.Context, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, skemapi.NewIssues(skemapi.Loc{}, skemapi.CodeBool)
	}
	return b, nil
}

func (boolSchema) ParseWithMeta(ctx context.Context, v any) (skemapi.Decoded[bool], error) {
	b, err := (boolSchema{}).Parse(ctx, v)
	return skemapi.Decoded[bool]{Value: b, Presence: rootSeen()}, err
}

func (boolSchema) TypeCheck(ctx context.Context, v any) error {
	_, err := (boolSchema{}).Parse(ctx, v)
	return err
}

func (boolSchema) RuleCheck(ctx context.Context, v any) error { return nil }

func (boolSchema) Validate(ctx context.Context, v any) error {
	return (boolSchema{}).TypeCheck(ctx, v)
}

func (boolSchema) ValidateValue(ctx context.Context, v bool) error { return nil }

func (boolSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "boolean"}, nil }

// ---- float ----

type floatSchema struct{ coerceFromString bool }

func (f *floatSchema) CoerceFromString() FloatBuilder {
	f.coerceFromString = true
	return f
}

func (f *floatSchema) Parse(ctx context.Context, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		if x, err := strconv.ParseFloat(string(n), 64); err == nil {
			return x, nil
		}
	case string:
		if f.coerceFromString {
			if x, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil && !math.IsInf(x, 0) && !math.IsNaN(x) {
				return x, nil
			}
		}
	}
	return 0, skemapi.NewIssues(skemapi.Loc{}, skemapi.CodeFloat)
}

func (f *floatSchema) ParseWithMeta(ctx context.Context, v any) (skemapi.Decoded[float64], error) {
	x, err := f.Parse(ctx, v)
	return skemapi.Decoded[float64]{Value: x, Presence: rootSeen()}, err
}

func (f *floatSchema) TypeCheck(ctx context.Context, v any) error {
	_, err := f.Parse(ctx, v)
	return err
}

func (f *floatSchema) RuleCheck(ctx context.Context, v any) error { return nil }

func (f *floatSchema) Validate(ctx context.Context, v any) error { return f.TypeCheck(ctx, v) }

func (f *floatSchema) ValidateValue(ctx context.Context, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return skemapi.NewIssues(skemapi.Loc{}, skemapi.CodeFloat)
	}
	return nil
}

func (f *floatSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "number"}, nil }

// ---- int ----

type intSchema struct{ coerceFromString bool }

func (i *intSchema) CoerceFromString() IntBuilder {
	i.coerceFromString = true
	return i
}

func (i *intSchema) Parse(ctx context.Context, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if x, ok := integral(n); ok {
			return x, nil
		}
	case json.Number:
		if x, ok := parseIntegral(string(n)); ok {
			return x, nil
		}
	case string:
		if i.coerceFromString {
			if x, err := strconv.ParseInt(strings.TrimSpace(n), 10, strconv.IntSize); err == nil {
				return int(x), nil
			}
		}
	}
	return 0, skemapi.NewIssues(skemapi.Loc{}, skemapi.CodeInteger)
}

func (i *intSchema) ParseWithMeta(ctx context.Context, v any) (skemapi.Decoded[int], error) {
	x, err := i.Parse(ctx, v)
	return skemapi.Decoded[int]{Value: x, Presence: rootSeen()}, err
}

func (i *intSchema) TypeCheck(ctx context.Context, v any) error {
	_, err := i.Parse(ctx, v)
	return err
}

func (i *intSchema) RuleCheck(ctx context.Context, v any) error { return nil }

func (i *intSchema) Validate(ctx context.Context, v any) error { return i.TypeCheck(ctx, v) }

func (i *intSchema) ValidateValue(ctx context.Context, v int) error { return nil }

func (i *intSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "integer"}, nil }

// parseIntegral accepts the JSON numbers "5", "5.0" and "5e1" but not "5.5"
// or out-of-range values.
func parseIntegral(s string) (int, bool) {
	if x, err := strconv.ParseInt(s, 10, strconv.IntSize); err == nil {
		return int(x), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return integral(f)
}

func integral(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int(f), true
}

func rootSeen() skemapi.PresenceMap { return skemapi.PresenceMap{"/": skemapi.PresenceSeen} }
