package dsl

import (
	"context"
	"fmt"
	"reflect"

	"github.com/reoring/skemapi"
	js "github.com/reoring/skemapi/jsonschema"
)

// Bind builds an object schema and binds it to struct type T.
func Bind[T any](b *objectBuilder) (*TypedObject[T], error) {
	os, err := b.build()
	if err != nil {
		return nil, err
	}
	return newTypedObject[T](os, nil)
}

// MustBind is like Bind but panics on error.
func MustBind[T any](b *objectBuilder) *TypedObject[T] {
	s, err := Bind[T](b)
	if err != nil {
		panic(err)
	}
	return s
}

// TypedObject is an object schema bound to struct type T. Keys resolve to
// struct fields through skemapi.ResolveStructKey; pointer fields stay nil when
// the key is absent or null.
type TypedObject[T any] struct {
	inner      *objectSchema
	t          reflect.Type
	ptr        bool
	fieldByKey map[string]int
	rules      []typedRule[T]
}

var (
	_ skemapi.Schema[struct{}] = (*TypedObject[struct{}])(nil)
	_ js.Exporter              = (*TypedObject[struct{}])(nil)
	_ skemapi.Named            = (*TypedObject[struct{}])(nil)
)

func newTypedObject[T any](os *objectSchema, rules []typedRule[T]) (*TypedObject[T], error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	ptr := false
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
		ptr = true
	}
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("dsl: Bind[T] requires a struct type, got %s", rt)
	}
	idxByName := make(map[string]int)
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := skemapi.ResolveStructKey(sf)
		if name == "-" || name == "" {
			continue
		}
		idxByName[name] = i
	}
	fm := make(map[string]int, len(os.fields))
	for _, f := range os.fields {
		i, ok := idxByName[f.name]
		if !ok {
			return nil, fmt.Errorf("dsl: %s has no field for key %q", rt, f.name)
		}
		fm[f.name] = i
	}
	return &TypedObject[T]{inner: os, t: rt, ptr: ptr, fieldByKey: fm, rules: append([]typedRule[T](nil), rules...)}, nil
}

// SchemaName implements skemapi.Named.
func (s *TypedObject[T]) SchemaName() string { return s.inner.name }

// Keys returns the object keys in declaration order.
func (s *TypedObject[T]) Keys() []string {
	out := make([]string, len(s.inner.fields))
	for i, f := range s.inner.fields {
		out[i] = f.name
	}
	return out
}

// Parse validates v through the object schema and maps the result onto T.
func (s *TypedObject[T]) Parse(ctx context.Context, v any) (T, error) {
	var zero T
	m, err := s.inner.Parse(ctx, v)
	if err != nil {
		return zero, err
	}
	out, err := s.fromMap(m)
	if err != nil {
		return zero, err
	}
	if err := s.runRules(ctx, out); err != nil {
		return zero, err
	}
	return out, nil
}

func (s *TypedObject[T]) ParseWithMeta(ctx context.Context, v any) (skemapi.Decoded[T], error) {
	dm, err := s.inner.ParseWithMeta(ctx, v)
	if err != nil {
		return skemapi.Decoded[T]{Presence: dm.Presence}, err
	}
	out, err := s.fromMap(dm.Value)
	if err == nil {
		err = s.runRules(ctx, out)
	}
	if err != nil {
		return skemapi.Decoded[T]{Presence: dm.Presence}, err
	}
	return skemapi.Decoded[T]{Value: out, Presence: dm.Presence}, nil
}

func (s *TypedObject[T]) fromMap(m map[string]any) (T, error) {
	var zero T
	rv := reflect.New(s.t).Elem()
	for key, idx := range s.fieldByKey {
		val, ok := m[key]
		if !ok || val == nil {
			continue
		}
		if err := assign(rv.Field(idx), reflect.ValueOf(val)); err != nil {
			return zero, skemapi.Issues{{Loc: skemapi.Loc{key}, Code: skemapi.CodeInternal, Message: err.Error(), Cause: err}}
		}
	}
	if s.ptr {
		return rv.Addr().Interface().(T), nil
	}
	return rv.Interface().(T), nil
}

// assign stores vv into fv, allocating through one level of pointer.
func assign(fv, vv reflect.Value) error {
	switch {
	case vv.Type().AssignableTo(fv.Type()):
		fv.Set(vv)
	case vv.Kind() == fv.Kind() && vv.Type().ConvertibleTo(fv.Type()):
		fv.Set(vv.Convert(fv.Type()))
	case fv.Kind() == reflect.Pointer:
		p := reflect.New(fv.Type().Elem())
		if err := assign(p.Elem(), vv); err != nil {
			return err
		}
		fv.Set(p)
	case fv.Kind() == reflect.Interface && vv.Type().Implements(fv.Type()):
		fv.Set(vv)
	default:
		return fmt.Errorf("cannot assign %s to field of type %s", vv.Type(), fv.Type())
	}
	return nil
}

func (s *TypedObject[T]) runRules(ctx context.Context, v T) error {
	if len(s.rules) == 0 {
		return nil
	}
	var iss skemapi.Issues
	for _, r := range s.rules {
		if err := r.fn(ctx, v); err != nil {
			iss = skemapi.AppendIssues(iss, skemapi.IssuesFromErr(skemapi.Loc{}, err)...)
			if skemapi.IsFailFast(ctx) {
				break
			}
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func (s *TypedObject[T]) TypeCheck(ctx context.Context, v any) error {
	return s.inner.TypeCheck(ctx, v)
}
func (s *TypedObject[T]) RuleCheck(ctx context.Context, v any) error {
	return s.inner.RuleCheck(ctx, v)
}
func (s *TypedObject[T]) Validate(ctx context.Context, v any) error {
	return s.inner.Validate(ctx, v)
}

// ValidateValue checks an already typed value. Nil pointer fields count as
// absent; other zero values count as present.
func (s *TypedObject[T]) ValidateValue(ctx context.Context, v T) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return skemapi.NewIssues(skemapi.Loc{}, skemapi.CodeNoneNotAllowed)
		}
		rv = rv.Elem()
	}
	m := make(map[string]any, len(s.fieldByKey))
	for key, idx := range s.fieldByKey {
		fv := rv.Field(idx)
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		m[key] = fv.Interface()
	}
	if err := s.inner.ValidateValue(ctx, m); err != nil {
		return err
	}
	return s.runRules(ctx, v)
}

func (s *TypedObject[T]) JSONSchema() (*js.Schema, error) { return s.inner.JSONSchema() }

func (s *TypedObject[T]) ExportJSONSchema(defs *js.Definitions) (*js.Schema, error) {
	return s.inner.ExportJSONSchema(defs)
}
