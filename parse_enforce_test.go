package skemapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/reoring/skemapi"
	g "github.com/reoring/skemapi/dsl"
	js "github.com/reoring/skemapi/jsonschema"
	"github.com/reoring/skemapi/source/gojson"
)

// noop schema for tests
type noopSchema struct{}

func (noopSchema) Parse(ctx context.Context, v any) (struct{}, error) { return struct{}{}, nil }
func (noopSchema) ParseWithMeta(ctx context.Context, v any) (skemapi.Decoded[struct{}], error) {
	return skemapi.Decoded[struct{}]{Value: struct{}{}, Presence: skemapi.PresenceMap{"/": skemapi.PresenceSeen}}, nil
}
func (noopSchema) TypeCheck(ctx context.Context, v any) error          { return nil }
func (noopSchema) RuleCheck(ctx context.Context, v any) error          { return nil }
func (noopSchema) Validate(ctx context.Context, v any) error           { return nil }
func (noopSchema) ValidateValue(ctx context.Context, v struct{}) error { return nil }
func (noopSchema) JSONSchema() (*js.Schema, error)                     { return &js.Schema{}, nil }

func firstIssue(t *testing.T, err error) skemapi.Issue {
	t.Helper()
	iss, ok := skemapi.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues, got %v", err)
	}
	return iss[0]
}

func TestStreamParse_DuplicateKey_Error(t *testing.T) {
	opt := skemapi.ParseOpt{Strictness: skemapi.Strictness{OnDuplicateKey: skemapi.Error}}
	_, err := skemapi.StreamParse(context.Background(), noopSchema{}, bytes.NewReader([]byte(`{"a":1,"a":2}`)), opt)
	it := firstIssue(t, err)
	if it.Code != skemapi.CodeDuplicateKey || it.Path() != "/a" {
		t.Fatalf("expected duplicate_key at /a, got %+v", it)
	}
}

func TestStreamParse_DuplicateKey_NestedPath(t *testing.T) {
	opt := skemapi.ParseOpt{Strictness: skemapi.Strictness{OnDuplicateKey: skemapi.Error}}
	_, err := skemapi.StreamParse(context.Background(), noopSchema{}, bytes.NewReader([]byte(`[{"a":1,"a":2}]`)), opt)
	it := firstIssue(t, err)
	if !reflect.DeepEqual(it.Loc, skemapi.Loc{0, "a"}) {
		t.Fatalf("expected loc [0 a], got %v", it.Loc)
	}
}

func TestParseFrom_DuplicateKey_WarnAndIgnore(t *testing.T) {
	ctx := context.Background()
	for _, sev := range []skemapi.Severity{skemapi.Ignore, skemapi.Warn} {
		opt := skemapi.ParseOpt{Strictness: skemapi.Strictness{OnDuplicateKey: sev}}
		if _, err := skemapi.ParseFrom(ctx, noopSchema{}, skemapi.JSONBytes([]byte(`{"a":1,"a":2}`)), opt); err != nil {
			t.Fatalf("severity %d must not fail: %v", sev, err)
		}
	}
	opt := skemapi.ParseOpt{Strictness: skemapi.Strictness{OnDuplicateKey: skemapi.Warn}, FailFast: true}
	_, err := skemapi.ParseFrom(ctx, noopSchema{}, skemapi.JSONBytes([]byte(`{"a":1,"a":2}`)), opt)
	if firstIssue(t, err).Code != skemapi.CodeDuplicateKey {
		t.Fatalf("fail-fast must escalate warnings, got %v", err)
	}
}

func TestParseFrom_MaxDepth(t *testing.T) {
	_, err := skemapi.ParseFrom(context.Background(), noopSchema{}, skemapi.JSONBytes([]byte(`[[[1]]]`)), skemapi.ParseOpt{MaxDepth: 2})
	it := firstIssue(t, err)
	if it.Code != skemapi.CodeTooDeep || it.Path() != "/0/0" {
		t.Fatalf("expected too_deep at /0/0, got %+v", it)
	}
}

func TestParseFrom_MaxBytes(t *testing.T) {
	ctx := context.Background()
	in := []byte(`{"a":"0123456789"}`)
	_, err := skemapi.ParseFrom(ctx, noopSchema{}, skemapi.JSONBytes(in), skemapi.ParseOpt{MaxBytes: 5})
	if firstIssue(t, err).Code != skemapi.CodeTooLarge {
		t.Fatalf("expected too_large, got %v", err)
	}

	_, err = skemapi.StreamParse(ctx, noopSchema{}, bytes.NewReader(in), skemapi.ParseOpt{MaxBytes: 5})
	it := firstIssue(t, err)
	if it.Code != skemapi.CodeTooLarge || len(it.Loc) != 0 {
		t.Fatalf("expected root too_large, got %+v", it)
	}
	if _, err := skemapi.StreamParse(ctx, noopSchema{}, bytes.NewReader(in), skemapi.ParseOpt{MaxBytes: int64(len(in))}); err != nil {
		t.Fatalf("input at the limit must pass: %v", err)
	}
}

func TestDecodeValue(t *testing.T) {
	v, err := skemapi.DecodeValue(skemapi.JSONBytes([]byte(`{"n":2.5,"l":[true,null]}`)), skemapi.ParseOpt{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{"n": json.Number("2.5"), "l": []any{true, nil}}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %#v", v)
	}

	_, err = skemapi.DecodeValue(skemapi.JSONBytes([]byte(`1 2`)), skemapi.ParseOpt{})
	it := firstIssue(t, err)
	if it.Code != skemapi.CodeJSONDecode || it.Message != "Extra data" {
		t.Fatalf("expected extra data, got %+v", it)
	}

	_, err = skemapi.DecodeValue(skemapi.JSONBytes(nil), skemapi.ParseOpt{})
	it = firstIssue(t, err)
	if it.Code != skemapi.CodeJSONDecode || it.Message != "Expecting value" || len(it.Loc) != 0 {
		t.Fatalf("expected empty input error, got %+v", it)
	}

	_, err = skemapi.DecodeValue(skemapi.JSONBytes([]byte(`{"a":}`)), skemapi.ParseOpt{})
	it = firstIssue(t, err)
	if it.Code != skemapi.CodeJSONDecode || len(it.Loc) != 1 {
		t.Fatalf("expected syntax error located at an offset, got %+v", it)
	}
	if _, ok := it.Loc[0].(int); !ok || it.Params["pos"] != it.Loc[0] {
		t.Fatalf("offset must be an int mirrored in params: %+v", it)
	}

	offsets := map[string]int{
		`{"a":1} x`:  8,
		`  {"a":1}x`: 9,
		`{"a":1x}`:   6,
		`{"a":}`:     5,
		`[1, tru]`:   7,
		`{"a":tX`:    6,
		`{"a" 1}`:    5,
	}
	for in, want := range offsets {
		_, err := skemapi.DecodeValue(skemapi.JSONBytes([]byte(in)), skemapi.ParseOpt{})
		it := firstIssue(t, err)
		if !reflect.DeepEqual(it.Loc, skemapi.Loc{want}) || it.Params["pos"] != want {
			t.Fatalf("%s: expected offset %d, got %+v", in, want, it)
		}
		_, err = skemapi.DecodeValue(skemapi.JSONReader(strings.NewReader(in)), skemapi.ParseOpt{})
		if got := firstIssue(t, err).Loc; !reflect.DeepEqual(got, skemapi.Loc{want}) {
			t.Fatalf("%s (reader): expected offset %d, got %v", in, want, got)
		}
	}

	v, err = skemapi.DecodeValue(skemapi.WithNumberMode(skemapi.JSONBytes([]byte(`[1]`)), skemapi.NumberFloat64), skemapi.ParseOpt{})
	if err != nil || !reflect.DeepEqual(v, []any{1.0}) {
		t.Fatalf("float mode: v=%#v err=%v", v, err)
	}
}

type presenceItem struct {
	Name string  `json:"name"`
	Tax  *string `json:"tax"`
	Qty  int     `json:"qty"`
}

func presenceSchema() skemapi.Schema[presenceItem] {
	return g.ObjectOf[presenceItem]().
		Field("name", g.StringOf[string]()).Required().
		Field("tax", g.StringOf[string]()).Optional().
		Field("qty", g.IntOf[int]()).Default(1).
		UnknownStrip().
		MustBind()
}

func TestParseFromWithMeta_Presence(t *testing.T) {
	ctx := context.Background()
	dm, err := skemapi.ParseFromWithMeta(ctx, presenceSchema(), skemapi.JSONBytes([]byte(`{"name":"a","tax":null}`)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if dm.Value.Qty != 1 || dm.Value.Tax != nil {
		t.Fatalf("unexpected value %+v", dm.Value)
	}
	pm := dm.Presence
	if !pm.Seen("/name") || pm["/tax"]&skemapi.PresenceWasNull == 0 {
		t.Fatalf("unexpected presence %v", pm)
	}
	if !pm.DefaultOnly("/qty") || pm.Seen("/qty") {
		t.Fatalf("qty must be default-only: %v", pm)
	}

	dm, err = skemapi.ParseFromWithMeta(ctx, presenceSchema(), skemapi.JSONBytes([]byte(`{"name":"a"}`)),
		skemapi.ParseOpt{Presence: skemapi.PresenceOpt{Collect: true, Exclude: []string{"/qty"}}})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := dm.Presence["/qty"]; ok {
		t.Fatalf("excluded pointer must be dropped: %v", dm.Presence)
	}
}

func TestPresenceMap_RebaseAndMerge(t *testing.T) {
	pm := skemapi.PresenceMap{"/": skemapi.PresenceSeen, "/name": skemapi.PresenceSeen}
	got := skemapi.PresenceMap{"/body": skemapi.PresenceWasNull}.Merge(pm.Rebase("/body"))
	want := skemapi.PresenceMap{
		"/body":      skemapi.PresenceSeen | skemapi.PresenceWasNull,
		"/body/name": skemapi.PresenceSeen,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if skemapi.PresenceMap(nil).Rebase("/x") != nil {
		t.Fatalf("nil map must stay nil")
	}
	if m := skemapi.PresenceMap(nil).Merge(pm); len(m) != 2 {
		t.Fatalf("merge into nil: %v", m)
	}
}

func TestJSONDriverSwap(t *testing.T) {
	t.Cleanup(skemapi.UseDefaultJSONDriver)
	if skemapi.CurrentJSONDriver().Name() != skemapi.DefaultJSONDriverName {
		t.Fatalf("unexpected default driver %q", skemapi.CurrentJSONDriver().Name())
	}
	gojson.Use()
	if skemapi.CurrentJSONDriver().Name() != gojson.Name {
		t.Fatalf("driver not swapped")
	}
	skemapi.SetJSONDriver(nil)
	if skemapi.CurrentJSONDriver().Name() != gojson.Name {
		t.Fatalf("nil driver must be ignored")
	}

	ctx := context.Background()
	v, err := skemapi.ParseFrom(ctx, presenceSchema(), skemapi.JSONReader(strings.NewReader(`{"name":"a","qty":3}`)))
	if err != nil || v.Name != "a" || v.Qty != 3 {
		t.Fatalf("gojson parse: v=%+v err=%v", v, err)
	}
	opt := skemapi.ParseOpt{Strictness: skemapi.Strictness{OnDuplicateKey: skemapi.Error}}
	_, err = skemapi.ParseFrom(ctx, presenceSchema(), skemapi.JSONBytes([]byte(`{"name":"a","name":"b"}`)), opt)
	if firstIssue(t, err).Code != skemapi.CodeDuplicateKey {
		t.Fatalf("gojson duplicate key: %v", err)
	}
}
