package dsl_test

import (
	"context"
	"errors"
	"testing"

	"github.com/reoring/skemapi"
	g "github.com/reoring/skemapi/dsl"
)

type bindItem struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description *string  `json:"description"`
	Tax         *float64 `json:"tax"`
	Alias       string   `skemapi:"name=nickname"`
}

func bindItemSchema() *g.TypedObject[bindItem] {
	return g.ObjectOf[bindItem]().
		Named("Item").
		Field("name", g.StringOf[string]()).Required().
		Field("price", g.FloatOf[float64]()).Required().
		Field("description", g.StringOf[string]()).Optional().
		Field("tax", g.FloatOf[float64]()).Optional().
		Field("nickname", g.StringOf[string]()).Optional().
		UnknownStrip().
		MustBind()
}

func TestBind_OptionalPointersStayNil(t *testing.T) {
	v, err := bindItemSchema().Parse(context.Background(), map[string]any{"name": "Foo", "price": 50.5})
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if v.Name != "Foo" || v.Price != 50.5 || v.Description != nil || v.Tax != nil {
		t.Fatalf("unexpected value: %+v", v)
	}
}

func TestBind_PointerFieldsAndTagResolution(t *testing.T) {
	v, err := bindItemSchema().Parse(context.Background(), map[string]any{
		"name": "Foo", "price": 1.0, "description": "d", "tax": 0.5, "nickname": "F",
	})
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if v.Description == nil || *v.Description != "d" || v.Tax == nil || *v.Tax != 0.5 || v.Alias != "F" {
		t.Fatalf("unexpected value: %+v", v)
	}
}

func TestBind_NestedTypedObjects(t *testing.T) {
	type order struct {
		Item  bindItem  `json:"item"`
		Extra *bindItem `json:"extra"`
	}
	s := g.ObjectOf[order]().
		Field("item", g.SchemaOf[bindItem](bindItemSchema())).Required().
		Field("extra", g.SchemaOf[bindItem](bindItemSchema())).Optional().
		MustBind()

	v, err := s.Parse(context.Background(), map[string]any{
		"item":  map[string]any{"name": "a", "price": 1.0},
		"extra": map[string]any{"name": "b", "price": 2.0},
	})
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if v.Item.Name != "a" || v.Extra == nil || v.Extra.Name != "b" {
		t.Fatalf("unexpected value: %+v", v)
	}
}

func TestBind_RejectsUnmappedKeys(t *testing.T) {
	_, err := g.ObjectOf[bindItem]().Field("unknown_key", g.StringOf[string]()).Bind()
	if err == nil {
		t.Fatalf("expected bind error for key without struct field")
	}
	_, err = g.Bind[int](g.Object())
	if err == nil {
		t.Fatalf("expected bind error for non-struct type")
	}
}

func TestBind_ValidateValue(t *testing.T) {
	ctx := context.Background()
	s := bindItemSchema()
	if err := s.ValidateValue(ctx, bindItem{Name: "n"}); err != nil {
		t.Fatalf("zero-valued required fields count as present: %v", err)
	}
	if s.SchemaName() != "Item" {
		t.Fatalf("unexpected name %q", s.SchemaName())
	}
}

func TestBind_RefineT(t *testing.T) {
	ctx := context.Background()
	s := g.ObjectOf[bindItem]().
		Field("name", g.StringOf[string]()).Required().
		Field("price", g.FloatOf[float64]()).Required().
		RefineT("price-positive", func(ctx context.Context, it bindItem) error {
			if it.Price <= 0 {
				return skemapi.Issues{skemapi.IssueAt(skemapi.Loc{"price"}, skemapi.CodeNumberNotGE, map[string]any{"limit_value": 0})}
			}
			return nil
		}).
		RefineT("name", func(ctx context.Context, it bindItem) error {
			if it.Name == "" {
				return errors.New("name must not be empty")
			}
			return nil
		}).
		MustBind()

	_, err := s.Parse(ctx, map[string]any{"name": "", "price": -1.0})
	iss, ok := skemapi.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("expected two issues, got %v", err)
	}
	if iss[0].Loc.Pointer() != "/price" || iss[1].Code != skemapi.CodeCustom {
		t.Fatalf("unexpected issues: %+v", iss)
	}
	if _, err := s.Parse(ctx, map[string]any{"name": "ok", "price": 1.0}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestBind_ParseFromWithMeta(t *testing.T) {
	ctx := context.Background()
	dm, err := skemapi.ParseFromWithMeta(ctx, skemapi.Schema[bindItem](bindItemSchema()), skemapi.JSONBytes([]byte(`{"name":"Foo","price":2,"tax":null}`)))
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if dm.Value.Price != 2 || dm.Value.Tax != nil {
		t.Fatalf("unexpected value: %+v", dm.Value)
	}
	if !dm.Presence.Seen("/tax") || dm.Presence["/tax"]&skemapi.PresenceWasNull == 0 {
		t.Fatalf("expected /tax seen as null, got %v", dm.Presence)
	}
	if dm.Presence.Seen("/description") {
		t.Fatalf("description was not in the input")
	}
}
