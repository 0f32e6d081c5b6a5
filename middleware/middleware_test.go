package middleware_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/skemapi"
	g "github.com/reoring/skemapi/dsl"
	"github.com/reoring/skemapi/middleware"
)

func envelope() skemapi.Schema[map[string]any] {
	item := g.Object().
		Named("Item").
		Field("name", g.StringOf[string]()).Required().
		Field("price", g.FloatOf[float64]()).Required().
		UnknownStrip().
		MustBuild()
	return g.Object().
		Field("item", g.SchemaOf(item)).Required().
		Field("importance", g.IntOf[int]()).Required().
		UnknownStrip().
		MustBuild()
}

func locs(iss skemapi.Issues) []string {
	out := make([]string, 0, len(iss))
	for _, it := range iss {
		out = append(out, it.Loc.Pointer()+" "+it.Code)
	}
	return out
}

func TestParseBody_Embedded_NonObjectReportsEveryParameter(t *testing.T) {
	ctx := context.Background()
	want := []string{"/body/item value_error.missing", "/body/importance value_error.missing"}
	for _, body := range []string{"", "null", "[]", "5", `"x"`} {
		_, err := middleware.ParseBody(ctx, envelope(), strings.NewReader(body), middleware.BodyOpt{ParseOpt: middleware.DefaultParseOpt(), Embedded: true})
		iss, ok := skemapi.AsIssues(err)
		require.True(t, ok, "body %q: %v", body, err)
		assert.Equal(t, want, locs(iss), "body %q", body)
	}
}

func TestParseBody_NestedLocations(t *testing.T) {
	ctx := context.Background()
	_, err := middleware.ParseBody(ctx, envelope(), strings.NewReader(`{"item":{"name":"Foo","price":"high"},"importance":"x"}`), middleware.BodyOpt{Embedded: true})
	iss, ok := skemapi.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, []string{"/body/item/price type_error.float", "/body/importance type_error.integer"}, locs(iss))
}

func TestParseBody_SuccessCollectsPresence(t *testing.T) {
	ctx := context.Background()
	dm, err := middleware.ParseBody(ctx, envelope(), strings.NewReader(`{"item":{"name":"Foo","price":50.5},"importance":5}`), middleware.BodyOpt{ParseOpt: middleware.DefaultParseOpt(), Embedded: true})
	require.NoError(t, err)
	assert.Equal(t, 5, dm.Value["importance"])
	assert.True(t, dm.Presence.Seen("/item/price"))
}

func TestParseBody_NotEmbeddedRequiresBody(t *testing.T) {
	_, err := middleware.ParseBody(context.Background(), envelope(), strings.NewReader("  "), middleware.BodyOpt{})
	iss, ok := skemapi.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, []string{"/body value_error.missing"}, locs(iss))
}

func TestParseBody_InvalidJSON(t *testing.T) {
	_, err := middleware.ParseBody(context.Background(), envelope(), strings.NewReader(`{"item": `), middleware.BodyOpt{Embedded: true})
	iss, ok := skemapi.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	assert.Equal(t, skemapi.CodeJSONDecode, iss[0].Code)
	assert.Equal(t, "body", iss[0].Loc[0])
}

func TestParseBody_DuplicateKeys(t *testing.T) {
	_, err := middleware.ParseBody(context.Background(), envelope(), strings.NewReader(`{"importance":1,"importance":2}`), middleware.BodyOpt{ParseOpt: middleware.DefaultParseOpt(), Embedded: true})
	iss, ok := skemapi.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, skemapi.CodeDuplicateKey, iss[0].Code)
}

func TestParseBody_TooLarge(t *testing.T) {
	opt := middleware.BodyOpt{ParseOpt: skemapi.ParseOpt{MaxBytes: 8}, Embedded: true}
	_, err := middleware.ParseBody(context.Background(), envelope(), strings.NewReader(`{"importance":12345}`), opt)
	iss, ok := skemapi.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, []string{"/body value_error.too_large"}, locs(iss))
	assert.Equal(t, 8, iss[0].Params["limit_value"])
}

func TestErrorPayload(t *testing.T) {
	iss := skemapi.Issues{
		skemapi.IssueAt(skemapi.Loc{"item_id"}, skemapi.CodeInteger, nil),
		skemapi.IssueAt(skemapi.Loc{"size"}, skemapi.CodeNumberNotGE, map[string]any{"limit_value": 1}),
	}
	p := middleware.ErrorPayload(iss, "path")
	require.Len(t, p.Detail, 2)
	assert.Equal(t, []any{"path", "item_id"}, p.Detail[0].Loc)
	assert.Equal(t, "value is not a valid integer", p.Detail[0].Msg)
	assert.Equal(t, "type_error.integer", p.Detail[0].Type)
	assert.Nil(t, p.Detail[0].Ctx)
	assert.Equal(t, map[string]any{"limit_value": 1}, p.Detail[1].Ctx)
}

func TestContextRoundTrip(t *testing.T) {
	ctx := middleware.ContextWithDecoded(context.Background(), skemapi.Decoded[int]{Value: 3})
	dm, ok := middleware.DecodedFromContext[int](ctx)
	assert.True(t, ok)
	assert.Equal(t, 3, dm.Value)
	_, ok = middleware.DecodedFromContext[string](ctx)
	assert.False(t, ok)
}
