package skemapi_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/reoring/skemapi"
)

func TestLoc_Pointer(t *testing.T) {
	cases := map[string]skemapi.Loc{
		"/":          {},
		"/body/item": {"body", "item"},
		"/loc/0":     {"loc", 0},
		"/a~1b/c~0d": {"a/b", "c~d"},
	}
	for want, loc := range cases {
		if got := loc.Pointer(); got != want {
			t.Fatalf("%v: got %q, want %q", loc, got, want)
		}
	}
}

func TestLoc_PrependDoesNotAlias(t *testing.T) {
	base := make(skemapi.Loc, 1, 4)
	base[0] = "name"
	a := base.Prepend("body", "item")
	b := base.Key("x")
	c := base.Index(2)
	if !reflect.DeepEqual(a, skemapi.Loc{"body", "item", "name"}) {
		t.Fatalf("prepend: %v", a)
	}
	if !reflect.DeepEqual(b, skemapi.Loc{"name", "x"}) || !reflect.DeepEqual(c, skemapi.Loc{"name", 2}) {
		t.Fatalf("key/index aliasing: %v %v", b, c)
	}
}

func TestIssues_ErrorSummary(t *testing.T) {
	iss := skemapi.Issues{
		{Loc: skemapi.Loc{"a"}, Code: skemapi.CodeMissing},
		{Loc: skemapi.Loc{"b"}, Code: skemapi.CodeExtra},
		{Loc: skemapi.Loc{"c", 0}, Code: skemapi.CodeInteger},
		{Loc: skemapi.Loc{"d"}, Code: skemapi.CodeFloat},
	}
	s := iss.Error()
	if !strings.HasPrefix(s, "value_error.missing at /a; value_error.extra at /b; type_error.integer at /c/0") {
		t.Fatalf("unexpected summary: %s", s)
	}
	if !strings.HasSuffix(s, "(total 4)") {
		t.Fatalf("expected total suffix: %s", s)
	}
	if skemapi.Issues(nil).Error() != "" {
		t.Fatalf("empty issues must render empty")
	}
}

func TestIssues_RebaseKeepsOriginal(t *testing.T) {
	iss := skemapi.NewIssues(skemapi.Loc{"item"}, skemapi.CodeMissing)
	rebased := iss.Rebase("body")
	if got := rebased[0].Path(); got != "/body/item" {
		t.Fatalf("rebased path %q", got)
	}
	if got := iss[0].Path(); got != "/item" {
		t.Fatalf("original mutated: %q", got)
	}
	if rebased[0].Message != "field required" {
		t.Fatalf("message lost: %q", rebased[0].Message)
	}
}

func TestIssuesFromErr(t *testing.T) {
	if skemapi.IssuesFromErr(nil, nil) != nil {
		t.Fatalf("nil error must give nil issues")
	}
	plain := errors.New("boom")
	iss := skemapi.IssuesFromErr(skemapi.Loc{"x"}, plain)
	if len(iss) != 1 || iss[0].Code != skemapi.CodeCustom || iss[0].Message != "boom" || !errors.Is(iss[0].Cause, plain) {
		t.Fatalf("unexpected conversion: %+v", iss)
	}

	wrapped := errors.Join(errors.New("ctx"), skemapi.NewIssues(skemapi.Loc{"y"}, skemapi.CodeMissing))
	iss = skemapi.IssuesFromErr(skemapi.Loc{"ignored"}, wrapped)
	if len(iss) != 1 || iss[0].Path() != "/y" {
		t.Fatalf("wrapped issues must be unwrapped as-is: %+v", iss)
	}
}

func TestIssueAt_Params(t *testing.T) {
	it := skemapi.IssueAt(skemapi.Loc{"importance"}, skemapi.CodeNumberNotGE, map[string]any{"limit_value": 1})
	if it.Message != "ensure this value is greater than or equal to 1" {
		t.Fatalf("unexpected message %q", it.Message)
	}
	all := skemapi.AppendIssues(nil, it)
	if len(all) != 1 || all[0].Params["limit_value"] != 1 {
		t.Fatalf("append: %+v", all)
	}
}
