package jsonpatch

import (
	"testing"

	json "github.com/goccy/go-json"
)

func TestDiffIdenticalDocuments(t *testing.T) {
	doc := map[string]any{"discount_rate": 1.08, "segments": []any{map[string]any{"end_period": 5.0}}}
	if ops := Diff(doc, doc, ""); len(ops) != 0 {
		t.Fatalf("expected no ops, got %v", ops)
	}
}

func TestDiffIsOrdered(t *testing.T) {
	a := map[string]any{"a": 1.0, "b": 2.0, "c": 3.0, "d": 4.0}
	b := map[string]any{"a": 9.0, "b": 8.0, "c": 7.0, "e": 5.0}

	want := []string{"/d", "/a", "/b", "/c", "/e"}
	for i := 0; i < 20; i++ {
		got := Paths(Diff(a, b, ""))
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("expected %v, got %v", want, got)
			}
		}
	}
}

func TestDiffArrays(t *testing.T) {
	a := []any{1.0, 2.0, 3.0}
	b := []any{1.0, 5.0}

	ops := Diff(a, b, "/segments")
	if len(ops) != 2 {
		t.Fatalf("expected 2 ops, got %v", ops)
	}
	if ops[0].Op != "replace" || ops[0].Path != "/segments/1" {
		t.Fatalf("unexpected first op %+v", ops[0])
	}
	if ops[1].Op != "remove" || ops[1].Path != "/segments/2" {
		t.Fatalf("unexpected second op %+v", ops[1])
	}
}

func TestDiffTypeChange(t *testing.T) {
	ops := Diff(map[string]any{"x": []any{1.0}}, map[string]any{"x": map[string]any{}}, "")
	if len(ops) != 1 || ops[0].Op != "replace" || ops[0].Path != "/x" {
		t.Fatalf("unexpected ops %v", ops)
	}
}

func TestBetweenStructs(t *testing.T) {
	type doc struct {
		Rate float64 `json:"rate"`
		End  *int    `json:"end"`
	}
	five := 5
	ops, err := Between(doc{Rate: 1.08, End: &five}, doc{Rate: 1.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("expected 2 ops, got %v", ops)
	}
	if ops[0].Path != "/end" || ops[0].Value != nil {
		t.Fatalf("expected end replaced by null, got %+v", ops[0])
	}

	raw, err := json.Marshal(ops[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"op":"replace","path":"/end","value":null}` {
		t.Fatalf("unexpected encoding %s", raw)
	}
}

func TestEscapeKey(t *testing.T) {
	if got := escapeKey("a/b~c"); got != "a~1b~0c" {
		t.Fatalf("unexpected escape %s", got)
	}
}
