package types

import (
	"encoding/json"
	"testing"
)

func TestNullableUnmarshal(t *testing.T) {
	type payload struct {
		Link Nullable[string] `json:"link"`
	}

	var got payload
	if err := json.Unmarshal([]byte(`{"link": "https://shop.test"}`), &got); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if !got.Link.Present || got.Link.Value == nil || *got.Link.Value != "https://shop.test" {
		t.Fatalf("expected present value, got %+v", got.Link)
	}

	got = payload{}
	if err := json.Unmarshal([]byte(`{"link": null}`), &got); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !got.Link.Present || got.Link.Value != nil {
		t.Fatalf("expected present null, got %+v", got.Link)
	}

	got = payload{}
	if err := json.Unmarshal([]byte(`{}`), &got); err != nil {
		t.Fatalf("unmarshal missing: %v", err)
	}
	if got.Link.Present {
		t.Fatalf("expected absent field, got %+v", got.Link)
	}

	if err := json.Unmarshal([]byte(`{"link": 12}`), &got); err == nil {
		t.Fatalf("expected type error")
	}
}

func TestNullableApply(t *testing.T) {
	old := "old"
	dst := &old

	Nullable[string]{}.Apply(&dst)
	if dst == nil || *dst != "old" {
		t.Fatalf("absent value must not touch dst")
	}
	Some("new").Apply(&dst)
	if dst == nil || *dst != "new" {
		t.Fatalf("expected new value, got %v", dst)
	}
	Null[string]().Apply(&dst)
	if dst != nil {
		t.Fatalf("expected nil after null")
	}
}

func TestNullableMarshal(t *testing.T) {
	raw, err := json.Marshal(struct {
		A Nullable[int] `json:"a"`
		B Nullable[int] `json:"b"`
	}{A: Some(3)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"a":3,"b":null}` {
		t.Fatalf("unexpected json %s", raw)
	}
}
