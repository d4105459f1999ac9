package models

import "testing"

func strPtr(s string) *string { return &s }

func TestNormalizeSKU(t *testing.T) {
	cases := []struct {
		in   *string
		want *string
	}{
		{in: nil, want: nil},
		{in: strPtr("   "), want: nil},
		{in: strPtr(" ab-12 "), want: strPtr("AB-12")},
		{in: strPtr("123"), want: strPtr("123")},
	}
	for _, tc := range cases {
		got := NormalizeSKU(tc.in)
		switch {
		case tc.want == nil && got != nil:
			t.Fatalf("expected nil, got %q", *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Fatalf("expected %q, got %v", *tc.want, got)
		}
	}
}

func TestProductBeforeSaveNormalizes(t *testing.T) {
	p := &Product{Name: "Shirt", SKU: strPtr(" tee-01"), Image: strPtr("  ")}
	if err := p.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave: %v", err)
	}
	if p.SKU == nil || *p.SKU != "TEE-01" {
		t.Fatalf("unexpected sku %v", p.SKU)
	}
	if p.Image != nil {
		t.Fatalf("blank image should become nil, got %q", *p.Image)
	}
}
