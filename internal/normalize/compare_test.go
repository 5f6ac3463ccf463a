package normalize

import (
	"reflect"
	"testing"
)

func TestForComparison(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "Enero", want: "enero"},
		{input: "CONSUMIDOR FINAL", want: "consumidor final"},
		{input: "Razón  Social", want: "razon social"},
		{input: "  I.V.A. Responsable ", want: "i v a responsable"},
		{input: "Año: 2015", want: "ano 2015"},
		{input: "", want: ""},
	}
	for _, tc := range cases {
		if got := ForComparison(tc.input); got != tc.want {
			t.Fatalf("ForComparison(%q) = %q want %q", tc.input, got, tc.want)
		}
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("Monotributo - Responsable")
	want := []string{"monotributo", "responsable"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if Tokens("  ") != nil {
		t.Fatalf("expected nil for blank input")
	}
}

func TestPlate(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "aa123bb", want: "AA123BB"},
		{input: "AA 123 BB", want: "AA123BB"},
		{input: "ABC-123", want: "ABC123"},
	}
	for _, tc := range cases {
		got, err := Plate(tc.input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tc.want {
			t.Fatalf("Plate(%q) = %q want %q", tc.input, got, tc.want)
		}
	}

	for _, bad := range []string{"", "12345678", "A1", "AAAA1111"} {
		if _, err := Plate(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestIdentifier(t *testing.T) {
	got, err := Identifier("8ap-3717 38")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "8AP371738" {
		t.Fatalf("got %q", got)
	}
	if _, err := Identifier("ab"); err == nil {
		t.Fatalf("expected error for short identifier")
	}
}
