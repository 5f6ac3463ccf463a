package pipeline

import "testing"

func TestResolveOption(t *testing.T) {
	cases := []struct {
		name       string
		desired    string
		candidates []string
		want       string
		wantOK     bool
	}{
		{"exact", "PESOS", []string{"PESOS", "USD"}, "PESOS", true},
		{"case fold", "Enero", []string{"ENERO", "Febrero"}, "ENERO", true},
		{"accent fold", "AUTOMATICA", []string{"Automática", "Manual"}, "Automática", true},
		{"containment", "GOL", []string{"VW GOL TREND", "VW GOL"}, "VW GOL", true},
		{"containment shortest wins", "VOLKSWAGEN", []string{"VOLKSWAGEN ARGENTINA S.A.", "VOLKSWAGEN"}, "VOLKSWAGEN", true},
		{"containment is contiguous", "GOL TREND", []string{"GOL 1.6 TREND"}, "", false},
		{"tie keeps form order", "FINAL", []string{"CONSUMIDOR FINAL", "USUARIO FINAL"}, "CONSUMIDOR FINAL", true},
		{"no match", "MONOTRIBUTO", []string{"PESOS", "USD"}, "", false},
		{"empty candidates", "PESOS", nil, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ResolveOption(tc.desired, tc.candidates)
			if got != tc.want || ok != tc.wantOK {
				t.Fatalf("ResolveOption(%q, %v) = %q/%v, want %q/%v", tc.desired, tc.candidates, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestResolveOptionPrefersStricterTier(t *testing.T) {
	// An exact hit beats a shorter containment candidate.
	got, ok := ResolveOption("VW GOL TREND", []string{"GOL", "VW GOL TREND"})
	if !ok || got != "VW GOL TREND" {
		t.Fatalf("got %q/%v", got, ok)
	}
}

func TestContainsTokenSeq(t *testing.T) {
	if !containsTokenSeq([]string{"a", "b", "c"}, []string{"b", "c"}) {
		t.Fatalf("contiguous tail not found")
	}
	if containsTokenSeq([]string{"a", "b", "c"}, []string{"a", "c"}) {
		t.Fatalf("gapped sequence must not match")
	}
	if containsTokenSeq([]string{"a"}, []string{"a", "b"}) {
		t.Fatalf("longer needle must not match")
	}
	if containsTokenSeq([]string{"a"}, nil) {
		t.Fatalf("empty needle must not match")
	}
}
