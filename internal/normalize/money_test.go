package normalize

import "testing"

func TestMoney(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "plain", input: "1234", want: 1234},
		{name: "decimal comma", input: "1234,56", want: 1234.56},
		{name: "thousands dot", input: "1.234.567", want: 1234567},
		{name: "full ars format", input: "$ 1.234,56", want: 1234.56},
		{name: "usd symbol", input: "U$S 2.500,00", want: 2500},
		{name: "nbsp separator", input: "1 234,50", want: 1234.5},
		{name: "negative", input: "-1.000,25", want: -1000.25},
		{name: "trailing text", input: "1.500,00 pesos", want: 1500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Money(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestMoneyInvalid(t *testing.T) {
	for _, input := range []string{"", "sin importe", "$"} {
		if _, err := Money(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestCurrency(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "PESOS", want: "PESOS"},
		{input: "Pesos Argentinos", want: "PESOS"},
		{input: "DOLAR ESTADOUNIDENSE", want: "USD"},
		{input: "U$S", want: "USD"},
		{input: "EUROS", want: "EUROS"},
	}
	for _, tc := range cases {
		got, err := Currency(tc.input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tc.want {
			t.Fatalf("Currency(%q) = %q want %q", tc.input, got, tc.want)
		}
	}
}
