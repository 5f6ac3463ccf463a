package normalize

import "testing"

func TestDate(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "slash", input: "01/03/2024", want: "2024-03-01"},
		{name: "dash", input: "5-7-2023", want: "2023-07-05"},
		{name: "dot", input: "28.02.2024", want: "2024-02-28"},
		{name: "two digit year 20xx", input: "01/03/24", want: "2024-03-01"},
		{name: "two digit year 19xx", input: "01/03/99", want: "1999-03-01"},
		{name: "spanish textual", input: "20 de octubre de 2025", want: "2025-10-20"},
		{name: "spanish accented month", input: "3 de setiembre de 2024", want: "2024-09-03"},
		{name: "with surrounding space", input: "  15/12/2025  ", want: "2025-12-15"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Date(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestDateInvalid(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "day overflow", input: "32/01/2024"},
		{name: "month overflow", input: "01/13/2024"},
		{name: "impossible day for month", input: "31/04/2024"},
		{name: "february 30", input: "30/02/2023"},
		{name: "unknown month name", input: "5 de brumario de 2024"},
		{name: "no date at all", input: "sin fecha"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Date(tc.input); err == nil {
				t.Fatalf("expected error for %q", tc.input)
			}
		})
	}
}

func TestSpanishDateInProse(t *testing.T) {
	got, err := SpanishDate("Buenos Aires, 20 de octubre de 2025")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2025-10-20" {
		t.Fatalf("got %q", got)
	}
}

func TestFormDate(t *testing.T) {
	if got := FormDate("2024-03-01"); got != "01/03/2024" {
		t.Fatalf("got %q", got)
	}
	// non-canonical input passes through
	if got := FormDate("whatever"); got != "whatever" {
		t.Fatalf("got %q", got)
	}
}
