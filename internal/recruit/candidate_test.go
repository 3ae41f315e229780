package recruit

import (
	"testing"
	"time"
)

func TestAgeBracket(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		birthdate string
		want      string
	}{
		{name: "mid-thirties", birthdate: "1990-06-15", want: "30代"},
		{name: "birthday already passed", birthdate: "1994-01-01", want: "30代"},
		{name: "birthday not yet reached", birthdate: "1994-01-02", want: "20代"},
		{name: "teenager", birthdate: "2005-03-20", want: "10代"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AgeBracket(tc.birthdate, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestAgeBracketInvalidInput(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := AgeBracket("15-06-1990", now); err == nil {
		t.Fatalf("expected error for malformed birthdate")
	}

	if _, err := AgeBracket("2030-01-01", now); err == nil {
		t.Fatalf("expected error for future birthdate")
	}
}
