package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNumericValueCoercions(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  float64
		ok    bool
	}{
		{"float64", float64(12.5), 12.5, true},
		{"int", 42, 42, true},
		{"int64", int64(7), 7, true},
		{"json number", json.Number("3.25"), 3.25, true},
		{"string", "19.99", 19.99, true},
		{"padded string", "  100 ", 100, true},
		{"negative string", "-5", -5, true},
		{"non-numeric string", "twelve", 0, false},
		{"empty string", "", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}

	for _, tc := range cases {
		got, ok := NumericValue(tc.value)
		if ok != tc.ok {
			t.Errorf("%s: expected ok=%t, got %t", tc.name, tc.ok, ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestDateValueFormats(t *testing.T) {
	want := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{"2024-03-01", "2024/03/01", "03/01/2024", " 2024-03-01 "} {
		ts, err := DateValue(raw)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", raw, err)
			continue
		}
		if !ts.Equal(want) {
			t.Errorf("%q: expected %s, got %s", raw, want.Format("2006-01-02"), ts.Format("2006-01-02"))
		}
	}

	if _, err := DateValue("not-a-date"); err == nil {
		t.Error("expected error for unparseable date")
	}
	if _, err := DateValue(12345); err == nil {
		t.Error("expected error for non-string, non-time value")
	}

	passthrough := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	ts, err := DateValue(passthrough)
	if err != nil {
		t.Fatalf("unexpected error for time.Time value: %v", err)
	}
	if !ts.Equal(passthrough) {
		t.Errorf("expected time.Time to pass through unchanged")
	}
}
